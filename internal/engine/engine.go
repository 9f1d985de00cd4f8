// Package engine plays a queue of tracks and reports which one is current.
package engine

import (
	"time"

	"github.com/llehouerou/duoplay/internal/playlist"
)

// State represents the engine playback state.
//
//	Stopped --Play--> Playing --Pause--> Paused --Play--> Playing
//
// Reaching the end of the queue returns to Stopped.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

var engineStateNames = [...]string{Stopped: "Stopped", Playing: "Playing", Paused: "Paused"}

func (s State) String() string {
	if s < 0 || int(s) >= len(engineStateNames) {
		return "Unknown"
	}
	return engineStateNames[s]
}

// Item identifies the current queue entry.
type Item struct {
	Index   int
	TrackID string
}

// NoItem means nothing is selected.
var NoItem = Item{Index: -1}

// Valid reports whether the item designates a queue entry.
func (i Item) Valid() bool {
	return i.Index >= 0
}

// Engine is the playback contract the background owner drives.
//
// Bind replaces the queue without selecting or starting anything.
// Update replaces the queue but keeps the current entry when it survives.
// Moves select a new entry and keep the play/pause state; the item-changed
// callback fires for every selection change, including automatic advance at
// the end of a track. Running off the end of the queue keeps the last
// entry selected and raises the stopped callback instead. Callbacks may run
// on any goroutine.
type Engine interface {
	Bind(tracks []playlist.Track)
	Update(tracks []playlist.Track)
	MoveTo(index int) error
	MoveNext() error
	MovePrevious() error
	Play() error
	Pause()
	State() State
	Current() Item
	Position() time.Duration
	SetPosition(d time.Duration) error
	SetShuffle(enabled bool)
	OnCurrentItemChanged(fn func(Item))
	OnStopped(fn func())
	Shutdown() error
}
