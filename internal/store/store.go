// Package store persists user playlists as ordered lists of track ids.
package store

import (
	"context"
	"fmt"

	"github.com/llehouerou/duoplay/internal/playlist"
)

// Entry is one persisted playlist.
type Entry struct {
	Name     string
	TrackIDs []string
}

// Data is the persisted playlist set in save order.
type Data []Entry

// Store saves and loads the full set of user playlists.
// Load returns empty Data when nothing has been saved yet.
type Store interface {
	Save(ctx context.Context, playlists []*playlist.Playlist) error
	Load(ctx context.Context) (Data, error)
}

// PersistenceError wraps a failed read or write of the durable store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func saveErr(err error) error {
	return &PersistenceError{Op: "save", Err: err}
}

func loadErr(err error) error {
	return &PersistenceError{Op: "load", Err: err}
}

// entries converts playlists to their persisted form.
func entries(playlists []*playlist.Playlist) Data {
	data := make(Data, 0, len(playlists))
	for _, p := range playlists {
		data = append(data, Entry{Name: p.Name(), TrackIDs: p.IDs()})
	}
	return data
}
