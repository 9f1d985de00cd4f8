package playlist

import (
	"errors"
	"slices"
	"time"
)

// UnknownArtist is used when a file carries no artist tag.
const UnknownArtist = "Unknown"

var (
	ErrNotFound      = errors.New("not found")
	ErrAmbiguous     = errors.New("ambiguous match")
	ErrDuplicateName = errors.New("playlist name already exists")
)

// Track represents a single track of the main library.
// The ID is the file path and is stable across scans.
type Track struct {
	ID       string
	Path     string
	Title    string
	Artist   string
	Duration time.Duration
}

// Playlist is a named, ordered list of tracks. The running total kept in
// total always equals the sum of the member durations.
type Playlist struct {
	name     string
	tracks   []Track
	shuffled bool
	total    time.Duration
}

func New(name string) *Playlist {
	return &Playlist{name: name, tracks: []Track{}}
}

func (p *Playlist) Name() string                 { return p.name }
func (p *Playlist) Len() int                     { return len(p.tracks) }
func (p *Playlist) TotalDuration() time.Duration { return p.total }
func (p *Playlist) Shuffled() bool               { return p.shuffled }
func (p *Playlist) SetShuffled(on bool)          { p.shuffled = on }

// Add appends tracks in order. The same track may appear more than once.
func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
	for _, t := range tracks {
		p.total += t.Duration
	}
}

// Remove drops the first entry with the given id and reports whether
// there was one.
func (p *Playlist) Remove(id string) bool {
	return p.RemoveAt(p.IndexOf(id))
}

// RemoveAt drops the entry at index, reporting false when out of range.
func (p *Playlist) RemoveAt(index int) bool {
	if p.Track(index) == nil {
		return false
	}
	p.total -= p.tracks[index].Duration
	p.tracks = slices.Delete(p.tracks, index, index+1)
	return true
}

func (p *Playlist) Clear() {
	clear(p.tracks)
	p.tracks = p.tracks[:0]
	p.total = 0
}

// Tracks returns a copy of the entries.
func (p *Playlist) Tracks() []Track {
	return slices.Clone(p.tracks)
}

// Track returns the entry at index, or nil when out of range.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return &p.tracks[index]
}

// IndexOf returns the position of the first entry with id, or -1.
func (p *Playlist) IndexOf(id string) int {
	return slices.IndexFunc(p.tracks, func(t Track) bool { return t.ID == id })
}

func (p *Playlist) Contains(id string) bool {
	return p.IndexOf(id) >= 0
}

// IDs returns the member ids in playlist order.
func (p *Playlist) IDs() []string {
	ids := make([]string, 0, len(p.tracks))
	for _, t := range p.tracks {
		ids = append(ids, t.ID)
	}
	return ids
}
