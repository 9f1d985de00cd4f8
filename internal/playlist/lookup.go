package playlist

import "fmt"

// Match is the outcome of an exact id lookup.
type Match int

const (
	Found Match = iota
	NotFound
	Ambiguous
)

// String returns the match name.
func (m Match) String() string {
	switch m {
	case Found:
		return "Found"
	case NotFound:
		return "NotFound"
	case Ambiguous:
		return "Ambiguous"
	default:
		return "Unknown"
	}
}

// Result holds a lookup outcome. Track and Index are only set when
// Match is Found.
type Result struct {
	Match Match
	Track Track
	Index int
	Count int
}

// Err converts the result to an error wrapping ErrNotFound or ErrAmbiguous.
func (r Result) Err(id string) error {
	switch r.Match {
	case Found:
		return nil
	case Ambiguous:
		return fmt.Errorf("track %q matched %d entries: %w", id, r.Count, ErrAmbiguous)
	default:
		return fmt.Errorf("track %q: %w", id, ErrNotFound)
	}
}

// Lookup finds the single track with the given id.
func (p *Playlist) Lookup(id string) Result {
	res := Result{Match: NotFound, Index: -1}
	for i := range p.tracks {
		if p.tracks[i].ID != id {
			continue
		}
		res.Count++
		if res.Count == 1 {
			res.Track = p.tracks[i]
			res.Index = i
		}
	}
	switch {
	case res.Count == 1:
		res.Match = Found
	case res.Count > 1:
		res.Match = Ambiguous
		res.Track = Track{}
		res.Index = -1
	}
	return res
}

// Resolve is Lookup returning the track or a lookup error.
func (p *Playlist) Resolve(id string) (Track, error) {
	res := p.Lookup(id)
	if err := res.Err(id); err != nil {
		return Track{}, err
	}
	return res.Track, nil
}

// Set is an ordered collection of uniquely named playlists.
type Set struct {
	items []*Playlist
}

// NewSet creates an empty playlist set.
func NewSet() *Set {
	return &Set{}
}

// Get returns the playlist with the given name, or nil.
func (s *Set) Get(name string) *Playlist {
	for _, p := range s.items {
		if p.name == name {
			return p
		}
	}
	return nil
}

// Has reports whether a playlist with the given name exists.
func (s *Set) Has(name string) bool {
	return s.Get(name) != nil
}

// Add appends a playlist. Returns ErrDuplicateName if the name is taken.
func (s *Set) Add(p *Playlist) error {
	if s.Has(p.name) {
		return fmt.Errorf("%q: %w", p.name, ErrDuplicateName)
	}
	s.items = append(s.items, p)
	return nil
}

// Put adds the playlist, replacing an existing one with the same name in place.
func (s *Set) Put(p *Playlist) {
	for i, existing := range s.items {
		if existing.name == p.name {
			s.items[i] = p
			return
		}
	}
	s.items = append(s.items, p)
}

// Remove removes the playlist with the given name.
// Returns the removed playlist or nil.
func (s *Set) Remove(name string) *Playlist {
	for i, p := range s.items {
		if p.name == name {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return p
		}
	}
	return nil
}

// Clear removes every playlist.
func (s *Set) Clear() {
	s.items = nil
}

// All returns the playlists in insertion order.
func (s *Set) All() []*Playlist {
	result := make([]*Playlist, len(s.items))
	copy(result, s.items)
	return result
}

// Len returns the number of playlists.
func (s *Set) Len() int {
	return len(s.items)
}
