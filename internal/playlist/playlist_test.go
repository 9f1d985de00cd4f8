//nolint:goconst // test file with repeated string literals
package playlist

import (
	"errors"
	"testing"
	"time"
)

func track(id string, d time.Duration) Track {
	return Track{ID: id, Path: id, Title: id, Artist: UnknownArtist, Duration: d}
}

func TestNew(t *testing.T) {
	p := New("Drive")

	if p.Name() != "Drive" {
		t.Errorf("Name() = %q, want Drive", p.Name())
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0", p.Len())
	}
	if p.Tracks() == nil {
		t.Error("Tracks() should return empty slice, not nil")
	}
	if p.TotalDuration() != 0 {
		t.Errorf("TotalDuration() = %v, want 0", p.TotalDuration())
	}
}

func TestPlaylist_TotalDuration_Scenario(t *testing.T) {
	a := track("/music/a.mp3", 3*time.Minute)
	b := track("/music/b.mp3", 2*time.Minute+30*time.Second)

	p := New("Drive")
	p.Add(a)
	p.Add(b)

	if got := p.TotalDuration(); got != 5*time.Minute+30*time.Second {
		t.Errorf("TotalDuration() = %v, want 5m30s", got)
	}

	if !p.Remove(a.ID) {
		t.Fatal("Remove(a) = false, want true")
	}
	if got := p.TotalDuration(); got != 2*time.Minute+30*time.Second {
		t.Errorf("TotalDuration() = %v, want 2m30s", got)
	}
}

func TestPlaylist_TotalDuration_MatchesSum(t *testing.T) {
	p := New("mix")
	ops := []struct {
		add    *Track
		remove string
	}{
		{add: &Track{ID: "1", Duration: 61 * time.Second}},
		{add: &Track{ID: "2", Duration: 10 * time.Second}},
		{add: &Track{ID: "1", Duration: 61 * time.Second}},
		{remove: "2"},
		{remove: "missing"},
		{remove: "1"},
		{add: &Track{ID: "3", Duration: time.Hour}},
	}

	for i, op := range ops {
		if op.add != nil {
			p.Add(*op.add)
		} else {
			p.Remove(op.remove)
		}

		var sum time.Duration
		for _, tr := range p.Tracks() {
			sum += tr.Duration
		}
		if p.TotalDuration() != sum {
			t.Fatalf("step %d: TotalDuration() = %v, sum = %v", i, p.TotalDuration(), sum)
		}
	}
}

func TestPlaylist_Remove_Missing(t *testing.T) {
	p := New("x")
	p.Add(track("a", time.Second))

	if p.Remove("b") {
		t.Error("Remove of missing id should return false")
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestPlaylist_RemoveAt_InvalidIndex(t *testing.T) {
	p := New("x")
	p.Add(track("a", time.Second))

	tests := []struct {
		name  string
		index int
	}{
		{"negative", -1},
		{"out of bounds", 5},
		{"at length", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p.RemoveAt(tt.index) {
				t.Error("RemoveAt with invalid index should return false")
			}
			if p.TotalDuration() != time.Second {
				t.Errorf("TotalDuration() = %v, want 1s", p.TotalDuration())
			}
		})
	}
}

func TestPlaylist_Clear(t *testing.T) {
	p := New("x")
	p.Add(track("a", time.Second), track("b", time.Second))

	p.Clear()

	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0", p.Len())
	}
	if p.TotalDuration() != 0 {
		t.Errorf("TotalDuration() = %v, want 0", p.TotalDuration())
	}
}

func TestPlaylist_Tracks_ReturnsCopy(t *testing.T) {
	p := New("x")
	p.Add(track("a", time.Second))

	tracks := p.Tracks()
	tracks[0].ID = "modified"

	if p.Tracks()[0].ID != "a" {
		t.Error("Tracks() should return a copy, not the original slice")
	}
}

func TestPlaylist_Lookup(t *testing.T) {
	p := New("x")
	p.Add(track("a", time.Second), track("b", time.Second), track("a", time.Second))

	tests := []struct {
		name      string
		id        string
		wantMatch Match
		wantIndex int
		wantErr   error
	}{
		{"single match", "b", Found, 1, nil},
		{"no match", "zzz", NotFound, -1, ErrNotFound},
		{"duplicate", "a", Ambiguous, -1, ErrAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Lookup(tt.id)
			if res.Match != tt.wantMatch {
				t.Errorf("Match = %v, want %v", res.Match, tt.wantMatch)
			}
			if res.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", res.Index, tt.wantIndex)
			}
			err := res.Err(tt.id)
			if tt.wantErr == nil && err != nil {
				t.Errorf("Err() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Err() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSet_Add_DuplicateName(t *testing.T) {
	s := NewSet()

	if err := s.Add(New("Hits")); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	err := s.Add(New("Hits"))
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("second Add() error = %v, want ErrDuplicateName", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSet_NamesAreCaseSensitive(t *testing.T) {
	s := NewSet()
	_ = s.Add(New("Hits"))

	if err := s.Add(New("hits")); err != nil {
		t.Errorf("Add(hits) error = %v, want nil", err)
	}
}

func TestSet_PutReplacesInPlace(t *testing.T) {
	s := NewSet()
	_ = s.Add(New("a"))
	_ = s.Add(New("b"))

	replacement := New("a")
	replacement.Add(track("x", time.Second))
	s.Put(replacement)

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	if all[0] != replacement {
		t.Error("Put should keep the original position")
	}
}

func TestSet_Remove(t *testing.T) {
	s := NewSet()
	_ = s.Add(New("a"))
	_ = s.Add(New("b"))

	if removed := s.Remove("a"); removed == nil || removed.Name() != "a" {
		t.Errorf("Remove(a) = %v, want playlist a", removed)
	}
	if s.Remove("a") != nil {
		t.Error("second Remove(a) should return nil")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}
