//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/duoplay/internal/playback"
	"github.com/llehouerou/duoplay/internal/playlist"
)

type fakeControls struct {
	pressed []playback.Button
	shuffle []bool
	status  playback.Status
}

func (f *fakeControls) Press(b playback.Button) { f.pressed = append(f.pressed, b) }
func (f *fakeControls) SetShuffle(enabled bool) { f.shuffle = append(f.shuffle, enabled) }
func (f *fakeControls) Status() playback.Status { return f.status }

func TestPlayerAdapter_ButtonsBecomePresses(t *testing.T) {
	c := &fakeControls{}
	p := &playerAdapter{controls: c}

	calls := []func() error{p.Play, p.Pause, p.PlayPause, p.Next, p.Previous, p.Stop}
	for _, call := range calls {
		if err := call(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := []playback.Button{
		playback.ButtonPlay, playback.ButtonPause, playback.ButtonPlayPause,
		playback.ButtonNext, playback.ButtonPrevious, playback.ButtonStop,
	}
	if len(c.pressed) != len(want) {
		t.Fatalf("pressed = %v, want %v", c.pressed, want)
	}
	for i := range want {
		if c.pressed[i] != want[i] {
			t.Errorf("pressed[%d] = %v, want %v", i, c.pressed[i], want[i])
		}
	}
}

func TestPlayerAdapter_PlaybackStatus(t *testing.T) {
	tests := []struct {
		state playback.State
		want  types.PlaybackStatus
	}{
		{playback.StatePlaying, types.PlaybackStatusPlaying},
		{playback.StatePaused, types.PlaybackStatusPaused},
		{playback.StateStopped, types.PlaybackStatusStopped},
	}
	for _, tt := range tests {
		p := &playerAdapter{controls: &fakeControls{status: playback.Status{State: tt.state}}}
		got, err := p.PlaybackStatus()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("PlaybackStatus() for %v = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestPlayerAdapter_Metadata(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "folder.png")
	if err := os.WriteFile(cover, []byte("fake"), 0o600); err != nil {
		t.Fatal(err)
	}
	track := &playlist.Track{
		ID:       filepath.Join(dir, "a.mp3"),
		Path:     filepath.Join(dir, "a.mp3"),
		Title:    "Alpha",
		Artist:   "Ann",
		Duration: 3 * time.Minute,
	}
	p := &playerAdapter{controls: &fakeControls{status: playback.Status{Track: track}}}

	meta, err := p.Metadata()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Title != "Alpha" || len(meta.Artist) != 1 || meta.Artist[0] != "Ann" {
		t.Errorf("Metadata() = %+v, want Alpha by Ann", meta)
	}
	if meta.Length != types.Microseconds(180_000_000) {
		t.Errorf("Length = %d, want 180000000", meta.Length)
	}
	if !strings.HasPrefix(string(meta.TrackId), "/org/mpris/MediaPlayer2/Track/") {
		t.Errorf("TrackId = %q", meta.TrackId)
	}
	if meta.ArtUrl != "file://"+cover {
		t.Errorf("ArtUrl = %q, want file://%s", meta.ArtUrl, cover)
	}
}

func TestPlayerAdapter_MetadataWithoutTrack(t *testing.T) {
	p := &playerAdapter{controls: &fakeControls{}}
	meta, err := p.Metadata()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Title != "" {
		t.Errorf("Metadata() = %+v, want empty", meta)
	}
}

func TestPlayerAdapter_Shuffle(t *testing.T) {
	c := &fakeControls{status: playback.Status{Shuffle: true}}
	p := &playerAdapter{controls: c}

	got, _ := p.Shuffle()
	if !got {
		t.Error("Shuffle() = false, want true")
	}
	_ = p.SetShuffle(false)
	if len(c.shuffle) != 1 || c.shuffle[0] {
		t.Errorf("SetShuffle calls = %v, want [false]", c.shuffle)
	}
}
