package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/llehouerou/duoplay/internal/playlist"
	"github.com/llehouerou/duoplay/internal/tags"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func fakeRead(path string) (*tags.FileInfo, error) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "broken") {
		return nil, errors.New("bad header")
	}
	info := &tags.FileInfo{}
	info.Path = path
	info.Title = strings.TrimSuffix(base, filepath.Ext(base))
	if strings.Contains(base, "artist") {
		info.Artist = "Someone"
	}
	info.Duration = 2*time.Minute + 30*time.Second + 700*time.Millisecond
	return info, nil
}

func TestScanner_Scan(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b", "two-artist.flac"))
	touch(t, filepath.Join(dir, "a", "one.mp3"))
	touch(t, filepath.Join(dir, "a", "cover.jpg"))
	touch(t, filepath.Join(dir, "broken.mp3"))

	s := &Scanner{Sources: []string{dir}, Read: fakeRead}
	main, err := s.Scan(context.Background(), "All tracks")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if main.Name() != "All tracks" {
		t.Errorf("Name() = %q, want All tracks", main.Name())
	}
	got := main.Tracks()
	if len(got) != 2 {
		t.Fatalf("len(tracks) = %d, want 2", len(got))
	}
	if got[0].Title != "one" || got[1].Title != "two-artist" {
		t.Errorf("titles = %q, %q; want one, two-artist", got[0].Title, got[1].Title)
	}
	if got[0].Artist != playlist.UnknownArtist {
		t.Errorf("Artist = %q, want %q", got[0].Artist, playlist.UnknownArtist)
	}
	if got[1].Artist != "Someone" {
		t.Errorf("Artist = %q, want Someone", got[1].Artist)
	}
	if got[0].Duration != 2*time.Minute+30*time.Second {
		t.Errorf("Duration = %v, want truncated 2m30s", got[0].Duration)
	}
	if main.TotalDuration() != 5*time.Minute {
		t.Errorf("TotalDuration() = %v, want 5m0s", main.TotalDuration())
	}
	for _, tr := range got {
		if tr.ID != tr.Path || !filepath.IsAbs(tr.ID) {
			t.Errorf("ID = %q, want absolute path equal to Path", tr.ID)
		}
	}
}

func TestScanner_Scan_OverlappingSources(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "sub", "song.mp3"))

	s := &Scanner{Sources: []string{dir, filepath.Join(dir, "sub")}, Read: fakeRead}
	main, err := s.Scan(context.Background(), "main")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if main.Len() != 1 {
		t.Errorf("Len() = %d, want 1", main.Len())
	}
}

func TestScanner_Scan_MissingSource(t *testing.T) {
	s := &Scanner{Sources: []string{filepath.Join(t.TempDir(), "missing")}, Read: fakeRead}
	main, err := s.Scan(context.Background(), "main")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if main.Len() != 0 {
		t.Errorf("Len() = %d, want 0", main.Len())
	}
}

func TestScanner_Scan_Canceled(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "song.mp3"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Scanner{Sources: []string{dir}, Read: fakeRead}
	if _, err := s.Scan(ctx, "main"); !errors.Is(err, context.Canceled) {
		t.Errorf("Scan() error = %v, want context.Canceled", err)
	}
}

func TestScanner_Scan_ReportsDone(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "song.mp3"))

	progress := make(chan ScanProgress, 10)
	s := &Scanner{Sources: []string{dir}, Read: fakeRead, Progress: progress}
	if _, err := s.Scan(context.Background(), "main"); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	var last ScanProgress
	for len(progress) > 0 {
		last = <-progress
	}
	if last.Phase != PhaseDone || last.Current != 1 {
		t.Errorf("last progress = %+v, want done with 1 track", last)
	}
}
