// Package library builds the main library playlist from the music files
// found under the configured source directories.
package library

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/duoplay/internal/errmsg"
	"github.com/llehouerou/duoplay/internal/playlist"
	"github.com/llehouerou/duoplay/internal/protocol"
	"github.com/llehouerou/duoplay/internal/tags"
)

const numWorkers = 8

// Scan phases.
const (
	PhaseDiscovering = "discovering"
	PhaseReading     = "reading"
	PhaseDone        = "done"
)

// ScanProgress reports the progress of a library scan.
type ScanProgress struct {
	Phase   string
	Current int
	Total   int
}

// ReadFunc extracts tags and stream info from a music file.
type ReadFunc func(path string) (*tags.FileInfo, error)

// Scanner enumerates music files and turns them into tracks.
type Scanner struct {
	Sources []string
	Read    ReadFunc
	Logger  *log.Logger

	// Progress receives best-effort updates. May be nil.
	Progress chan<- ScanProgress
}

// NewScanner creates a scanner reading tags from disk.
func NewScanner(sources []string, logger *log.Logger) *Scanner {
	return &Scanner{
		Sources: sources,
		Read:    tags.ReadWithAudio,
		Logger:  logger,
	}
}

// Scan walks every source and returns the main library playlist.
// Unreadable files are logged and skipped. Tracks are ordered by path.
func (s *Scanner) Scan(ctx context.Context, name string) (*playlist.Playlist, error) {
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	read := s.Read
	if read == nil {
		read = tags.ReadWithAudio
	}

	files, err := discoverFiles(ctx, s.Sources, s.Progress)
	if err != nil {
		return nil, err
	}

	tracks := s.readFiles(ctx, files, read, logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(tracks, func(i, j int) bool { return tracks[i].ID < tracks[j].ID })

	main := playlist.New(name)
	main.Add(tracks...)

	report(s.Progress, ScanProgress{Phase: PhaseDone, Current: len(tracks), Total: len(files)})
	logger.Info("library scanned", "tracks", len(tracks), "files", len(files))
	return main, nil
}

// readFiles reads files in parallel.
func (s *Scanner) readFiles(ctx context.Context, files []string, read ReadFunc, logger *log.Logger) []playlist.Track {
	workCh := make(chan string)
	resultCh := make(chan playlist.Track, len(files))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for path := range workCh {
				info, err := read(path)
				if err != nil {
					logger.Warn(errmsg.FormatWith(errmsg.OpTrackRead, path, err))
					continue
				}
				resultCh <- toTrack(path, info, logger)
			}
		})
	}

	go func() {
		defer close(workCh)
		for i, path := range files {
			select {
			case workCh <- path:
			case <-ctx.Done():
				return
			}
			if (i+1)%100 == 0 {
				report(s.Progress, ScanProgress{Phase: PhaseReading, Current: i + 1, Total: len(files)})
			}
		}
	}()

	wg.Wait()
	close(resultCh)

	tracks := make([]playlist.Track, 0, len(files))
	for t := range resultCh {
		tracks = append(tracks, t)
	}
	return tracks
}

// toTrack converts file info to a library track. The duration is truncated
// to whole seconds so that it survives the hh:mm:ss wire format.
func toTrack(path string, info *tags.FileInfo, logger *log.Logger) playlist.Track {
	artist := info.Artist
	if artist == "" {
		artist = playlist.UnknownArtist
	}
	t := playlist.Track{
		ID:       path,
		Path:     path,
		Title:    info.Title,
		Artist:   artist,
		Duration: info.Duration.Truncate(time.Second),
	}
	if protocol.HasSeparator(t.ID) || protocol.HasSeparator(t.Title) || protocol.HasSeparator(t.Artist) {
		logger.Warn("track metadata contains a protocol separator", "path", path)
	}
	return t
}
