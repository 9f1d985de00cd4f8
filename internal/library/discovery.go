package library

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/llehouerou/duoplay/internal/tags"
)

const discoverReportEvery = 100

// collector accumulates music files across source roots, keeping the first
// occurrence of each absolute path.
type collector struct {
	files    []string
	seen     map[string]bool
	progress chan<- ScanProgress
}

func (c *collector) visit(ctx context.Context) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		// An unreadable entry only loses that entry.
		if walkErr != nil || d.IsDir() || !tags.IsMusicFile(path) {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if c.seen[path] {
			return nil
		}
		c.seen[path] = true
		c.files = append(c.files, path)
		if len(c.files)%discoverReportEvery == 0 {
			report(c.progress, ScanProgress{Phase: PhaseDiscovering, Current: len(c.files)})
		}
		return nil
	}
}

// discoverFiles returns the absolute paths of the music files under sources,
// in walk order.
func discoverFiles(ctx context.Context, sources []string, progress chan<- ScanProgress) ([]string, error) {
	c := &collector{seen: make(map[string]bool), progress: progress}
	for _, src := range sources {
		if err := filepath.WalkDir(src, c.visit(ctx)); err != nil {
			return nil, err
		}
	}
	return c.files, nil
}

// report sends progress without blocking the scan.
func report(progress chan<- ScanProgress, p ScanProgress) {
	if progress == nil {
		return
	}
	select {
	case progress <- p:
	default:
	}
}
