package mpris

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// coverNames lists accepted cover file names, best first. Matching ignores
// case.
var coverNames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"front.jpg", "front.jpeg", "front.png",
}

// CoverArt returns the path of the best cover image in the track's
// directory, or "" when there is none.
func CoverArt(trackPath string) string {
	if trackPath == "" {
		return ""
	}
	dir := filepath.Dir(trackPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	best, bestRank := "", len(coverNames)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		rank := slices.Index(coverNames, strings.ToLower(e.Name()))
		if rank >= 0 && rank < bestRank {
			best, bestRank = e.Name(), rank
		}
	}
	if best == "" {
		return ""
	}
	return filepath.Join(dir, best)
}
