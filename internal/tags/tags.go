// Package tags reads the metadata the player needs from music files.
// Only MP3 and FLAC are supported.
package tags

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
)

const id3Magic = "ID3"

// Tag is the descriptive metadata of a file. Title is never empty.
type Tag struct {
	Path   string
	Title  string
	Artist string
	Album  string
}

// AudioInfo describes the audio stream itself.
type AudioInfo struct {
	Duration   time.Duration
	Format     string // "MP3" or "FLAC"
	SampleRate int
	BitDepth   int
}

// FileInfo is everything the library records about one file.
type FileInfo struct {
	Tag
	AudioInfo
}

// IsMusicFile reports whether path has an extension ReadAudioInfo handles.
func IsMusicFile(path string) bool {
	_, ok := probes[strings.ToLower(filepath.Ext(path))]
	return ok
}
