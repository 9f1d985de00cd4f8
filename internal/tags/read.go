package tags

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
)

// untitled is the Tag of a file whose tags are missing or unreadable.
func untitled(path string) *Tag {
	return &Tag{Path: path, Title: filepath.Base(path)}
}

// Read returns the tags of the file at path. A file without tags is
// titled after its base name.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	md, err := tag.ReadFrom(f)
	switch {
	case errors.Is(err, tag.ErrNoTagsFound):
		return untitled(path), nil
	case err != nil:
		return nil, err
	}

	t := untitled(path)
	if title := md.Title(); title != "" {
		t.Title = title
	}
	t.Artist, t.Album = md.Artist(), md.Album()
	return t, nil
}

// ReadWithAudio combines Read and ReadAudioInfo. Broken tags do not make
// the file unplayable, so only a stream error is returned.
func ReadWithAudio(path string) (*FileInfo, error) {
	audio, err := ReadAudioInfo(path)
	if err != nil {
		return nil, err
	}
	t, err := Read(path)
	if err != nil {
		t = untitled(path)
	}
	return &FileInfo{Tag: *t, AudioInfo: *audio}, nil
}
