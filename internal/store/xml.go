package store

import (
	"context"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"

	"github.com/llehouerou/duoplay/internal/playlist"
)

type xmlDocument struct {
	XMLName   xml.Name      `xml:"playlists"`
	Playlists []xmlPlaylist `xml:"playlist"`
}

type xmlPlaylist struct {
	Name   string     `xml:"name,attr"`
	Tracks []xmlTrack `xml:"musicfile"`
}

type xmlTrack struct {
	ID string `xml:"id,attr"`
}

// XMLStore keeps playlists in a single XML document.
type XMLStore struct {
	path string
}

var _ Store = (*XMLStore)(nil)

// NewXMLStore creates a store backed by the file at path.
func NewXMLStore(path string) *XMLStore {
	return &XMLStore{path: path}
}

// Save replaces the document with the given playlists.
// The file is written to a temporary name and renamed into place.
func (s *XMLStore) Save(ctx context.Context, playlists []*playlist.Playlist) error {
	if err := ctx.Err(); err != nil {
		return saveErr(err)
	}

	doc := xmlDocument{Playlists: make([]xmlPlaylist, 0, len(playlists))}
	for _, e := range entries(playlists) {
		xp := xmlPlaylist{Name: e.Name, Tracks: make([]xmlTrack, 0, len(e.TrackIDs))}
		for _, id := range e.TrackIDs {
			xp.Tracks = append(xp.Tracks, xmlTrack{ID: id})
		}
		doc.Playlists = append(doc.Playlists, xp)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return saveErr(err)
	}
	out = append([]byte(xml.Header), out...)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return saveErr(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".playlists-*.xml")
	if err != nil {
		return saveErr(err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return saveErr(err)
	}
	if err := tmp.Close(); err != nil {
		return saveErr(err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return saveErr(err)
	}
	return nil
}

// Load reads the document. A missing file yields empty Data.
func (s *XMLStore) Load(ctx context.Context) (Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadErr(err)
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Data{}, nil
	}
	if err != nil {
		return nil, loadErr(err)
	}

	var doc xmlDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, loadErr(err)
	}

	data := make(Data, 0, len(doc.Playlists))
	for _, xp := range doc.Playlists {
		e := Entry{Name: xp.Name, TrackIDs: make([]string, 0, len(xp.Tracks))}
		for _, t := range xp.Tracks {
			e.TrackIDs = append(e.TrackIDs, t.ID)
		}
		data = append(data, e)
	}
	return data, nil
}
