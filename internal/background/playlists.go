package background

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/duoplay/internal/errmsg"
	"github.com/llehouerou/duoplay/internal/playlist"
	"github.com/llehouerou/duoplay/internal/protocol"
	"github.com/llehouerou/duoplay/internal/store"
)

const saveTimeout = 10 * time.Second

func (o *Owner) validName(name string) error {
	if name == "" || name == protocol.AllPlaylists || protocol.HasSeparator(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if name == o.main.Name() {
		return fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	return nil
}

// userPlaylist returns the named user playlist for mutation.
func (o *Owner) userPlaylist(name string) (*playlist.Playlist, error) {
	if name == o.main.Name() {
		return nil, ErrReadOnly
	}
	p := o.playlists.Get(name)
	if p == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownPlaylist)
	}
	return p, nil
}

// CreatePlaylist adds an empty user playlist.
func (o *Owner) CreatePlaylist(name string) error {
	if err := o.validName(name); err != nil {
		return err
	}
	if err := o.playlists.Add(playlist.New(name)); err != nil {
		return err
	}
	o.logger.Info("playlist created", "playlist", name)
	o.persist()
	return nil
}

// ImportPlaylist creates a user playlist from a membership snapshot. Every
// id must resolve to exactly one main library track; otherwise nothing is
// created.
func (o *Owner) ImportPlaylist(name string, ids []string) error {
	if err := o.validName(name); err != nil {
		return err
	}
	if o.playlists.Has(name) {
		return fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	p := playlist.New(name)
	for _, id := range ids {
		t, err := o.main.Resolve(id)
		if err != nil {
			return fmt.Errorf("playlist %q: %w", name, err)
		}
		p.Add(t)
	}
	if err := o.playlists.Add(p); err != nil {
		return err
	}
	o.persist()
	return nil
}

// RemovePlaylist deletes a user playlist. Removing the playlist being
// played rebinds the main library.
func (o *Owner) RemovePlaylist(name string) error {
	if name == o.main.Name() {
		return ErrReadOnly
	}
	p := o.playlists.Remove(name)
	if p == nil {
		return fmt.Errorf("%q: %w", name, ErrUnknownPlaylist)
	}
	o.logger.Info("playlist removed", "playlist", name)
	if p == o.current {
		o.fallBackToMain()
	}
	o.persist()
	return nil
}

// RemoveAllPlaylists deletes every user playlist.
func (o *Owner) RemoveAllPlaylists() {
	if o.current != nil && o.current != o.main {
		o.fallBackToMain()
	}
	o.playlists.Clear()
	o.logger.Info("all playlists removed")
	o.persist()
}

func (o *Owner) fallBackToMain() {
	o.SetCurrentPlaylist(o.main)
	o.send(protocol.CurrentPlaylist{Name: o.main.Name()})
}

// AddTrack appends the main library track with the given id to a user
// playlist. Adding a track twice is allowed.
func (o *Owner) AddTrack(name, id string) error {
	p, err := o.userPlaylist(name)
	if err != nil {
		return err
	}
	t, err := o.main.Resolve(id)
	if err != nil {
		return err
	}
	p.Add(t)
	o.refresh(p)
	o.persist()
	return nil
}

// RemoveTrack removes the first occurrence of the track from a user
// playlist.
func (o *Owner) RemoveTrack(name, id string) error {
	p, err := o.userPlaylist(name)
	if err != nil {
		return err
	}
	if !p.Remove(id) {
		return fmt.Errorf("track %q in %q: %w", id, name, playlist.ErrNotFound)
	}
	o.refresh(p)
	o.persist()
	return nil
}

// refresh hands the engine the new membership of the playlist being
// played, keeping the current entry when it survives.
func (o *Owner) refresh(p *playlist.Playlist) {
	if p != o.current {
		return
	}
	o.engine.Update(p.Tracks())
	o.settle()
}

// persist saves the user playlists. A failed save is logged and the
// in-memory state is kept.
func (o *Owner) persist() {
	if o.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := o.store.Save(ctx, o.playlists.All()); err != nil {
		o.logger.Error(errmsg.Format(errmsg.OpPlaylistsSave, err))
	}
}

// loadPlaylists resolves persisted entries against the main library.
// Tracks that are no longer in the library are dropped.
func (o *Owner) loadPlaylists(main *playlist.Playlist, data store.Data) *playlist.Set {
	set := playlist.NewSet()
	for _, e := range data {
		if err := o.validName(e.Name); err != nil {
			o.logger.Warn("skipping persisted playlist", "err", err)
			continue
		}
		p := playlist.New(e.Name)
		for _, id := range e.TrackIDs {
			t, err := main.Resolve(id)
			if err != nil {
				o.logger.Warn("dropping persisted track", "playlist", e.Name, "err", err)
				continue
			}
			p.Add(t)
		}
		if err := set.Add(p); err != nil {
			o.logger.Warn("skipping persisted playlist", "err", err)
		}
	}
	return set
}
