package protocol

import "github.com/llehouerou/duoplay/internal/playlist"

// Message is one decoded protocol message. The set of implementations is
// closed: it is exactly the types in this file.
type Message interface {
	Kind() Kind
	message()
}

// CommandMessage carries a playback or lifecycle command.
type CommandMessage struct {
	Command Command
}

// PlaybackItem designates the current track.
type PlaybackItem struct {
	TrackID string
}

// CurrentPlaylist designates the current playlist.
type CurrentPlaylist struct {
	Name string
}

// MainPlaylist is a full snapshot of the main library with track metadata.
type MainPlaylist struct {
	Name   string
	Tracks []playlist.Track
}

// PlaylistSnapshot is the membership of a named playlist as track ids.
type PlaylistSnapshot struct {
	Name     string
	TrackIDs []string
}

// NewPlaylist asks for an empty playlist to be created.
type NewPlaylist struct {
	Name string
}

// RemovePlaylist asks for one playlist, or all of them, to be removed.
type RemovePlaylist struct {
	Name string
	All  bool
}

// AddToPlaylist appends a track to a playlist.
type AddToPlaylist struct {
	Playlist string
	TrackID  string
}

// RemoveFromPlaylist removes a track from a playlist.
type RemoveFromPlaylist struct {
	Playlist string
	TrackID  string
}

func (CommandMessage) Kind() Kind     { return KindMessage }
func (PlaybackItem) Kind() Kind       { return KindMediaPlaybackItem }
func (CurrentPlaylist) Kind() Kind    { return KindCurrentPlaylist }
func (MainPlaylist) Kind() Kind       { return KindMainPlaylist }
func (PlaylistSnapshot) Kind() Kind   { return KindPlaylist }
func (NewPlaylist) Kind() Kind        { return KindNewPlaylist }
func (RemovePlaylist) Kind() Kind     { return KindRemovePlaylist }
func (AddToPlaylist) Kind() Kind      { return KindAddToPlaylist }
func (RemoveFromPlaylist) Kind() Kind { return KindRemoveFromPlaylist }

func (CommandMessage) message()     {}
func (PlaybackItem) message()       {}
func (CurrentPlaylist) message()    {}
func (MainPlaylist) message()       {}
func (PlaylistSnapshot) message()   {}
func (NewPlaylist) message()        {}
func (RemovePlaylist) message()     {}
func (AddToPlaylist) message()      {}
func (RemoveFromPlaylist) message() {}

// SnapshotOf builds a membership snapshot of p.
func SnapshotOf(p *playlist.Playlist) PlaylistSnapshot {
	return PlaylistSnapshot{Name: p.Name(), TrackIDs: p.IDs()}
}

// MainSnapshotOf builds a full main library snapshot of p.
func MainSnapshotOf(p *playlist.Playlist) MainPlaylist {
	return MainPlaylist{Name: p.Name(), Tracks: p.Tracks()}
}
