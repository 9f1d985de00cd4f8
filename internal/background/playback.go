package background

import (
	"github.com/llehouerou/duoplay/internal/engine"
	"github.com/llehouerou/duoplay/internal/errmsg"
	"github.com/llehouerou/duoplay/internal/playback"
	"github.com/llehouerou/duoplay/internal/playlist"
	"github.com/llehouerou/duoplay/internal/protocol"
)

// SetCurrentPlaylist binds p to the engine. Binding the playlist that is
// already current does nothing, so playback is never restarted by a
// redundant selection. Reports whether a rebind happened.
func (o *Owner) SetCurrentPlaylist(p *playlist.Playlist) bool {
	if p == nil || o.current == p {
		return false
	}

	o.engine.OnCurrentItemChanged(nil)
	o.current = p
	o.engine.Bind(p.Tracks())
	o.engine.SetShuffle(p.Shuffled())
	o.engine.OnCurrentItemChanged(o.onItem)

	o.session.SelectPlaylist(p.Name())
	o.logger.Debug("playlist bound", "playlist", p.Name(), "tracks", p.Len())
	o.settle()
	return true
}

// Play starts playback. With nothing selected the engine starts at the
// first entry.
func (o *Owner) Play() {
	if o.engine.State() != engine.Playing {
		if err := o.engine.Play(); err != nil {
			o.logger.Error(errmsg.Format(errmsg.OpPlaybackStart, err))
		}
	}
	o.settle()
}

// PlayTrack selects the track with the given id in the current playlist
// and makes sure it is playing.
func (o *Owner) PlayTrack(id string) error {
	if o.current == nil {
		return ErrUnknownPlaylist
	}
	res := o.current.Lookup(id)
	if err := res.Err(id); err != nil {
		return err
	}
	o.playIndex(res.Index)
	return nil
}

func (o *Owner) playIndex(i int) {
	if err := o.engine.MoveTo(i); err != nil {
		o.logger.Error(errmsg.Format(errmsg.OpPlaybackTrack, err), "index", i)
	}
	o.Play()
}

// NextTrack advances and keeps playing.
func (o *Owner) NextTrack() {
	if err := o.engine.MoveNext(); err != nil {
		o.logger.Error(errmsg.Format(errmsg.OpPlaybackTrack, err))
	}
	o.Play()
}

// PreviousTrack goes back one entry and keeps playing.
func (o *Owner) PreviousTrack() {
	if err := o.engine.MovePrevious(); err != nil {
		o.logger.Error(errmsg.Format(errmsg.OpPlaybackTrack, err))
	}
	o.Play()
}

// PressPrevious restarts the current track when it has played past the
// restart threshold, and goes to the previous track otherwise.
func (o *Owner) PressPrevious() {
	if o.engine.Position() > o.restartThreshold {
		if err := o.engine.SetPosition(0); err != nil {
			o.logger.Error(errmsg.Format(errmsg.OpPlaybackSeek, err))
		}
		o.settle()
		return
	}
	o.PreviousTrack()
}

// Pause pauses playback if it is playing.
func (o *Owner) Pause() {
	if o.engine.State() == engine.Playing {
		o.engine.Pause()
	}
	o.settle()
}

// Stop pauses and rewinds the current track.
func (o *Owner) Stop() {
	o.Pause()
	if o.engine.Current().Valid() {
		if err := o.engine.SetPosition(0); err != nil {
			o.logger.Error(errmsg.Format(errmsg.OpPlaybackSeek, err))
		}
	}
}

// applyShuffle toggles shuffle on the current playlist.
func (o *Owner) applyShuffle(enabled bool) {
	if o.current == nil || o.current.Shuffled() == enabled {
		return
	}
	o.current.SetShuffled(enabled)
	o.engine.SetShuffle(enabled)
	o.settle()
}

// handleButton applies a local transport control press. A local press
// always cancels a pending echo so its effect reaches the foreground.
func (o *Owner) handleButton(b playback.Button) {
	o.session.DisarmEcho()
	o.logger.Debug("button", "button", b)

	switch b {
	case playback.ButtonPlay:
		o.Play()
	case playback.ButtonPause:
		o.Pause()
	case playback.ButtonPlayPause:
		if o.engine.State() == engine.Playing {
			o.Pause()
		} else {
			o.Play()
		}
	case playback.ButtonNext:
		o.NextTrack()
	case playback.ButtonPrevious:
		o.PressPrevious()
	case playback.ButtonStop:
		o.Stop()
	}
}

// settle processes pending item changes, syncs the play state and
// publishes the resulting status.
func (o *Owner) settle() {
	for _, item := range o.items.drain() {
		o.HandleItemChanged(item)
	}
	o.syncState()
	o.publish()
}

// syncState mirrors the engine state into the session. State changes the
// foreground did not ask for are announced to it.
func (o *Owner) syncState() {
	next := sessionState(o.engine.State())
	prev := o.session.State
	if next == prev {
		return
	}
	o.session.State = next
	if o.inbound {
		return
	}
	switch {
	case next == playback.StatePlaying:
		o.send(protocol.CommandMessage{Command: protocol.CommandPlay})
	case prev == playback.StatePlaying:
		o.send(protocol.CommandMessage{Command: protocol.CommandPause})
	}
}

func sessionState(s engine.State) playback.State {
	switch s {
	case engine.Playing:
		return playback.StatePlaying
	case engine.Paused:
		return playback.StatePaused
	default:
		return playback.StateStopped
	}
}
