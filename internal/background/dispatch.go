package background

import (
	"fmt"

	"github.com/llehouerou/duoplay/internal/engine"
	"github.com/llehouerou/duoplay/internal/errmsg"
	"github.com/llehouerou/duoplay/internal/playback"
	"github.com/llehouerou/duoplay/internal/protocol"
	"github.com/llehouerou/duoplay/internal/startup"
)

// HandleMessage applies a message received from the foreground.
func (o *Owner) HandleMessage(m protocol.Message) error {
	o.inbound = true
	defer func() {
		o.settle()
		o.inbound = false
	}()

	switch m := m.(type) {
	case protocol.CommandMessage:
		o.handleCommand(m.Command)
		return nil

	case protocol.PlaybackItem:
		return o.handlePlaybackItem(m.TrackID)

	case protocol.CurrentPlaylist:
		p := o.playlistByName(m.Name)
		if p == nil {
			return fmt.Errorf("%q: %w", m.Name, ErrUnknownPlaylist)
		}
		o.SetCurrentPlaylist(p)
		return nil

	case protocol.PlaylistSnapshot:
		return o.ImportPlaylist(m.Name, m.TrackIDs)

	case protocol.NewPlaylist:
		return o.CreatePlaylist(m.Name)

	case protocol.RemovePlaylist:
		if m.All {
			o.RemoveAllPlaylists()
			return nil
		}
		return o.RemovePlaylist(m.Name)

	case protocol.AddToPlaylist:
		return o.AddTrack(m.Playlist, m.TrackID)

	case protocol.RemoveFromPlaylist:
		return o.RemoveTrack(m.Playlist, m.TrackID)

	default:
		return fmt.Errorf("%v: %w", m.Kind(), ErrUnexpectedMessage)
	}
}

func (o *Owner) handleCommand(c protocol.Command) {
	switch c {
	case protocol.CommandPlay:
		o.Play()
	case protocol.CommandPause:
		o.Pause()
	case protocol.CommandNext:
		o.NextTrack()
	case protocol.CommandPrevious:
		o.PressPrevious()
	case protocol.CommandEnterBackground:
		o.session.EnterBackground()
		o.logger.Debug("foreground hidden")
	case protocol.CommandLeaveBackground:
		o.session.LeaveBackground()
		o.logger.Debug("foreground visible")
		o.announce()
	}
}

// handlePlaybackItem follows a track the foreground selected. The
// resulting item change is the foreground's own choice and is not sent
// back.
func (o *Owner) handlePlaybackItem(id string) error {
	if o.current == nil {
		return ErrUnknownPlaylist
	}
	res := o.current.Lookup(id)
	if err := res.Err(id); err != nil {
		return err
	}
	if o.engine.Current().Index == res.Index {
		return nil
	}
	o.session.ArmEcho()
	o.playIndex(res.Index)
	return nil
}

// HandleItemChanged records the engine's current entry and tells the
// foreground about it, unless the change answers a foreground selection.
func (o *Owner) HandleItemChanged(item engine.Item) {
	if o.current == nil {
		return
	}
	if !item.Valid() {
		o.session.TrackID = ""
		return
	}

	id := item.TrackID
	if t := o.current.Track(item.Index); t == nil || t.ID != id {
		res := o.current.Lookup(id)
		if err := res.Err(id); err != nil {
			o.logger.Warn("item change for unknown track", "playlist", o.current.Name(), "err", err)
			return
		}
	}
	o.session.TrackID = id

	if o.session.ConsumeEcho() {
		o.logger.Debug("item change suppressed", "track", id)
		return
	}
	o.send(protocol.PlaybackItem{TrackID: id})
}

// send transmits m when the session allows it. While the foreground is
// hidden only lifecycle commands go out.
func (o *Owner) send(m protocol.Message) {
	lifecycle := false
	if c, ok := m.(protocol.CommandMessage); ok {
		lifecycle = c.Command.IsLifecycle()
	}
	if !o.session.CanTransmit(lifecycle) {
		o.logger.Debug("message held back", "kind", m.Kind())
		return
	}
	if o.conn == nil {
		return
	}
	if err := o.conn.Send(m); err != nil {
		o.logger.Warn(errmsg.Format(errmsg.OpMessageSend, err), "kind", m.Kind())
	}
}

// announce sends the full state: main library, user playlists, current
// playlist, current track and play state.
func (o *Owner) announce() {
	if o.barrier.State() != startup.Ready {
		return
	}
	o.send(protocol.MainSnapshotOf(o.main))
	for _, p := range o.playlists.All() {
		o.send(protocol.SnapshotOf(p))
	}
	if o.current == nil {
		return
	}
	o.send(protocol.CurrentPlaylist{Name: o.current.Name()})
	if o.session.TrackID != "" {
		o.send(protocol.PlaybackItem{TrackID: o.session.TrackID})
	}
	if o.session.State == playback.StatePlaying {
		o.send(protocol.CommandMessage{Command: protocol.CommandPlay})
	} else {
		o.send(protocol.CommandMessage{Command: protocol.CommandPause})
	}
}
