//go:build linux

package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/charmbracelet/log"
	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/duoplay/internal/playback"
)

const trackPathPrefix = "/org/mpris/MediaPlayer2/Track/"

var errNilControls = errors.New("mpris: nil controls")

// Adapter exposes the background owner's transport controls over D-Bus.
type Adapter struct {
	srv *server.Server
}

// New registers the player on the session bus and serves it until Close.
func New(controls Controls, logger *log.Logger) (*Adapter, error) {
	if controls == nil {
		return nil, errNilControls
	}
	srv := server.NewServer(busName, identityAdapter{}, &playerAdapter{controls: controls})
	go func() {
		err := srv.Listen()
		if err != nil && logger != nil {
			logger.Warn("media bus listener exited", "err", err)
		}
	}()
	return &Adapter{srv: srv}, nil
}

// Close releases the bus name.
func (a *Adapter) Close() error {
	return a.srv.Stop()
}

// identityAdapter answers the org.mpris.MediaPlayer2 root interface. The
// player has no window, so it can neither be raised nor quit from the bus.
type identityAdapter struct{}

func (identityAdapter) Raise() error                 { return nil }
func (identityAdapter) Quit() error                  { return nil }
func (identityAdapter) CanQuit() (bool, error)       { return false, nil }
func (identityAdapter) CanRaise() (bool, error)      { return false, nil }
func (identityAdapter) HasTrackList() (bool, error)  { return false, nil }
func (identityAdapter) Identity() (string, error)    { return identity, nil }
func (identityAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac"}, nil
}

//nolint:revive // name fixed by the server interface
func (identityAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

// playerAdapter answers org.mpris.MediaPlayer2.Player. Transport methods
// turn into button presses; seeking, rate and volume are not supported.
type playerAdapter struct {
	controls Controls
}

func (p *playerAdapter) press(b playback.Button) error {
	p.controls.Press(b)
	return nil
}

func (p *playerAdapter) Play() error      { return p.press(playback.ButtonPlay) }
func (p *playerAdapter) Pause() error     { return p.press(playback.ButtonPause) }
func (p *playerAdapter) PlayPause() error { return p.press(playback.ButtonPlayPause) }
func (p *playerAdapter) Stop() error      { return p.press(playback.ButtonStop) }
func (p *playerAdapter) Next() error      { return p.press(playback.ButtonNext) }
func (p *playerAdapter) Previous() error  { return p.press(playback.ButtonPrevious) }

func (p *playerAdapter) Seek(types.Microseconds) error                { return nil }
func (p *playerAdapter) SetPosition(string, types.Microseconds) error { return nil }
func (p *playerAdapter) Position() (int64, error)                     { return 0, nil }
func (p *playerAdapter) SetRate(float64) error                        { return nil }
func (p *playerAdapter) Rate() (float64, error)                       { return 1, nil }
func (p *playerAdapter) MinimumRate() (float64, error)                { return 1, nil }
func (p *playerAdapter) MaximumRate() (float64, error)                { return 1, nil }
func (p *playerAdapter) SetVolume(float64) error                      { return nil }
func (p *playerAdapter) Volume() (float64, error)                     { return 1, nil }
func (p *playerAdapter) CanPlay() (bool, error)                       { return true, nil }
func (p *playerAdapter) CanPause() (bool, error)                      { return true, nil }
func (p *playerAdapter) CanControl() (bool, error)                    { return true, nil }
func (p *playerAdapter) CanSeek() (bool, error)                       { return false, nil }

//nolint:revive // name fixed by the server interface
func (p *playerAdapter) OpenUri(string) error { return nil }

func (p *playerAdapter) hasTrack() bool {
	return p.controls.Status().Track != nil
}

func (p *playerAdapter) CanGoNext() (bool, error)     { return p.hasTrack(), nil }
func (p *playerAdapter) CanGoPrevious() (bool, error) { return p.hasTrack(), nil }

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	status := types.PlaybackStatusStopped
	switch p.controls.Status().State {
	case playback.StatePlaying:
		status = types.PlaybackStatusPlaying
	case playback.StatePaused:
		status = types.PlaybackStatusPaused
	}
	return status, nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	var meta types.Metadata
	track := p.controls.Status().Track
	if track == nil {
		return meta, nil
	}
	meta.TrackId = dbus.ObjectPath(trackObjectPath(track.ID))
	meta.Length = types.Microseconds(track.Duration.Microseconds())
	meta.Title = track.Title
	meta.Artist = []string{track.Artist}
	if art := CoverArt(track.Path); art != "" {
		meta.ArtUrl = "file://" + art
	}
	return meta, nil
}

func (p *playerAdapter) Shuffle() (bool, error) {
	return p.controls.Status().Shuffle, nil
}

func (p *playerAdapter) SetShuffle(enabled bool) error {
	p.controls.SetShuffle(enabled)
	return nil
}

// trackObjectPath derives a stable D-Bus object path from a track id,
// which may contain characters object paths do not allow.
func trackObjectPath(id string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return fmt.Sprintf("%s%016x", trackPathPrefix, h.Sum64())
}
