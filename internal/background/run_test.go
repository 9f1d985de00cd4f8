package background

import (
	"context"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/duoplay/internal/engine"
	"github.com/llehouerou/duoplay/internal/playback"
	"github.com/llehouerou/duoplay/internal/playlist"
	"github.com/llehouerou/duoplay/internal/protocol"
	"github.com/llehouerou/duoplay/internal/startup"
	"github.com/llehouerou/duoplay/internal/transport"
)

type running struct {
	owner  *Owner
	engine *engine.Mock
	conns  chan transport.Channel
	cancel context.CancelFunc
	errc   chan error
}

func startOwner(t *testing.T, eng *engine.Mock) *running {
	t.Helper()
	o := New(Deps{
		Scanner:          fakeScanner{tracks: library},
		Store:            &memStore{},
		Engine:           eng,
		MainPlaylistName: mainName,
	})
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{
		owner:  o,
		engine: eng,
		conns:  make(chan transport.Channel),
		cancel: cancel,
		errc:   make(chan error, 1),
	}
	go func() { r.errc <- o.Run(ctx, r.conns) }()
	return r
}

func (r *running) dial(t *testing.T) *protocol.Conn {
	t.Helper()
	a, b := transport.Pipe()
	r.conns <- a
	return protocol.NewConn(b)
}

func (r *running) stop(t *testing.T) {
	t.Helper()
	r.cancel()
	<-r.owner.Done()
	require.NoError(t, <-r.errc)
}

func receive(t *testing.T, c *protocol.Conn) protocol.Message {
	t.Helper()
	m, err := c.Receive(context.Background())
	require.NoError(t, err)
	return m
}

// handshake reads the state announced to a fresh connection.
func handshake(t *testing.T, c *protocol.Conn) []protocol.Message {
	t.Helper()
	msgs := []protocol.Message{receive(t, c), receive(t, c), receive(t, c)}
	assert.Equal(t, protocol.KindMainPlaylist, msgs[0].Kind())
	assert.Equal(t, protocol.CurrentPlaylist{Name: mainName}, msgs[1])
	return msgs
}

func TestRun_ServesForeground(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := startOwner(t, engine.NewMock())
		fg := r.dial(t)

		msgs := handshake(t, fg)
		assert.Equal(t, protocol.CommandMessage{Command: protocol.CommandPause}, msgs[2])
		assert.Equal(t, startup.Ready, r.owner.Ready())

		require.NoError(t, fg.Send(protocol.PlaybackItem{TrackID: "/m/b.mp3"}))
		synctest.Wait()
		assert.Equal(t, "/m/b.mp3", r.engine.Current().TrackID)
		assert.Equal(t, playback.StatePlaying, r.owner.Status().State)

		r.owner.Press(playback.ButtonNext)
		assert.Equal(t, protocol.PlaybackItem{TrackID: "/m/c.flac"}, receive(t, fg))

		r.stop(t)
		assert.Equal(t, 1, r.engine.ShutdownCalls())
		assert.False(t, r.engine.Attached())
	})
}

func TestRun_EndOfQueuePausesForeground(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := startOwner(t, engine.NewMock())
		fg := r.dial(t)
		handshake(t, fg)

		require.NoError(t, fg.Send(protocol.PlaybackItem{TrackID: "/m/c.flac"}))
		synctest.Wait()
		require.Equal(t, playback.StatePlaying, r.owner.Status().State)

		r.engine.SimulateTrackEnd()

		assert.Equal(t, protocol.CommandMessage{Command: protocol.CommandPause}, receive(t, fg))
		assert.Equal(t, engine.Stopped, r.engine.State())
		assert.Equal(t, playback.StateStopped, r.owner.Status().State)
		r.stop(t)
	})
}

func TestRun_MalformedMessageIsDropped(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := startOwner(t, engine.NewMock())
		a, b := transport.Pipe()
		r.conns <- a
		fg := protocol.NewConn(b)
		handshake(t, fg)

		require.NoError(t, b.Send(transport.ValueSet{"Bogus": "x"}))
		require.NoError(t, fg.Send(protocol.CommandMessage{Command: protocol.CommandNext}))

		assert.Equal(t, protocol.PlaybackItem{TrackID: "/m/a.mp3"}, receive(t, fg))
		r.stop(t)
	})
}

func TestRun_NewConnectionReplacesOld(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := startOwner(t, engine.NewMock())
		first := r.dial(t)
		handshake(t, first)

		second := r.dial(t)
		handshake(t, second)

		_, err := first.Receive(context.Background())
		assert.ErrorIs(t, err, transport.ErrClosed)

		r.owner.Press(playback.ButtonPlay)
		assert.Equal(t, protocol.PlaybackItem{TrackID: "/m/a.mp3"}, receive(t, second))
		assert.Equal(t, protocol.CommandMessage{Command: protocol.CommandPlay}, receive(t, second))
		r.stop(t)
	})
}

func TestRun_DisconnectHidesForeground(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := startOwner(t, engine.NewMock())
		first := r.dial(t)
		handshake(t, first)
		require.NoError(t, first.Close())
		synctest.Wait()

		r.owner.Press(playback.ButtonPlay)
		synctest.Wait()

		// A reconnecting foreground is visible again and catches up.
		second := r.dial(t)
		msgs := append(handshake(t, second), receive(t, second))
		assert.Equal(t, protocol.PlaybackItem{TrackID: "/m/a.mp3"}, msgs[2])
		assert.Equal(t, protocol.CommandMessage{Command: protocol.CommandPlay}, msgs[3])
		r.stop(t)
	})
}

func TestRun_TeardownSurvivesShutdownPanic(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		eng := engine.NewMock()
		eng.SetShutdownPanic("device lost")
		r := startOwner(t, eng)
		synctest.Wait()

		r.stop(t)
		assert.Equal(t, 1, eng.ShutdownCalls())

		sub := r.owner.Subscribe()
		<-sub.Done
	})
}

func TestRun_CanceledDuringStartup(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		eng := engine.NewMock()
		o := New(Deps{
			Scanner:          blockingScanner{},
			Engine:           eng,
			MainPlaylistName: mainName,
		})
		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- o.Run(ctx, nil) }()

		synctest.Wait()
		assert.Equal(t, startup.ScanningAndLoading, o.Ready())

		cancel()
		<-o.Done()
		assert.NoError(t, <-errc)
		assert.Equal(t, 1, eng.ShutdownCalls())
		assert.Empty(t, eng.BindCalls())
	})
}

type blockingScanner struct{}

func (blockingScanner) Scan(ctx context.Context, _ string) (*playlist.Playlist, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
