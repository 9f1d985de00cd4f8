package background

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/duoplay/internal/errmsg"
	"github.com/llehouerou/duoplay/internal/playlist"
	"github.com/llehouerou/duoplay/internal/protocol"
	"github.com/llehouerou/duoplay/internal/store"
	"github.com/llehouerou/duoplay/internal/transport"
)

// delivery is one delivery from a foreground connection reader.
type delivery struct {
	conn *protocol.Conn
	msg  protocol.Message
	err  error
}

// Run scans the library, loads the user playlists, binds the main library
// and then serves foreground connections until ctx is done. A new
// connection replaces the previous one. On return the engine has been
// shut down and Done is closed.
func (o *Owner) Run(ctx context.Context, conns <-chan transport.Channel) error {
	defer close(o.done)
	defer o.teardown()

	if err := o.startup(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	o.engine.OnStopped(o.items.wake)
	o.SetCurrentPlaylist(o.main)
	o.announce()

	deliveries := make(chan delivery)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ch, ok := <-conns:
			if !ok {
				conns = nil
				continue
			}
			c := protocol.NewConn(ch)
			o.attach(c)
			go o.readLoop(ctx, c, deliveries)

		case d := <-deliveries:
			o.deliver(d)

		case <-o.items.signal:
			o.settle()

		case b := <-o.buttons:
			o.handleButton(b)

		case enabled := <-o.shuffles:
			o.applyShuffle(enabled)
		}
	}
}

// startup runs the scan and the load concurrently. The load resolves its
// ids only once the scan has completed; the owner continues once both
// have finished, whatever their outcome.
func (o *Owner) startup(ctx context.Context) error {
	o.barrier.Start()
	o.logger.Info("starting", "state", o.barrier.State())

	var (
		main   *playlist.Playlist
		loaded *playlist.Set
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer o.barrier.ScanDone()
		p, err := o.scanner.Scan(gctx, o.main.Name())
		if err != nil {
			if gctx.Err() != nil {
				return err
			}
			o.logger.Error(errmsg.Format(errmsg.OpLibraryScan, err))
			p = playlist.New(o.main.Name())
		}
		main = p
		return nil
	})
	g.Go(func() error {
		defer o.barrier.LoadDone()
		var data store.Data
		if o.store != nil {
			d, err := o.store.Load(gctx)
			if err != nil {
				o.logger.Error(errmsg.Format(errmsg.OpPlaylistsLoad, err))
			}
			data = d
		}
		select {
		case <-o.barrier.ScanComplete():
		case <-gctx.Done():
			return gctx.Err()
		}
		if main == nil {
			return errors.New("library scan did not complete")
		}
		loaded = o.loadPlaylists(main, data)
		return nil
	})

	if err := o.barrier.Wait(ctx); err != nil {
		return err
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	o.main = main
	o.playlists = loaded
	o.logger.Info("ready",
		"tracks", main.Len(),
		"playlists", loaded.Len(),
		"state", o.barrier.State(),
	)
	return nil
}

// attach makes c the foreground connection. A fresh foreground is visible
// and gets the full state.
func (o *Owner) attach(c *protocol.Conn) {
	if o.conn != nil {
		_ = o.conn.Close()
	}
	o.conn = c
	o.session.LeaveBackground()
	o.logger.Info("foreground connected")
	o.announce()
}

func (o *Owner) readLoop(ctx context.Context, c *protocol.Conn, out chan<- delivery) {
	for {
		m, err := c.Receive(ctx)
		d := delivery{conn: c, msg: m, err: err}
		select {
		case out <- d:
		case <-ctx.Done():
			return
		}
		if err != nil && !errors.Is(err, protocol.ErrDecode) {
			return
		}
	}
}

func (o *Owner) deliver(d delivery) {
	if d.conn != o.conn {
		return
	}
	switch {
	case errors.Is(d.err, protocol.ErrDecode):
		o.logger.Warn(errmsg.Format(errmsg.OpMessageDecode, d.err))
	case d.err != nil:
		if !errors.Is(d.err, transport.ErrClosed) {
			o.logger.Warn(errmsg.Format(errmsg.OpMessageReceive, d.err))
		}
		_ = o.conn.Close()
		o.conn = nil
		o.session.EnterBackground()
		o.logger.Info("foreground disconnected")
	default:
		if err := o.HandleMessage(d.msg); err != nil {
			o.logger.Warn(errmsg.Format(errmsg.OpMessageHandle, err), "kind", d.msg.Kind())
		}
	}
}

// teardown releases the engine binding, detaches the item callback and
// shuts the engine down. Every step runs even if an earlier one panics.
func (o *Owner) teardown() {
	o.safely("release binding", func() error {
		o.engine.OnCurrentItemChanged(nil)
		o.engine.OnStopped(nil)
		o.current = nil
		return nil
	})
	o.safely("close connection", func() error {
		if o.conn == nil {
			return nil
		}
		err := o.conn.Close()
		o.conn = nil
		if errors.Is(err, transport.ErrClosed) {
			return nil
		}
		return err
	})
	o.safely("shutdown engine", o.engine.Shutdown)
	o.publisher.Close()
	o.logger.Info("stopped")
}

func (o *Owner) safely(step string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error(errmsg.Format(errmsg.OpEngineStop, fmt.Errorf("%s: panic: %v", step, r)))
		}
	}()
	if err := fn(); err != nil {
		o.logger.Error(errmsg.Format(errmsg.OpEngineStop, err), "step", step)
	}
}
