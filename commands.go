package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/duoplay/internal/background"
	"github.com/llehouerou/duoplay/internal/config"
	"github.com/llehouerou/duoplay/internal/engine"
	"github.com/llehouerou/duoplay/internal/errmsg"
	"github.com/llehouerou/duoplay/internal/foreground"
	"github.com/llehouerou/duoplay/internal/library"
	"github.com/llehouerou/duoplay/internal/mpris"
	"github.com/llehouerou/duoplay/internal/notify"
	"github.com/llehouerou/duoplay/internal/protocol"
	"github.com/llehouerou/duoplay/internal/stderr"
	"github.com/llehouerou/duoplay/internal/store"
	"github.com/llehouerou/duoplay/internal/transport"
	"github.com/llehouerou/duoplay/internal/ui"
)

func backgroundCommand() *cli.Command {
	return &cli.Command{
		Name:   "background",
		Usage:  "Scan the library, play audio and serve the UI over the socket",
		Action: runBackground,
	}
}

func uiCommand() *cli.Command {
	return &cli.Command{
		Name:   "ui",
		Usage:  "Connect to a running background process and open the terminal UI",
		Action: runUI,
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Run the background owner and the terminal UI in one process",
		Action: runBoth,
	}
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan the library sources and print a summary",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "Print every track found",
			},
		},
		Action: runScan,
	}
}

// env holds what every command builds from the configuration.
type env struct {
	cfg     *config.Config
	logger  *log.Logger
	closers []func() error
}

// setup loads the configuration and builds the logger. Logs go to the
// configured file, or to out when there is none; a nil out discards them.
func setup(cmd *cli.Command, out io.Writer) (*env, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	if out == nil {
		out = io.Discard
	}
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		e.closers = append(e.closers, f.Close)
		out = f
	}
	e.logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return e, nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

func (e *env) openStore() (store.Store, error) {
	path := e.cfg.Store.Path
	if e.cfg.Store.Backend == config.BackendSQLite {
		s, err := store.OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open playlist database: %w", err)
		}
		e.closers = append(e.closers, s.Close)
		return s, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return store.NewXMLStore(path), nil
}

func (e *env) newOwner() (*background.Owner, error) {
	st, err := e.openStore()
	if err != nil {
		return nil, err
	}
	return background.New(background.Deps{
		Scanner:          library.NewScanner(e.cfg.LibrarySources, e.logger),
		Store:            st,
		Engine:           engine.NewBeep(),
		Logger:           e.logger,
		MainPlaylistName: e.cfg.MainPlaylistName,
		RestartThreshold: e.cfg.RestartThreshold(),
	}), nil
}

// exposeControls publishes the owner on D-Bus. On failure the player runs
// without desktop media keys.
func (e *env) exposeControls(owner *background.Owner) {
	a, err := mpris.New(owner, e.logger)
	if err != nil {
		e.logger.Warn("media keys unavailable", "err", err)
		return
	}
	e.closers = append(e.closers, a.Close)
}

// watch logs and announces what the owner plays until it shuts down.
func watch(owner *background.Owner, logger *log.Logger) {
	sub := owner.Subscribe()
	nowPlaying := notify.NewNowPlaying(notify.New(), logger)
	for {
		select {
		case <-sub.Done:
			return
		case ev := <-sub.TrackChanged:
			if ev.Current != nil {
				logger.Info("now playing", "title", ev.Current.Title, "artist", ev.Current.Artist)
				nowPlaying.Show(ev.Current, mpris.CoverArt(ev.Current.Path))
			}
		case ev := <-sub.StateChanged:
			logger.Debug("playback state", "from", ev.Previous, "to", ev.Current)
		case ev := <-sub.ModeChanged:
			logger.Debug("shuffle", "enabled", ev.Shuffle)
		}
	}
}

func runBackground(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	owner, err := e.newOwner()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(e.cfg.Socket), 0o700); err != nil {
		return err
	}
	ln, err := transport.Listen(e.cfg.Socket)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", e.cfg.Socket, err)
	}
	defer ln.Close()
	e.logger.Info("listening", "socket", ln.Addr())

	e.exposeControls(owner)
	go watch(owner, e.logger)

	conns := make(chan transport.Channel)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ln.Serve(ctx, conns); err != nil {
			e.logger.Error(errmsg.Format(errmsg.OpConnectionServe, err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		return owner.Run(ctx, conns)
	})
	return g.Wait()
}

func runUI(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer e.close()

	ch, err := transport.Dial(ctx, e.cfg.Socket)
	if err != nil {
		return fmt.Errorf("connect to %s (is duoplay background running?): %w", e.cfg.Socket, err)
	}
	conn := protocol.NewConn(ch)
	defer conn.Close()

	return runTUI(ctx, conn, e.logger)
}

func runBoth(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer e.close()

	restore, err := stderr.Capture(e.logger)
	if err != nil {
		e.logger.Warn("native output not captured", "err", err)
	} else {
		defer restore()
	}

	owner, err := e.newOwner()
	if err != nil {
		return err
	}
	e.exposeControls(owner)
	go watch(owner, e.logger)

	back, front := transport.Pipe()
	conns := make(chan transport.Channel, 1)
	conns <- back

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return owner.Run(ctx, conns)
	})
	g.Go(func() error {
		defer cancel()
		conn := protocol.NewConn(front)
		defer conn.Close()
		return runTUI(ctx, conn, e.logger)
	})
	return g.Wait()
}

func runTUI(ctx context.Context, conn *protocol.Conn, logger *log.Logger) error {
	mirror := foreground.New(conn, logger)
	p := tea.NewProgram(
		ui.New(mirror, conn, logger),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func runScan(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer e.close()

	scanner := library.NewScanner(e.cfg.LibrarySources, e.logger)
	progress := make(chan library.ScanProgress, 1)
	scanner.Progress = progress
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case p := <-progress:
				e.logger.Debug("scanning", "phase", p.Phase, "current", p.Current, "total", p.Total)
			}
		}
	}()

	p, err := scanner.Scan(ctx, e.cfg.MainPlaylistName)
	close(done)
	if err != nil {
		return errmsg.Wrap(errmsg.OpLibraryScan, err)
	}

	if cmd.Bool("list") {
		for _, t := range p.Tracks() {
			fmt.Printf("%s\t%s\t%s\t%s\n", t.Duration.Truncate(time.Second), t.Artist, t.Title, t.Path)
		}
	}
	n := p.Len()
	fmt.Printf("%s: %s %s, %s\n",
		p.Name(),
		humanize.Comma(int64(n)),
		english.PluralWord(n, "track", ""),
		p.TotalDuration().Truncate(time.Second),
	)
	return nil
}
