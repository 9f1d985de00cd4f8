// Package background implements the authoritative side of the player: it
// owns the main library, the user playlists, the playback session and the
// playback engine, and keeps the foreground mirror informed.
package background

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/duoplay/internal/engine"
	"github.com/llehouerou/duoplay/internal/playback"
	"github.com/llehouerou/duoplay/internal/playlist"
	"github.com/llehouerou/duoplay/internal/protocol"
	"github.com/llehouerou/duoplay/internal/startup"
	"github.com/llehouerou/duoplay/internal/store"
)

// DefaultRestartThreshold is how far into a track Previous restarts it
// instead of going back.
const DefaultRestartThreshold = 2 * time.Second

const buttonBufferSize = 16

var (
	// ErrDuplicateName is returned when creating a playlist whose name is taken.
	ErrDuplicateName = playlist.ErrDuplicateName
	// ErrInvalidName is returned for names that cannot travel on the wire.
	ErrInvalidName = errors.New("invalid playlist name")
	// ErrReadOnly is returned when mutating the main library.
	ErrReadOnly = errors.New("main library is read-only")
	// ErrUnknownPlaylist is returned when a named playlist does not exist.
	ErrUnknownPlaylist = errors.New("unknown playlist")
	// ErrUnexpectedMessage is returned for messages only the owner sends.
	ErrUnexpectedMessage = errors.New("unexpected message")
)

// Scanner produces the main library.
type Scanner interface {
	Scan(ctx context.Context, name string) (*playlist.Playlist, error)
}

// Deps holds everything the owner needs. Nothing is looked up globally.
type Deps struct {
	Scanner          Scanner
	Store            store.Store
	Engine           engine.Engine
	Logger           *log.Logger
	MainPlaylistName string
	RestartThreshold time.Duration
}

// Owner is the background state owner. Its state is mutated only by the
// goroutine running Run; Press, SetShuffle, Status and Done are safe from
// any goroutine.
type Owner struct {
	scanner          Scanner
	store            store.Store
	engine           engine.Engine
	logger           *log.Logger
	restartThreshold time.Duration

	main      *playlist.Playlist
	playlists *playlist.Set
	current   *playlist.Playlist
	session   playback.Session
	conn      *protocol.Conn

	// inbound is true while a foreground message is being applied.
	inbound bool

	items     *itemQueue
	onItem    func(engine.Item)
	buttons   chan playback.Button
	shuffles  chan bool
	publisher *playback.Publisher
	barrier   *startup.Barrier
	done      chan struct{}
}

// New creates an owner. The main library stays empty until Run has
// scanned the sources.
func New(deps Deps) *Owner {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	threshold := deps.RestartThreshold
	if threshold <= 0 {
		threshold = DefaultRestartThreshold
	}

	o := &Owner{
		scanner:          deps.Scanner,
		store:            deps.Store,
		engine:           deps.Engine,
		logger:           logger.With("component", "background"),
		restartThreshold: threshold,
		main:             playlist.New(deps.MainPlaylistName),
		playlists:        playlist.NewSet(),
		session:          playback.NewSession(),
		items:            newItemQueue(),
		buttons:          make(chan playback.Button, buttonBufferSize),
		shuffles:         make(chan bool, buttonBufferSize),
		publisher:        playback.NewPublisher(),
		barrier:          startup.New(),
		done:             make(chan struct{}),
	}
	o.onItem = o.items.push
	return o
}

// Done is closed once Run has returned and the engine is shut down.
func (o *Owner) Done() <-chan struct{} {
	return o.done
}

// Ready is the startup barrier state.
func (o *Owner) Ready() startup.State {
	return o.barrier.State()
}

// Status returns the latest published playback status.
func (o *Owner) Status() playback.Status {
	return o.publisher.Status()
}

// Subscribe returns a subscription to playback status changes.
func (o *Owner) Subscribe() *playback.Subscription {
	return o.publisher.Subscribe()
}

// Press queues a transport control press for the Run goroutine.
func (o *Owner) Press(b playback.Button) {
	select {
	case o.buttons <- b:
	case <-o.done:
	}
}

// SetShuffle queues a shuffle change for the Run goroutine.
func (o *Owner) SetShuffle(enabled bool) {
	select {
	case o.shuffles <- enabled:
	case <-o.done:
	}
}

// playlistByName returns the main library or a user playlist.
func (o *Owner) playlistByName(name string) *playlist.Playlist {
	if name == o.main.Name() {
		return o.main
	}
	return o.playlists.Get(name)
}

// publish stores the status snapshot for other goroutines.
func (o *Owner) publish() {
	st := playback.Status{
		PlaylistName: o.session.PlaylistName,
		State:        o.session.State,
	}
	if o.current != nil {
		st.Shuffle = o.current.Shuffled()
		if i := o.engine.Current().Index; i >= 0 {
			st.Track = o.current.Track(i)
		}
	}
	o.publisher.Publish(st)
}
