// Package foreground keeps the UI side's copy of the player state. It is
// rebuilt from the snapshots the background owner sends, and local actions
// are applied to it before being forwarded.
package foreground

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/duoplay/internal/errmsg"
	"github.com/llehouerou/duoplay/internal/playlist"
	"github.com/llehouerou/duoplay/internal/protocol"
)

var (
	ErrDuplicateName     = playlist.ErrDuplicateName
	ErrInvalidName       = errors.New("invalid playlist name")
	ErrUnknownPlaylist   = errors.New("unknown playlist")
	ErrReadOnly          = errors.New("main library is read-only")
	ErrAlreadyInPlaylist = errors.New("track already in playlist")
	ErrUnexpectedMessage = errors.New("unexpected message")
)

// Sender forwards messages to the background owner.
type Sender interface {
	Send(m protocol.Message) error
}

// Mirror is the foreground model. It is not safe for concurrent use; the
// UI drives it from a single goroutine.
type Mirror struct {
	sender Sender
	logger *log.Logger

	main      *playlist.Playlist
	playlists *playlist.Set
	current   string
	trackID   string
	playing   bool
	hidden    bool

	onChange func()
}

// New creates an empty mirror. It fills up once the background owner
// sends its snapshot.
func New(sender Sender, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Mirror{
		sender:    sender,
		logger:    logger.With("component", "foreground"),
		main:      playlist.New(""),
		playlists: playlist.NewSet(),
	}
}

// OnChange registers fn to be called after every state change.
func (m *Mirror) OnChange(fn func()) {
	m.onChange = fn
}

// Main returns the mirrored main library.
func (m *Mirror) Main() *playlist.Playlist {
	return m.main
}

// Playlists returns the mirrored user playlists in order.
func (m *Mirror) Playlists() []*playlist.Playlist {
	return m.playlists.All()
}

// Playlist returns the main library or a user playlist by name, or nil.
func (m *Mirror) Playlist(name string) *playlist.Playlist {
	if name == m.main.Name() {
		return m.main
	}
	return m.playlists.Get(name)
}

// CurrentPlaylist returns the name of the playlist being played.
func (m *Mirror) CurrentPlaylist() string {
	return m.current
}

// CurrentTrack returns the track being played, or nil.
func (m *Mirror) CurrentTrack() *playlist.Track {
	p := m.Playlist(m.current)
	if p == nil || m.trackID == "" {
		return nil
	}
	return p.Track(p.IndexOf(m.trackID))
}

// Playing reports the mirrored play flag.
func (m *Mirror) Playing() bool {
	return m.playing
}

// Visible reports whether the foreground told the owner it is visible.
func (m *Mirror) Visible() bool {
	return !m.hidden
}

func (m *Mirror) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}

func (m *Mirror) send(msg protocol.Message) {
	if m.sender == nil {
		return
	}
	if err := m.sender.Send(msg); err != nil {
		m.logger.Warn(errmsg.Format(errmsg.OpMessageSend, err), "kind", msg.Kind())
	}
}

// HandleMessage applies a message from the background owner. Nothing is
// sent back: the owner already knows about the change.
func (m *Mirror) HandleMessage(msg protocol.Message) error {
	switch msg := msg.(type) {
	case protocol.MainPlaylist:
		m.replaceMain(msg)

	case protocol.PlaylistSnapshot:
		if err := m.applySnapshot(msg); err != nil {
			return err
		}

	case protocol.CurrentPlaylist:
		if m.Playlist(msg.Name) == nil {
			return fmt.Errorf("%q: %w", msg.Name, ErrUnknownPlaylist)
		}
		if msg.Name != m.current {
			m.current = msg.Name
			m.trackID = ""
		}

	case protocol.PlaybackItem:
		p := m.Playlist(m.current)
		if p == nil {
			return fmt.Errorf("%q: %w", m.current, ErrUnknownPlaylist)
		}
		if _, err := p.Resolve(msg.TrackID); err != nil {
			return err
		}
		m.trackID = msg.TrackID

	case protocol.CommandMessage:
		switch msg.Command {
		case protocol.CommandPlay:
			m.playing = true
		case protocol.CommandPause:
			m.playing = false
		default:
			return nil
		}

	default:
		return fmt.Errorf("%v: %w", msg.Kind(), ErrUnexpectedMessage)
	}
	m.notify()
	return nil
}

func (m *Mirror) replaceMain(msg protocol.MainPlaylist) {
	wasMain := m.current == "" || m.current == m.main.Name()
	p := playlist.New(msg.Name)
	p.Add(msg.Tracks...)
	m.main = p
	if wasMain {
		m.current = p.Name()
	}
	m.logger.Debug("main library replaced", "tracks", p.Len())
}

// applySnapshot builds or replaces a user playlist. Ids missing from the
// main library are skipped one by one; the rest of the snapshot applies.
func (m *Mirror) applySnapshot(msg protocol.PlaylistSnapshot) error {
	if msg.Name == m.main.Name() {
		return fmt.Errorf("%q: %w", msg.Name, ErrReadOnly)
	}
	p := playlist.New(msg.Name)
	if existing := m.playlists.Get(msg.Name); existing != nil {
		p.SetShuffled(existing.Shuffled())
	}
	for _, id := range msg.TrackIDs {
		t, err := m.main.Resolve(id)
		if err != nil {
			m.logger.Warn("skipping snapshot record", "playlist", msg.Name, "err", err)
			continue
		}
		p.Add(t)
	}
	// A snapshot for a known name replaces its membership.
	m.playlists.Put(p)
	return nil
}

func (m *Mirror) validName(name string) error {
	if name == "" || name == protocol.AllPlaylists || protocol.HasSeparator(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if name == m.main.Name() || m.playlists.Has(name) {
		return fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	return nil
}

func (m *Mirror) userPlaylist(name string) (*playlist.Playlist, error) {
	if name == m.main.Name() {
		return nil, ErrReadOnly
	}
	p := m.playlists.Get(name)
	if p == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownPlaylist)
	}
	return p, nil
}

// CreatePlaylist adds an empty playlist and asks the owner to do the same.
func (m *Mirror) CreatePlaylist(name string) error {
	if err := m.validName(name); err != nil {
		return err
	}
	if err := m.playlists.Add(playlist.New(name)); err != nil {
		return err
	}
	m.send(protocol.NewPlaylist{Name: name})
	m.notify()
	return nil
}

// RemovePlaylist deletes a user playlist. When it was playing, the main
// library becomes current, as the owner does.
func (m *Mirror) RemovePlaylist(name string) error {
	if _, err := m.userPlaylist(name); err != nil {
		return err
	}
	m.playlists.Remove(name)
	if m.current == name {
		m.fallBackToMain()
	}
	m.send(protocol.RemovePlaylist{Name: name})
	m.notify()
	return nil
}

// RemoveAllPlaylists deletes every user playlist.
func (m *Mirror) RemoveAllPlaylists() {
	m.playlists.Clear()
	if m.current != m.main.Name() {
		m.fallBackToMain()
	}
	m.send(protocol.RemovePlaylist{All: true})
	m.notify()
}

func (m *Mirror) fallBackToMain() {
	m.current = m.main.Name()
	m.trackID = ""
	m.playing = false
}

// AddMusicFileToPlaylist appends a main library track to a user playlist.
// A track can only appear once per playlist here.
func (m *Mirror) AddMusicFileToPlaylist(name, id string) error {
	p, err := m.userPlaylist(name)
	if err != nil {
		return err
	}
	t, err := m.main.Resolve(id)
	if err != nil {
		return err
	}
	if p.Contains(id) {
		return fmt.Errorf("%q in %q: %w", id, name, ErrAlreadyInPlaylist)
	}
	p.Add(t)
	m.send(protocol.AddToPlaylist{Playlist: name, TrackID: id})
	m.notify()
	return nil
}

// RemoveMusicFileFromPlaylist removes a track from a user playlist.
func (m *Mirror) RemoveMusicFileFromPlaylist(name, id string) error {
	p, err := m.userPlaylist(name)
	if err != nil {
		return err
	}
	if !p.Remove(id) {
		return fmt.Errorf("track %q in %q: %w", id, name, playlist.ErrNotFound)
	}
	if m.current == name && m.trackID == id && !p.Contains(id) {
		m.trackID = ""
	}
	m.send(protocol.RemoveFromPlaylist{Playlist: name, TrackID: id})
	m.notify()
	return nil
}

// SelectPlaylist makes the named playlist current without playing it.
func (m *Mirror) SelectPlaylist(name string) error {
	if m.Playlist(name) == nil {
		return fmt.Errorf("%q: %w", name, ErrUnknownPlaylist)
	}
	if name == m.current {
		return nil
	}
	m.current = name
	m.trackID = ""
	m.playing = false
	m.send(protocol.CurrentPlaylist{Name: name})
	m.notify()
	return nil
}

// SelectTrack plays a track of the named playlist, switching playlists
// first when needed.
func (m *Mirror) SelectTrack(name, id string) error {
	p := m.Playlist(name)
	if p == nil {
		return fmt.Errorf("%q: %w", name, ErrUnknownPlaylist)
	}
	if err := p.Lookup(id).Err(id); err != nil {
		return err
	}
	if name != m.current {
		m.current = name
		m.send(protocol.CurrentPlaylist{Name: name})
	}
	m.trackID = id
	m.playing = true
	m.send(protocol.PlaybackItem{TrackID: id})
	m.notify()
	return nil
}

func (m *Mirror) Play() {
	m.playing = true
	m.send(protocol.CommandMessage{Command: protocol.CommandPlay})
	m.notify()
}

func (m *Mirror) Pause() {
	m.playing = false
	m.send(protocol.CommandMessage{Command: protocol.CommandPause})
	m.notify()
}

// TogglePlay pauses when playing and plays otherwise.
func (m *Mirror) TogglePlay() {
	if m.playing {
		m.Pause()
		return
	}
	m.Play()
}

// Next and Previous leave the track change to the owner, which reports it.
func (m *Mirror) Next() {
	m.send(protocol.CommandMessage{Command: protocol.CommandNext})
}

func (m *Mirror) Previous() {
	m.send(protocol.CommandMessage{Command: protocol.CommandPrevious})
}

// EnterBackground tells the owner the UI is hidden.
func (m *Mirror) EnterBackground() {
	if m.hidden {
		return
	}
	m.hidden = true
	m.send(protocol.CommandMessage{Command: protocol.CommandEnterBackground})
}

// LeaveBackground tells the owner the UI is visible again. The owner
// answers with its full state.
func (m *Mirror) LeaveBackground() {
	if !m.hidden {
		return
	}
	m.hidden = false
	m.send(protocol.CommandMessage{Command: protocol.CommandLeaveBackground})
}
