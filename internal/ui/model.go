package ui

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/llehouerou/duoplay/internal/errmsg"
	"github.com/llehouerou/duoplay/internal/foreground"
	"github.com/llehouerou/duoplay/internal/playlist"
	"github.com/llehouerou/duoplay/internal/protocol"
)

// Inbox delivers the messages the background owner sends.
type Inbox interface {
	Receive(ctx context.Context) (protocol.Message, error)
}

type pane int

const (
	playlistsPane pane = iota
	tracksPane
)

type mode int

const (
	modeBrowse mode = iota
	modeNewPlaylist
	modeConfirm
)

// confirmation is a destructive action waiting for a y/n answer.
type confirmation struct {
	prompt string
	op     errmsg.Op
	run    func() error
}

type inboundMsg struct{ msg protocol.Message }

type inboundErrMsg struct{ err error }

// Model is the root bubbletea model.
type Model struct {
	mirror *foreground.Mirror
	inbox  Inbox
	logger *log.Logger

	keys   keyMap
	help   help.Model
	input  textinput.Model
	styles styles

	mode    mode
	confirm confirmation
	focus   pane

	// browsed is the playlist listed in the tracks pane, target the one
	// Add appends to. Empty browsed means the main library.
	browsed string
	target  string

	playlistCursor cursor
	trackCursor    cursor

	width, height int

	status       string
	statusErr    bool
	disconnected bool
}

// New creates the root model. inbox may be nil when nothing feeds the
// mirror, which tests use.
func New(mirror *foreground.Mirror, inbox Inbox, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	input := textinput.New()
	input.Placeholder = "playlist name"
	input.CharLimit = 128
	return Model{
		mirror: mirror,
		inbox:  inbox,
		logger: logger,
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  input,
		styles: defaultStyles(),
	}
}

// Init starts listening for the owner's messages.
func (m Model) Init() tea.Cmd {
	return m.receive()
}

func (m Model) receive() tea.Cmd {
	if m.inbox == nil {
		return nil
	}
	inbox := m.inbox
	return func() tea.Msg {
		msg, err := inbox.Receive(context.Background())
		if err != nil {
			return inboundErrMsg{err: err}
		}
		return inboundMsg{msg: msg}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inboundMsg:
		if err := m.mirror.HandleMessage(msg.msg); err != nil {
			m.logger.Warn(errmsg.Format(errmsg.OpMessageHandle, err))
		}
		m.clampCursors()
		return m, m.receive()

	case inboundErrMsg:
		if errors.Is(msg.err, protocol.ErrDecode) {
			m.logger.Warn(errmsg.Format(errmsg.OpMessageDecode, msg.err))
			return m, m.receive()
		}
		m.disconnected = true
		m.setError(errmsg.OpMessageReceive, msg.err)
		return m, nil

	case tea.FocusMsg:
		m.mirror.LeaveBackground()
		return m, nil

	case tea.BlurMsg:
		m.mirror.EnterBackground()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(0, msg.Width-len(newPlaylistPrompt)-2)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeNewPlaylist:
			return m.updateNewPlaylist(msg)
		case modeConfirm:
			return m.updateConfirm(msg), nil
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

// playlistNames lists the main library first, then user playlists.
func (m Model) playlistNames() []string {
	names := []string{m.mirror.Main().Name()}
	for _, p := range m.mirror.Playlists() {
		names = append(names, p.Name())
	}
	return names
}

// browsedPlaylist returns the playlist in the tracks pane, falling back to
// the main library when it was removed.
func (m Model) browsedPlaylist() *playlist.Playlist {
	if m.browsed != "" {
		if p := m.mirror.Playlist(m.browsed); p != nil {
			return p
		}
	}
	return m.mirror.Main()
}

func (m Model) isMain(name string) bool {
	return name == m.mirror.Main().Name()
}

func (m *Model) clampCursors() {
	if m.browsed != "" && m.mirror.Playlist(m.browsed) == nil {
		m.browsed = ""
		m.trackCursor.reset()
	}
	if m.target != "" && m.mirror.Playlist(m.target) == nil {
		m.target = ""
	}
	m.playlistCursor.clamp(len(m.playlistNames()))
	m.trackCursor.clamp(m.browsedPlaylist().Len())
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(op errmsg.Op, err error) {
	m.status = errmsg.Format(op, err)
	m.statusErr = true
}
