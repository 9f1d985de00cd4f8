package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize/english"

	"github.com/llehouerou/duoplay/internal/errmsg"
	"github.com/llehouerou/duoplay/internal/foreground"
	"github.com/llehouerou/duoplay/internal/playlist"
)

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.SwitchPane):
		if m.focus == playlistsPane {
			m.focus = tracksPane
		} else {
			m.focus = playlistsPane
		}
	case key.Matches(msg, k.Up):
		m.moveCursor(-1)
	case key.Matches(msg, k.Down):
		m.moveCursor(1)
	case key.Matches(msg, k.Top):
		m.jumpCursor(true)
	case key.Matches(msg, k.Bottom):
		m.jumpCursor(false)
	case key.Matches(msg, k.Open):
		m.open()
	case key.Matches(msg, k.PlayPause):
		m.mirror.TogglePlay()
	case key.Matches(msg, k.Next):
		m.mirror.Next()
	case key.Matches(msg, k.Previous):
		m.mirror.Previous()
	case key.Matches(msg, k.Select):
		m.selectPlaylist()
	case key.Matches(msg, k.Target):
		m.markTarget()
	case key.Matches(msg, k.Add):
		m.addTrack()
	case key.Matches(msg, k.Remove):
		m.removeTrack()
	case key.Matches(msg, k.NewPlaylist):
		m.mode = modeNewPlaylist
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, k.Delete):
		m.askDelete()
	case key.Matches(msg, k.DeleteAll):
		m.askDeleteAll()
	}
	return m, nil
}

func (m Model) updateNewPlaylist(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		m.mode = modeBrowse
		m.input.Blur()
		if err := m.mirror.CreatePlaylist(name); err != nil {
			m.setError(errmsg.OpPlaylistCreate, err)
			return m, nil
		}
		if m.target == "" {
			m.target = name
		}
		m.setStatus(fmt.Sprintf("Created playlist %q", name))
		return m, nil
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		m.setStatus("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) Model {
	c := m.confirm
	m.mode = modeBrowse
	m.confirm = confirmation{}
	if msg.String() != "y" && msg.String() != "Y" {
		m.setStatus("Cancelled")
		return m
	}
	if err := c.run(); err != nil {
		m.setError(c.op, err)
		return m
	}
	m.clampCursors()
	m.setStatus("Deleted")
	return m
}

func (m *Model) moveCursor(delta int) {
	if m.focus == playlistsPane {
		m.playlistCursor.move(delta, len(m.playlistNames()))
		return
	}
	m.trackCursor.move(delta, m.browsedPlaylist().Len())
}

func (m *Model) jumpCursor(top bool) {
	if m.focus == playlistsPane {
		m.playlistCursor.jump(top, len(m.playlistNames()))
		return
	}
	m.trackCursor.jump(top, m.browsedPlaylist().Len())
}

func (m Model) selectedPlaylist() string {
	names := m.playlistNames()
	if m.playlistCursor.pos < len(names) {
		return names[m.playlistCursor.pos]
	}
	return ""
}

func (m Model) selectedTrack() *playlist.Track {
	return m.browsedPlaylist().Track(m.trackCursor.pos)
}

// open browses the playlist under the cursor, or plays the track under it.
func (m *Model) open() {
	if m.focus == playlistsPane {
		name := m.selectedPlaylist()
		if m.isMain(name) {
			name = ""
		}
		m.browsed = name
		m.trackCursor.reset()
		m.focus = tracksPane
		return
	}
	t := m.selectedTrack()
	if t == nil {
		return
	}
	if err := m.mirror.SelectTrack(m.browsedPlaylist().Name(), t.ID); err != nil {
		m.setError(errmsg.OpPlaybackTrack, err)
	}
}

func (m *Model) selectPlaylist() {
	name := m.browsedPlaylist().Name()
	if m.focus == playlistsPane {
		name = m.selectedPlaylist()
	}
	if err := m.mirror.SelectPlaylist(name); err != nil {
		m.setError(errmsg.OpPlaylistSelect, err)
		return
	}
	m.setStatus(fmt.Sprintf("Now playing from %q", name))
}

func (m *Model) markTarget() {
	if m.focus != playlistsPane {
		return
	}
	name := m.selectedPlaylist()
	if m.isMain(name) {
		m.setError(errmsg.OpPlaylistAddTrack, foreground.ErrReadOnly)
		return
	}
	m.target = name
	m.setStatus(fmt.Sprintf("Adding tracks to %q", name))
}

func (m *Model) addTrack() {
	if m.focus != tracksPane {
		return
	}
	t := m.selectedTrack()
	if t == nil {
		return
	}
	if m.target == "" {
		m.setStatus("Press t on a playlist to choose where tracks go")
		return
	}
	if err := m.mirror.AddMusicFileToPlaylist(m.target, t.ID); err != nil {
		m.setError(errmsg.OpPlaylistAddTrack, err)
		return
	}
	m.setStatus(fmt.Sprintf("Added %q to %q", trackLabel(*t), m.target))
}

func (m *Model) removeTrack() {
	if m.focus != tracksPane {
		return
	}
	t := m.selectedTrack()
	if t == nil {
		return
	}
	label := trackLabel(*t)
	if err := m.mirror.RemoveMusicFileFromPlaylist(m.browsedPlaylist().Name(), t.ID); err != nil {
		m.setError(errmsg.OpPlaylistRemove, err)
		return
	}
	m.clampCursors()
	m.setStatus(fmt.Sprintf("Removed %q", label))
}

func (m *Model) askDelete() {
	if m.focus != playlistsPane {
		return
	}
	name := m.selectedPlaylist()
	if m.isMain(name) {
		m.setError(errmsg.OpPlaylistDelete, foreground.ErrReadOnly)
		return
	}
	mirror := m.mirror
	m.mode = modeConfirm
	m.confirm = confirmation{
		prompt: fmt.Sprintf("Delete playlist %q? (y/n)", name),
		op:     errmsg.OpPlaylistDelete,
		run:    func() error { return mirror.RemovePlaylist(name) },
	}
}

func (m *Model) askDeleteAll() {
	n := len(m.mirror.Playlists())
	if n == 0 {
		m.setStatus("No playlists to delete")
		return
	}
	mirror := m.mirror
	m.mode = modeConfirm
	m.confirm = confirmation{
		prompt: fmt.Sprintf("Delete %s? (y/n)", english.Plural(n, "playlist", "")),
		op:     errmsg.OpPlaylistDelete,
		run: func() error {
			mirror.RemoveAllPlaylists()
			return nil
		},
	}
}
