package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize/english"

	"github.com/llehouerou/duoplay/internal/playlist"
)

const newPlaylistPrompt = "New playlist: "

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	leftWidth := max(MinPaneWidth, m.width/PlaylistPaneDivisor)
	rightWidth := max(MinPaneWidth, m.width-leftWidth)
	bodyHeight := max(1, m.height-HeaderHeight-FooterHeight-BorderHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPlaylists(leftWidth-BorderHeight, bodyHeight),
		m.renderTracks(rightWidth-BorderHeight, bodyHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	icon := "⏸"
	if m.mirror.Playing() {
		icon = "▶"
	}
	t := m.mirror.CurrentTrack()
	if t == nil {
		return ansi.Truncate(m.styles.muted.Render(icon+" Nothing playing"), m.width, "…")
	}
	line := m.styles.playing.Render(fmt.Sprintf("%s %s", icon, trackLabel(*t))) +
		m.styles.muted.Render(fmt.Sprintf("  %s  from %s", formatDuration(t.Duration), m.mirror.CurrentPlaylist()))
	return ansi.Truncate(line, m.width, "…")
}

func (m Model) paneStyle(p pane) lipgloss.Style {
	if m.focus == p && m.mode == modeBrowse {
		return m.styles.paneFocused
	}
	return m.styles.pane
}

func (m Model) renderPlaylists(width, height int) string {
	names := m.playlistNames()
	rows := []string{m.styles.title.Render(fit("Playlists", width))}

	start, end := m.playlistCursor.visible(len(names), height-1)
	for i := start; i < end; i++ {
		name := names[i]
		p := m.mirror.Playlist(name)
		marker := "  "
		switch {
		case name == m.mirror.CurrentPlaylist():
			marker = "▶ "
		case name == m.target:
			marker = "+ "
		}
		line := fit(fmt.Sprintf("%s%s (%s)", marker, name, english.Plural(p.Len(), "track", "")), width)
		rows = append(rows, m.rowStyle(playlistsPane, i == m.playlistCursor.pos, name == m.target).Render(line))
	}
	return m.paneStyle(playlistsPane).Width(width).Height(height).Render(strings.Join(rows, "\n"))
}

func (m Model) renderTracks(width, height int) string {
	p := m.browsedPlaylist()
	tracks := p.Tracks()
	summary := fmt.Sprintf("  %s, %s", english.Plural(len(tracks), "track", ""), formatDuration(p.TotalDuration()))
	rows := []string{fit(m.styles.title.Render(p.Name())+m.styles.muted.Render(summary), width)}

	var playingID string
	if p.Name() == m.mirror.CurrentPlaylist() {
		if t := m.mirror.CurrentTrack(); t != nil {
			playingID = t.ID
		}
	}

	start, end := m.trackCursor.visible(len(tracks), height-1)
	for i := start; i < end; i++ {
		t := tracks[i]
		marker := "  "
		if t.ID == playingID {
			marker = "▶ "
		}
		dur := formatDuration(t.Duration)
		label := fit(marker+trackLabel(t), max(0, width-len(dur)-1))
		line := label + strings.Repeat(" ", max(1, width-lipgloss.Width(label)-len(dur))) + dur
		style := m.rowStyle(tracksPane, i == m.trackCursor.pos, false)
		if t.ID == playingID && i != m.trackCursor.pos {
			style = m.styles.playing
		}
		rows = append(rows, style.Render(line))
	}
	return m.paneStyle(tracksPane).Width(width).Height(height).Render(strings.Join(rows, "\n"))
}

func (m Model) rowStyle(p pane, atCursor, target bool) lipgloss.Style {
	switch {
	case atCursor && m.focus == p:
		return m.styles.cursor
	case target:
		return m.styles.target
	default:
		return m.styles.text
	}
}

func (m Model) renderFooter() string {
	switch m.mode {
	case modeNewPlaylist:
		return newPlaylistPrompt + m.input.View()
	case modeConfirm:
		return m.styles.errorStatus.Render(m.confirm.prompt)
	}
	if m.status != "" {
		if m.statusErr {
			return fit(m.styles.errorStatus.Render(m.status), m.width)
		}
		return fit(m.styles.status.Render(m.status), m.width)
	}
	return m.help.View(m.keys)
}

// trackLabel is "Title - Artist", falling back to the file name.
func trackLabel(t playlist.Track) string {
	title := t.Title
	if title == "" {
		title = filepath.Base(t.Path)
	}
	if t.Artist == "" {
		return title
	}
	return title + " - " + t.Artist
}

// formatDuration renders m:ss, or h:mm:ss from one hour up.
func formatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	h, mins, s := secs/3600, secs%3600/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, s)
	}
	return fmt.Sprintf("%d:%02d", mins, s)
}

// fit truncates s to width cells, keeping ANSI styling intact.
func fit(s string, width int) string {
	return ansi.Truncate(s, max(0, width), "…")
}
