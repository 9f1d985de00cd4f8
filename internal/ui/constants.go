// Package ui is the terminal front end. It renders the foreground mirror
// and turns key presses into mirror operations.
package ui

// Layout constants.
const (
	// ScrollMargin is the number of rows kept visible above/below the cursor.
	ScrollMargin = 3

	// BorderHeight is the vertical space consumed by a pane border.
	BorderHeight = 2

	// HeaderHeight is the now-playing line plus the spacer under it.
	HeaderHeight = 2

	// FooterHeight is the status line.
	FooterHeight = 1

	// PlaylistPaneDivisor gives the playlists pane 1/PlaylistPaneDivisor of
	// the width.
	PlaylistPaneDivisor = 3

	// MinPaneWidth keeps rows readable on narrow terminals.
	MinPaneWidth = 16
)
