// Package errmsg keeps failure messages uniform between the log and the
// status line of the UI.
package errmsg

import "fmt"

// Op names the action that failed, phrased to follow "Failed to".
type Op string

const (
	OpLibraryScan Op = "scan library"
	OpTrackRead   Op = "read track"

	OpPlaylistsLoad    Op = "load playlists"
	OpPlaylistsSave    Op = "save playlists"
	OpPlaylistCreate   Op = "create playlist"
	OpPlaylistDelete   Op = "delete playlist"
	OpPlaylistAddTrack Op = "add track to playlist"
	OpPlaylistRemove   Op = "remove track from playlist"
	OpPlaylistSelect   Op = "select playlist"

	OpMessageDecode   Op = "decode message"
	OpMessageHandle   Op = "handle message"
	OpMessageSend     Op = "send message"
	OpMessageReceive  Op = "receive message"
	OpConnectionServe Op = "serve connection"

	OpPlaybackStart Op = "start playback"
	OpPlaybackTrack Op = "play track"
	OpPlaybackSeek  Op = "seek"
	OpEngineStop    Op = "shut down playback engine"
)

// Format renders err for display. A nil err renders as "".
func Format(op Op, err error) string {
	return FormatWith(op, "", err)
}

// FormatWith is Format with the subject of op, such as a file or playlist
// name, quoted after it.
func FormatWith(op Op, subject string, err error) string {
	switch {
	case err == nil:
		return ""
	case subject == "":
		return fmt.Sprintf("Failed to %s: %v", op, err)
	default:
		return fmt.Sprintf("Failed to %s '%s': %v", op, subject, err)
	}
}

// Wrap annotates err with op for callers that return it. A nil err stays nil.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
