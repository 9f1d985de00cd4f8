// Package protocol encodes the messages exchanged between the background
// owner and the foreground mirror. Every message is a single key/value pair:
// the key names the kind, the value is a flat delimited payload.
package protocol

// Kind identifies the type of a message. It is the key of the value set.
type Kind int

const (
	KindMessage Kind = iota
	KindMediaPlaybackItem
	KindCurrentPlaylist
	KindMainPlaylist
	KindPlaylist
	KindNewPlaylist
	KindRemovePlaylist
	KindAddToPlaylist
	KindRemoveFromPlaylist
)

var kindNames = map[Kind]string{
	KindMessage:            "Message",
	KindMediaPlaybackItem:  "MediaPlaybackItem",
	KindCurrentPlaylist:    "CurrentPlaylist",
	KindMainPlaylist:       "MainPlaylist",
	KindPlaylist:           "Playlist",
	KindNewPlaylist:        "NewPlaylist",
	KindRemovePlaylist:     "RemovePlaylist",
	KindAddToPlaylist:      "AddToPlaylist",
	KindRemoveFromPlaylist: "RemoveFromPlaylist",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseKind maps a wire name back to its kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Command is the payload of a KindMessage message.
type Command int

const (
	CommandPlay Command = iota
	CommandPause
	CommandEnterBackground
	CommandLeaveBackground
	CommandNext
	CommandPrevious
)

var commandNames = map[Command]string{
	CommandPlay:            "Play",
	CommandPause:           "Pause",
	CommandEnterBackground: "EnterBackground",
	CommandLeaveBackground: "LeaveBackground",
	CommandNext:            "Next",
	CommandPrevious:        "Previous",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ParseCommand maps a wire name back to its command.
func ParseCommand(s string) (Command, bool) {
	for c, name := range commandNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}

// IsLifecycle reports whether the command announces a foreground
// visibility change. These are never held back by the visibility gate.
func (c Command) IsLifecycle() bool {
	return c == CommandEnterBackground || c == CommandLeaveBackground
}
