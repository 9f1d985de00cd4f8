package playback

// State is what the engine is doing with the current track.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

var stateNames = [...]string{
	StateStopped: "Stopped",
	StatePlaying: "Playing",
	StatePaused:  "Paused",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// IsActive reports whether a track is loaded, playing or paused.
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// Button is a transport control press, from media keys or the desktop
// media-control bus.
type Button int

const (
	ButtonPlay Button = iota
	ButtonPause
	ButtonPlayPause
	ButtonNext
	ButtonPrevious
	ButtonStop
)

var buttonNames = [...]string{
	ButtonPlay:      "Play",
	ButtonPause:     "Pause",
	ButtonPlayPause: "PlayPause",
	ButtonNext:      "Next",
	ButtonPrevious:  "Previous",
	ButtonStop:      "Stop",
}

func (b Button) String() string {
	if b < 0 || int(b) >= len(buttonNames) {
		return "Unknown"
	}
	return buttonNames[b]
}
