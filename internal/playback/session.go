package playback

// Visibility tells whether the foreground is on screen.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
)

func (v Visibility) String() string {
	if v == Hidden {
		return "Hidden"
	}
	return "Visible"
}

// Echo tracks whether the next outbound notification would only repeat a
// change that came from the foreground.
type Echo int

const (
	EchoIdle Echo = iota
	EchoArmed
)

func (e Echo) String() string {
	if e == EchoArmed {
		return "Armed"
	}
	return "Idle"
}

// Session is the background owner's playback session. It is never persisted.
//
// Visibility gates every outbound message except lifecycle commands.
// Echo is armed right before a foreground-originated change is applied and
// consumed by the first outbound notification that change produces.
type Session struct {
	PlaylistName string
	TrackID      string
	State        State
	Visibility   Visibility
	Echo         Echo
}

// NewSession returns a stopped, visible session.
func NewSession() Session {
	return Session{State: StateStopped, Visibility: Visible, Echo: EchoIdle}
}

// EnterBackground marks the foreground as suspended.
func (s *Session) EnterBackground() {
	s.Visibility = Hidden
}

// LeaveBackground marks the foreground as visible again. Any pending echo
// is dropped because the foreground is about to receive the full state.
func (s *Session) LeaveBackground() {
	s.Visibility = Visible
	s.Echo = EchoIdle
}

// ArmEcho records that the next change was requested by the foreground.
func (s *Session) ArmEcho() {
	s.Echo = EchoArmed
}

// DisarmEcho clears a pending echo.
func (s *Session) DisarmEcho() {
	s.Echo = EchoIdle
}

// ConsumeEcho reports whether the echo was armed and clears it.
func (s *Session) ConsumeEcho() bool {
	armed := s.Echo == EchoArmed
	s.Echo = EchoIdle
	return armed
}

// CanTransmit reports whether an outbound message may be sent.
func (s *Session) CanTransmit(lifecycle bool) bool {
	return lifecycle || s.Visibility == Visible
}

// SelectPlaylist switches the current playlist and clears the current
// track when the playlist changes.
func (s *Session) SelectPlaylist(name string) {
	if s.PlaylistName == name {
		return
	}
	s.PlaylistName = name
	s.TrackID = ""
}
