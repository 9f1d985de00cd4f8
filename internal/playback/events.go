package playback

import "github.com/llehouerou/duoplay/internal/playlist"

// Status is a snapshot of what the background owner is playing.
// It is safe to share between goroutines.
type Status struct {
	PlaylistName string
	Track        *playlist.Track
	State        State
	Shuffle      bool
}

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the current track changes. Current is nil
// when nothing is selected.
type TrackChange struct {
	Previous *playlist.Track
	Current  *playlist.Track
}

// ModeChange is emitted when shuffle changes.
type ModeChange struct {
	Shuffle bool
}
