// Package mpris publishes the player on the desktop media-control bus.
package mpris

import "github.com/llehouerou/duoplay/internal/playback"

const (
	busName  = "duoplay"
	identity = "duoplay"
)

// Controls is the part of the background owner the adapter drives.
type Controls interface {
	Press(b playback.Button)
	SetShuffle(enabled bool)
	Status() playback.Status
}
