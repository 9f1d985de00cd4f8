//go:build windows

package stderr

import "github.com/charmbracelet/log"

// Capture is a no-op on Windows, where the audio backend does not write to
// the console.
func Capture(_ *log.Logger) (func(), error) {
	return func() {}, nil
}
