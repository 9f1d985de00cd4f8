//go:build !linux

package notify

// New returns Discard; desktop notifications are only delivered on Linux.
func New() Notifier { return Discard{} }
