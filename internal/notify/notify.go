// Package notify shows a desktop notification when a new track starts.
package notify

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/duoplay/internal/playlist"
)

// Urgency is the freedesktop notification priority.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

const defaultTimeout = 5 * time.Second

// Notification is one desktop notification.
type Notification struct {
	Summary    string
	Body       string
	Icon       string // image path or icon name
	Timeout    time.Duration
	ReplacesID uint32 // 0 opens a new notification
	Urgency    Urgency
}

// Notifier delivers notifications. Notify returns the id the server gave
// the notification, 0 when notifications are unavailable.
type Notifier interface {
	Notify(n Notification) (uint32, error)
}

// NowPlaying keeps a single notification up to date with the playing
// track, replacing the previous one instead of stacking.
type NowPlaying struct {
	notifier Notifier
	logger   *log.Logger
	id       uint32
	lastID   string
}

// NewNowPlaying wraps notifier.
func NewNowPlaying(notifier Notifier, logger *log.Logger) *NowPlaying {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &NowPlaying{notifier: notifier, logger: logger}
}

// Show announces t with icon. A nil track, or the track already shown,
// is ignored.
func (n *NowPlaying) Show(t *playlist.Track, icon string) {
	if t == nil || t.ID == n.lastID {
		return
	}
	n.lastID = t.ID

	if icon == "" {
		icon = "audio-x-generic"
	}
	id, err := n.notifier.Notify(Notification{
		Summary:    title(t),
		Body:       t.Artist,
		Icon:       icon,
		Timeout:    defaultTimeout,
		ReplacesID: n.id,
		Urgency:    UrgencyLow,
	})
	if err != nil {
		n.logger.Debug("notification failed", "err", err)
		return
	}
	n.id = id
}

func title(t *playlist.Track) string {
	if t.Title != "" {
		return t.Title
	}
	return t.Path
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(Notification) (uint32, error) { return 0, nil }
