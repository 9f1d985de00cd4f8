package playback

import (
	"sync"

	"github.com/llehouerou/duoplay/internal/playlist"
)

const eventBufferSize = 16

// Subscription carries the changes published after Subscribe. Each
// channel is buffered; a subscriber that falls behind misses events
// rather than stalling the publisher.
type Subscription struct {
	StateChanged <-chan StateChange
	TrackChanged <-chan TrackChange
	ModeChanged  <-chan ModeChange
	Done         <-chan struct{}

	state chan StateChange
	track chan TrackChange
	mode  chan ModeChange
	done  chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		state: make(chan StateChange, eventBufferSize),
		track: make(chan TrackChange, eventBufferSize),
		mode:  make(chan ModeChange, eventBufferSize),
		done:  make(chan struct{}),
	}
	s.StateChanged, s.TrackChanged, s.ModeChanged, s.Done = s.state, s.track, s.mode, s.done
	return s
}

func (s *Subscription) close() { close(s.done) }

// offer sends v unless ch is full.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

// Publisher holds the latest Status and fans changes out to subscribers.
type Publisher struct {
	mu     sync.Mutex
	status Status
	subs   []*Subscription
	closed bool
}

// NewPublisher creates a publisher with a stopped status.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Status returns the latest published status.
func (p *Publisher) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Subscribe registers a new subscriber.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	sub := newSubscription()
	if p.closed {
		sub.close()
		return sub
	}
	p.subs = append(p.subs, sub)
	return sub
}

// Publish stores next and emits an event for each field that changed.
func (p *Publisher) Publish(next Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	prev := p.status
	if next.Track != nil {
		t := *next.Track
		next.Track = &t
	}
	p.status = next

	for _, sub := range p.subs {
		if prev.State != next.State {
			offer(sub.state, StateChange{Previous: prev.State, Current: next.State})
		}
		if !sameTrack(prev.Track, next.Track) {
			offer(sub.track, TrackChange{Previous: prev.Track, Current: next.Track})
		}
		if prev.Shuffle != next.Shuffle {
			offer(sub.mode, ModeChange{Shuffle: next.Shuffle})
		}
	}
}

// Close closes every subscription.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, sub := range p.subs {
		sub.close()
	}
	p.subs = nil
}

func sameTrack(a, b *playlist.Track) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
