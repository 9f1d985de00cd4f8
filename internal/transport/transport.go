// Package transport carries key/value sets between the background owner and
// the foreground mirror. It knows nothing about what the values mean.
package transport

import (
	"context"
	"errors"
	"maps"
	"sync"
)

// ErrClosed is returned by Send and Receive once a channel is closed.
var ErrClosed = errors.New("channel closed")

// ValueSet is one delivery on a channel.
type ValueSet map[string]string

// Clone returns an independent copy.
func (v ValueSet) Clone() ValueSet {
	return maps.Clone(v)
}

// Channel is an asynchronous, ordered, bidirectional key/value channel.
// Send never waits for the peer to read.
type Channel interface {
	Send(ValueSet) error
	Receive(ctx context.Context) (ValueSet, error)
	Close() error
}

// inbox is an unbounded FIFO with a wake-up signal.
type inbox struct {
	mu     sync.Mutex
	items  []ValueSet
	signal chan struct{}
}

func newInbox() *inbox {
	return &inbox{signal: make(chan struct{}, 1)}
}

func (b *inbox) push(v ValueSet) {
	b.mu.Lock()
	b.items = append(b.items, v)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

func (b *inbox) pop() (ValueSet, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return nil, false
	}
	v := b.items[0]
	b.items[0] = nil
	b.items = b.items[1:]
	return v, true
}

// wait blocks until an item is available, done is closed, or ctx ends.
// Items queued before done was closed are still delivered.
func (b *inbox) wait(ctx context.Context, done <-chan struct{}) (ValueSet, error) {
	for {
		if v, ok := b.pop(); ok {
			return v, nil
		}
		select {
		case <-b.signal:
		case <-done:
			if v, ok := b.pop(); ok {
				return v, nil
			}
			return nil, ErrClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
