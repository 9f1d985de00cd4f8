// Package startup sequences the two concurrent initialization tasks of the
// background owner: the library scan and the playlist load.
package startup

import (
	"context"
	"sync"
	"sync/atomic"
)

// State is the barrier's progress.
type State int32

const (
	Idle State = iota
	ScanningAndLoading
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case ScanningAndLoading:
		return "ScanningAndLoading"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}

// latch is a one-shot completion signal. The flag lets callers observe
// completion that happened before they started waiting.
type latch struct {
	done atomic.Bool
	ch   chan struct{}
	once sync.Once
}

func newLatch() *latch {
	return &latch{ch: make(chan struct{})}
}

func (l *latch) signal() {
	l.once.Do(func() {
		l.done.Store(true)
		close(l.ch)
	})
}

// Barrier becomes Ready once both the scan and the load have signaled,
// in either order. It never goes back.
type Barrier struct {
	state atomic.Int32
	scan  *latch
	load  *latch
}

// New creates an Idle barrier.
func New() *Barrier {
	return &Barrier{scan: newLatch(), load: newLatch()}
}

// Start marks both producers as running.
func (b *Barrier) Start() {
	b.state.CompareAndSwap(int32(Idle), int32(ScanningAndLoading))
}

// ScanDone signals that the library scan finished. Safe to call twice.
func (b *Barrier) ScanDone() {
	b.scan.signal()
	b.settle()
}

// LoadDone signals that persisted playlists were loaded. Safe to call twice.
func (b *Barrier) LoadDone() {
	b.load.signal()
	b.settle()
}

// ScanComplete is closed once the scan finished. The loader waits on it
// before resolving track ids.
func (b *Barrier) ScanComplete() <-chan struct{} {
	return b.scan.ch
}

func (b *Barrier) settle() {
	if b.scan.done.Load() && b.load.done.Load() {
		b.state.Store(int32(Ready))
	}
}

// State returns the current state.
func (b *Barrier) State() State {
	return State(b.state.Load())
}

// Wait blocks until both producers have signaled or ctx ends.
func (b *Barrier) Wait(ctx context.Context) error {
	if b.scan.done.Load() && b.load.done.Load() {
		return nil
	}
	for _, l := range []*latch{b.scan, b.load} {
		if l.done.Load() {
			continue
		}
		select {
		case <-l.ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	b.settle()
	return nil
}
