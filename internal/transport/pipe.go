package transport

import (
	"context"
	"sync"
)

// PipeEnd is one side of an in-memory channel pair.
type PipeEnd struct {
	in   *inbox
	out  *inbox
	done chan struct{}
	once *sync.Once
}

var _ Channel = (*PipeEnd)(nil)

// Pipe returns two connected channel ends. Closing either end closes both.
func Pipe() (*PipeEnd, *PipeEnd) {
	a, b := newInbox(), newInbox()
	done := make(chan struct{})
	once := &sync.Once{}
	return &PipeEnd{in: a, out: b, done: done, once: once},
		&PipeEnd{in: b, out: a, done: done, once: once}
}

// Send queues a copy of v for the other end.
func (p *PipeEnd) Send(v ValueSet) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	p.out.push(v.Clone())
	return nil
}

// Receive returns the next value set sent by the other end.
func (p *PipeEnd) Receive(ctx context.Context) (ValueSet, error) {
	return p.in.wait(ctx, p.done)
}

// Close closes the pipe.
func (p *PipeEnd) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
