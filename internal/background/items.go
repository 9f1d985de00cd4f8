package background

import (
	"sync"

	"github.com/llehouerou/duoplay/internal/engine"
)

// itemQueue buffers item-changed events raised by the engine on any
// goroutine until the Run goroutine picks them up. It never blocks the
// engine.
type itemQueue struct {
	mu     sync.Mutex
	items  []engine.Item
	signal chan struct{}
}

func newItemQueue() *itemQueue {
	return &itemQueue{signal: make(chan struct{}, 1)}
}

func (q *itemQueue) push(item engine.Item) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.wake()
}

// wake asks the Run goroutine to settle without queuing an item, for
// engine state changes that do not move the selection.
func (q *itemQueue) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *itemQueue) drain() []engine.Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}
