package engine

import (
	"sync"
	"time"

	"github.com/llehouerou/duoplay/internal/playlist"
)

// Mock is a test double for Engine. It keeps a real queue, records calls
// and raises item-changed events inline.
type Mock struct {
	mu       sync.Mutex
	queue    *playlist.PlayingQueue
	state    State
	position time.Duration
	onChange func(Item)
	onStop   func()

	bindCalls     [][]string
	updateCalls   [][]string
	moveCalls     []int
	playCalls     int
	pauseCalls    int
	positionCalls []time.Duration
	shutdownCalls int

	playErr       error
	shutdownErr   error
	shutdownPanic any
}

var _ Engine = (*Mock)(nil)

// NewMock creates a new mock engine for testing.
func NewMock() *Mock {
	return &Mock{queue: playlist.NewQueue()}
}

func (m *Mock) Bind(tracks []playlist.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindCalls = append(m.bindCalls, ids(tracks))
	m.queue.Replace(tracks...)
	m.state = Stopped
	m.position = 0
}

func (m *Mock) Update(tracks []playlist.Track) {
	m.mu.Lock()
	m.updateCalls = append(m.updateCalls, ids(tracks))
	had := m.queue.Current() != nil
	kept := m.queue.Update(tracks...)
	if had && !kept {
		m.state = Stopped
	}
	cb := m.onChange
	m.mu.Unlock()

	if had && !kept && cb != nil {
		cb(NoItem)
	}
}

func (m *Mock) MoveTo(index int) error {
	m.mu.Lock()
	m.moveCalls = append(m.moveCalls, index)
	m.mu.Unlock()
	return m.move(func(q *playlist.PlayingQueue) *playlist.Track { return q.JumpTo(index) })
}

func (m *Mock) MoveNext() error {
	return m.move((*playlist.PlayingQueue).Next)
}

func (m *Mock) MovePrevious() error {
	return m.move((*playlist.PlayingQueue).Previous)
}

func (m *Mock) move(step func(*playlist.PlayingQueue) *playlist.Track) error {
	m.mu.Lock()
	if step(m.queue) == nil {
		m.mu.Unlock()
		return nil
	}
	m.position = 0
	item := m.current()
	cb := m.onChange
	m.mu.Unlock()

	if cb != nil {
		cb(item)
	}
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	m.playCalls++
	if m.playErr != nil {
		err := m.playErr
		m.mu.Unlock()
		return err
	}
	if m.queue.IsEmpty() {
		m.mu.Unlock()
		return nil
	}
	selected := false
	if m.queue.Current() == nil {
		m.queue.JumpTo(0)
		selected = true
	}
	m.state = Playing
	item := m.current()
	cb := m.onChange
	m.mu.Unlock()

	if selected && cb != nil {
		cb(item)
	}
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Current() Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current()
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) SetPosition(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positionCalls = append(m.positionCalls, d)
	m.position = d
	return nil
}

func (m *Mock) SetShuffle(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue.SetShuffle(enabled)
}

func (m *Mock) OnCurrentItemChanged(fn func(Item)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

func (m *Mock) OnStopped(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStop = fn
}

func (m *Mock) Shutdown() error {
	m.mu.Lock()
	m.shutdownCalls++
	m.state = Stopped
	p, err := m.shutdownPanic, m.shutdownErr
	m.mu.Unlock()

	if p != nil {
		panic(p)
	}
	return err
}

func (m *Mock) current() Item {
	t := m.queue.Current()
	if t == nil {
		return NoItem
	}
	return Item{Index: m.queue.CurrentIndex(), TrackID: t.ID}
}

func ids(tracks []playlist.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetShutdownError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdownErr = err
}

// SetShutdownPanic makes Shutdown panic with v.
func (m *Mock) SetShutdownPanic(v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdownPanic = v
}

func (m *Mock) BindCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.bindCalls...)
}

func (m *Mock) UpdateCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.updateCalls...)
}

func (m *Mock) MoveCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.moveCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *Mock) PositionCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.positionCalls...)
}

func (m *Mock) ShutdownCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdownCalls
}

// Attached reports whether an item-changed or stopped callback is
// registered.
func (m *Mock) Attached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onChange != nil || m.onStop != nil
}

// SimulateTrackEnd advances as if the current track finished playing.
// At the end of the queue it stops and raises the stopped callback.
func (m *Mock) SimulateTrackEnd() {
	m.mu.Lock()
	if m.queue.Next() == nil {
		m.state = Stopped
		m.position = 0
		stop := m.onStop
		m.mu.Unlock()
		if stop != nil {
			stop()
		}
		return
	}
	m.position = 0
	item := m.current()
	cb := m.onChange
	m.mu.Unlock()

	if cb != nil {
		cb(item)
	}
}
