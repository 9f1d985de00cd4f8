package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/duoplay/internal/playlist"
)

// ErrShutdown is returned by operations on an engine that was shut down.
var ErrShutdown = errors.New("engine shut down")

const resampleQuality = 4

// BeepEngine plays MP3 and FLAC files through the system speaker.
type BeepEngine struct {
	mu       sync.Mutex
	queue    *playlist.PlayingQueue
	state    State
	ctrl     *beep.Ctrl
	streamer beep.StreamSeekCloser
	format   beep.Format
	onChange func(Item)
	onStop   func()
	closed   bool

	// gen increments on every load; end-of-track callbacks of older
	// streams are ignored.
	gen int

	speakerRate beep.SampleRate
	speakerInit bool
}

var _ Engine = (*BeepEngine)(nil)

// NewBeep creates an idle engine. The speaker is initialized on first play.
func NewBeep() *BeepEngine {
	return &BeepEngine{queue: playlist.NewQueue()}
}

// decode opens path with the decoder matching its extension.
func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".mp3" && ext != ".flac" {
		return nil, beep.Format{}, fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}

// Bind replaces the queue and stops playback.
func (e *BeepEngine) Bind(tracks []playlist.Track) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unload()
	e.state = Stopped
	e.queue.Replace(tracks...)
}

// Update replaces the queue, keeping the current track when it survives.
func (e *BeepEngine) Update(tracks []playlist.Track) {
	e.mu.Lock()
	had := e.queue.Current() != nil
	kept := e.queue.Update(tracks...)
	if had && !kept {
		e.unload()
		e.state = Stopped
	}
	cb := e.onChange
	e.mu.Unlock()

	if had && !kept && cb != nil {
		cb(NoItem)
	}
}

// MoveTo selects the entry at index.
func (e *BeepEngine) MoveTo(index int) error {
	return e.move(func(q *playlist.PlayingQueue) *playlist.Track { return q.JumpTo(index) })
}

// MoveNext selects the following entry, or a random one in shuffle mode.
func (e *BeepEngine) MoveNext() error {
	return e.move((*playlist.PlayingQueue).Next)
}

// MovePrevious selects the preceding entry.
func (e *BeepEngine) MovePrevious() error {
	return e.move((*playlist.PlayingQueue).Previous)
}

func (e *BeepEngine) move(step func(*playlist.PlayingQueue) *playlist.Track) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrShutdown
	}
	if step(e.queue) == nil {
		e.mu.Unlock()
		return nil
	}
	err := e.loadCurrent()
	item := e.currentItem()
	cb := e.onChange
	e.mu.Unlock()

	if cb != nil {
		cb(item)
	}
	return err
}

// Play starts or resumes playback, selecting the first entry if needed.
func (e *BeepEngine) Play() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrShutdown
	}
	if e.queue.IsEmpty() {
		e.mu.Unlock()
		return nil
	}

	selected := false
	if e.queue.Current() == nil {
		e.queue.JumpTo(0)
		selected = true
	}
	e.state = Playing
	var err error
	if e.ctrl == nil {
		err = e.loadCurrent()
	} else {
		speaker.Lock()
		e.ctrl.Paused = false
		speaker.Unlock()
	}
	item := e.currentItem()
	cb := e.onChange
	e.mu.Unlock()

	if selected && cb != nil {
		cb(item)
	}
	return err
}

// Pause pauses playback.
func (e *BeepEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Playing {
		return
	}
	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = true
		speaker.Unlock()
	}
	e.state = Paused
}

// State returns the playback state.
func (e *BeepEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Current returns the selected entry.
func (e *BeepEngine) Current() Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentItem()
}

// Position returns the position within the current track.
func (e *BeepEngine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.format.SampleRate.D(e.streamer.Position())
	speaker.Unlock()
	return pos
}

// SetPosition seeks within the current track.
func (e *BeepEngine) SetPosition(d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return nil
	}
	n := e.format.SampleRate.N(d)
	n = max(0, min(n, e.streamer.Len()-1))
	speaker.Lock()
	err := e.streamer.Seek(n)
	speaker.Unlock()
	return err
}

// SetShuffle enables or disables shuffled advance.
func (e *BeepEngine) SetShuffle(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue.SetShuffle(enabled)
}

// OnCurrentItemChanged registers the selection callback. Pass nil to detach.
func (e *BeepEngine) OnCurrentItemChanged(fn func(Item)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// OnStopped registers the end-of-queue callback. Pass nil to detach.
func (e *BeepEngine) OnStopped(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStop = fn
}

// Shutdown stops playback and releases the speaker.
func (e *BeepEngine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.unload()
	e.state = Stopped
	e.onChange = nil
	e.onStop = nil
	if e.speakerInit {
		speaker.Close()
		e.speakerInit = false
	}
	return nil
}

func (e *BeepEngine) currentItem() Item {
	t := e.queue.Current()
	if t == nil {
		return NoItem
	}
	return Item{Index: e.queue.CurrentIndex(), TrackID: t.ID}
}

// loadCurrent opens the current track and hands it to the speaker, paused
// unless the engine is playing. Must hold e.mu.
func (e *BeepEngine) loadCurrent() error {
	e.unload()
	t := e.queue.Current()
	if t == nil {
		return nil
	}

	streamer, format, err := decode(t.Path)
	if err != nil {
		e.state = Stopped
		return fmt.Errorf("open %s: %w", t.Path, err)
	}

	if !e.speakerInit {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			e.state = Stopped
			return err
		}
		e.speakerInit = true
		e.speakerRate = format.SampleRate
	}

	e.gen++
	gen := e.gen
	e.streamer = streamer
	e.format = format
	e.ctrl = &beep.Ctrl{Streamer: streamer, Paused: e.state != Playing}

	var out beep.Streamer = e.ctrl
	if format.SampleRate != e.speakerRate {
		out = beep.Resample(resampleQuality, format.SampleRate, e.speakerRate, e.ctrl)
	}

	// The callback runs with the speaker locked, so the advance happens
	// on its own goroutine.
	speaker.Play(beep.Seq(out, beep.Callback(func() {
		go e.finished(gen)
	})))
	return nil
}

// unload stops the speaker and closes the current stream. Must hold e.mu.
func (e *BeepEngine) unload() {
	if e.streamer == nil {
		return
	}
	if e.speakerInit {
		speaker.Clear()
	}
	e.streamer.Close()
	e.streamer = nil
	e.ctrl = nil
}

// finished advances to the next entry when a track ends.
func (e *BeepEngine) finished(gen int) {
	e.mu.Lock()
	if e.closed || gen != e.gen {
		e.mu.Unlock()
		return
	}
	if e.queue.Next() == nil {
		e.unload()
		e.state = Stopped
		stop := e.onStop
		e.mu.Unlock()
		if stop != nil {
			stop()
		}
		return
	}
	_ = e.loadCurrent()
	item := e.currentItem()
	cb := e.onChange
	e.mu.Unlock()

	if cb != nil {
		cb(item)
	}
}
