package playlist

import (
	"math/rand/v2"
	"slices"
)

// noTrack is the position of a queue with nothing selected.
const noTrack = -1

// PlayingQueue is the list the engine plays from, with the position of the
// current track. In shuffle mode Next picks a random different track.
type PlayingQueue struct {
	tracks  []Track
	pos     int
	shuffle bool
	intn    func(n int) int
}

func NewQueue() *PlayingQueue {
	return &PlayingQueue{pos: noTrack, intn: rand.IntN}
}

func (q *PlayingQueue) Len() int                { return len(q.tracks) }
func (q *PlayingQueue) IsEmpty() bool           { return len(q.tracks) == 0 }
func (q *PlayingQueue) CurrentIndex() int       { return q.pos }
func (q *PlayingQueue) SetShuffle(enabled bool) { q.shuffle = enabled }

// Current returns the selected track, or nil.
func (q *PlayingQueue) Current() *Track {
	if q.pos < 0 || q.pos >= len(q.tracks) {
		return nil
	}
	return &q.tracks[q.pos]
}

// JumpTo selects the track at index. An index out of range leaves the
// position unchanged and returns nil.
func (q *PlayingQueue) JumpTo(index int) *Track {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	q.pos = index
	return &q.tracks[index]
}

// Next advances and returns the new current track, or nil at the end of
// an unshuffled queue.
func (q *PlayingQueue) Next() *Track {
	n := len(q.tracks)
	switch {
	case q.shuffle && n > 1 && q.pos == noTrack:
		return q.JumpTo(q.intn(n))
	case q.shuffle && n > 1:
		// Draw from the n-1 other tracks so the current one never repeats.
		i := q.intn(n - 1)
		if i >= q.pos {
			i++
		}
		return q.JumpTo(i)
	default:
		return q.JumpTo(q.pos + 1)
	}
}

// Previous steps back one track, or returns nil at the first.
func (q *PlayingQueue) Previous() *Track {
	if q.pos <= 0 {
		return nil
	}
	return q.JumpTo(q.pos - 1)
}

// Replace loads tracks with nothing selected.
func (q *PlayingQueue) Replace(tracks ...Track) {
	q.tracks = slices.Clone(tracks)
	q.pos = noTrack
}

// Update loads tracks and keeps the current track selected if it is still
// there, at the same position when possible, else at its first occurrence.
// It reports whether the current track survived.
func (q *PlayingQueue) Update(tracks ...Track) bool {
	cur, at := q.Current(), q.pos
	q.Replace(tracks...)
	if cur == nil {
		return false
	}
	id := cur.ID
	if at < len(q.tracks) && q.tracks[at].ID == id {
		q.pos = at
		return true
	}
	if i := slices.IndexFunc(q.tracks, func(t Track) bool { return t.ID == id }); i >= 0 {
		q.pos = i
		return true
	}
	return false
}

func (q *PlayingQueue) Clear() {
	q.tracks = nil
	q.pos = noTrack
}
