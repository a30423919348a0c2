// Package timeindex answers "which cue is on screen at time t" against an
// immutable snapshot of a cue sequence.
package timeindex

import (
	"sync/atomic"
	"time"

	"capstan/internal/srt"
)

// Locate returns the first cue in sequence order whose interval contains
// the instant, bounds inclusive on both ends. Overlapping cues resolve to
// the earliest one in the sequence, regardless of timestamps; the sequence
// is scanned as stored, never sorted. The boolean is false when no cue is
// active.
func Locate(cues []srt.Cue, at time.Duration) (srt.Cue, bool) {
	for _, cue := range cues {
		if cue.Start <= at && at <= cue.End {
			return cue, true
		}
	}
	return srt.Cue{}, false
}

// Tracker serves repeated lookups against the latest published snapshot.
// Update replaces the snapshot wholesale, so a lookup racing an edit sees
// either the old sequence or the new one, never a partially edited one.
// Lookups allocate nothing, which matters at playback tick rates.
type Tracker struct {
	snapshot atomic.Pointer[[]srt.Cue]
}

// NewTracker returns a tracker seeded with the given sequence.
func NewTracker(cues []srt.Cue) *Tracker {
	t := &Tracker{}
	t.Update(cues)
	return t
}

// Update publishes a new cue sequence.
func (t *Tracker) Update(cues []srt.Cue) {
	t.snapshot.Store(&cues)
}

// Locate finds the active cue at the instant in the current snapshot.
func (t *Tracker) Locate(at time.Duration) (srt.Cue, bool) {
	snap := t.snapshot.Load()
	if snap == nil {
		return srt.Cue{}, false
	}
	return Locate(*snap, at)
}
