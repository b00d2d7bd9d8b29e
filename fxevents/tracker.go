// Package fxevents tracks event-driven fx (sounds, visual effects) across
// the rollback window, so that after a rollback the renderer can tell
// effects that actually occurred in the corrected timeline apart from
// ones the canceled timeline merely predicted.
package fxevents

import (
	"github.com/nomadcore/rollback/flexarray"
	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/ring"
	"github.com/nomadcore/rollback/rollconst"
)

const (
	maxNewPerFrame   = 25
	maxAlivePerFrame = 50
	windowSize       = rollconst.MaxRollbackFrames*2 + 1
)

// FrameEvents holds the fx tracked for a single frame: events that start
// this frame (newEvents) and events that began in some previous frame and
// are still considered relevant (pastContinuingEvents).
type FrameEvents[E any] struct {
	NewEvents            *flexarray.Array[E]
	PastContinuingEvents *flexarray.Array[E]
}

func newFrameEvents[E any]() FrameEvents[E] {
	return FrameEvents[E]{
		NewEvents:            flexarray.New[E](maxNewPerFrame),
		PastContinuingEvents: flexarray.New[E](maxAlivePerFrame),
	}
}

func (f FrameEvents[E]) clear() {
	f.NewEvents.Reset()
	f.PastContinuingEvents.Reset()
}

// Tracker is a circular buffer of windowSize slots indexed by frame offset
// from the present (0 = now, -1..-R = past, +1..+R = reserved future).
type Tracker[E any] struct {
	buf *ring.Buffer[FrameEvents[E]]
}

// New creates a Tracker with every slot pre-allocated.
func New[E any]() *Tracker[E] {
	buf := ring.New[FrameEvents[E]](windowSize)
	for i := uint32(0); i < windowSize; i++ {
		buf.Push(newFrameEvents[E]())
	}
	return &Tracker[E]{buf: buf}
}

// IncrementFrame slides the present forward by one. The slot that rotates
// in as the new "+R" future slot is cleared.
func (t *Tracker[E]) IncrementFrame() {
	t.buf.IncrementHead()

	newFutureOffset := rollconst.MaxRollbackFrames
	t.buf.GetPtr(newFutureOffset).clear()
}

// AddNewFx records event as a new effect at offset 0 (this frame), and as
// a continuing effect at offsets 1..min(lifetime, R) so that — if a
// rollback later lands anywhere in that range — the renderer can tell the
// effect already happened rather than re-triggering it.
func (t *Tracker[E]) AddNewFx(event E, lifetime input.Frame) {
	t.buf.GetPtr(0).NewEvents.Add(event)

	limit := input.Frame(rollconst.MaxRollbackFrames) + 1
	for i := input.Frame(1); i <= lifetime && i < limit; i++ {
		t.buf.GetPtr(int(i)).PastContinuingEvents.Add(event)
	}
}

// CurrentFrameEvents returns the new and continuing events tracked for the
// present frame.
func (t *Tracker[E]) CurrentFrameEvents() FrameEvents[E] {
	return t.buf.Get(0)
}
