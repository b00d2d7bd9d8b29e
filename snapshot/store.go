// Package snapshot implements a ring of host-defined opaque gameplay
// snapshots keyed by frame. The snapshot type S is generic and entirely
// opaque to this package; S must be deep-copyable and byte-hashable,
// with no pointers into shared memory.
package snapshot

import (
	"math"

	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/ring"
	"github.com/nomadcore/rollback/rlog"
	"github.com/nomadcore/rollback/rollconst"
)

// noLatestFrame marks "nothing stored yet" the same way the original
// source does: the next frame to store is then 0 (noLatestFrame+1 wraps).
const noLatestFrame = input.Frame(math.MaxUint32)

// Store is a ring buffer of capacity rollconst.MaxRollbackFrames, keyed by
// frame number.
type Store[S any] struct {
	logger       rlog.Logger
	buf          *ring.Buffer[S]
	latestFrame  input.Frame
	hasAnyStored bool
}

// New creates a Store, already reset by OnSessionStart and ready to use.
func New[S any](logger rlog.Logger) *Store[S] {
	s := &Store[S]{
		logger: logger,
		buf:    ring.New[S](rollconst.MaxRollbackFrames),
	}
	s.OnSessionStart()
	return s
}

// OnSessionStart resets the store for a new session. The backing ring
// buffer itself is not cleared — its old contents are "noise" until
// overwritten.
func (s *Store[S]) OnSessionStart() {
	s.latestFrame = noLatestFrame
	s.hasAnyStored = false
}

// Store inserts snapshot for targetFrame. If targetFrame is exactly
// latest+1 it's appended (pushed); if it's <= latest (and within the
// window) it replaces the existing entry in place; otherwise it's a
// programming error (logged, no-op).
//
// snapshot is taken by pointer and swapped into the ring rather than
// copied, so the caller's value should be considered unusable afterward.
func (s *Store[S]) Store(targetFrame input.Frame, snap *S) {
	switch {
	case !s.hasAnyStored || targetFrame == s.latestFrame+1:
		s.buf.SwapInsert(snap)
		s.latestFrame = targetFrame
		s.hasAnyStored = true

	case s.inWindow(targetFrame):
		offset := s.offsetFor(targetFrame)
		s.buf.SwapReplace(offset, snap)

	default:
		s.logger.Errorf("snapshot: unexpected frame %d (latest stored %d)", targetFrame, s.latestFrame)
	}
}

func (s *Store[S]) inWindow(targetFrame input.Frame) bool {
	if !s.hasAnyStored {
		return false
	}
	if targetFrame > s.latestFrame {
		return false
	}
	return s.latestFrame-targetFrame <= rollconst.MaxRollbackFrames-1
}

func (s *Store[S]) offsetFor(targetFrame input.Frame) int {
	frameOffset := s.latestFrame - targetFrame
	if frameOffset > rollconst.MaxRollbackFrames {
		s.logger.Errorf("snapshot: retrieval frame %d beyond rollback window (latest %d)", targetFrame, s.latestFrame)
		return 0
	}
	return -int(frameOffset)
}

// Get returns the snapshot stored for targetFrame, and whether the
// retrieval succeeded. It fails if targetFrame is beyond the latest
// stored frame or has fallen out of the window.
func (s *Store[S]) Get(targetFrame input.Frame) (S, bool) {
	if !s.hasAnyStored || targetFrame > s.latestFrame {
		s.logger.Errorf("snapshot: retrieval frame %d greater than latest stored frame", targetFrame)
		var zero S
		return zero, false
	}
	if !s.inWindow(targetFrame) {
		s.logger.Errorf("snapshot: retrieval frame %d has fallen out of the rollback window", targetFrame)
		var zero S
		return zero, false
	}

	return s.buf.Get(s.offsetFor(targetFrame)), true
}

// LatestStoredFrame returns the most recently stored frame number, and
// whether anything has been stored yet.
func (s *Store[S]) LatestStoredFrame() (input.Frame, bool) {
	return s.latestFrame, s.hasAnyStored
}
