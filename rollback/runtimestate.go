package rollback

import (
	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/inputmanager"
	"github.com/nomadcore/rollback/snapshot"
)

// RuntimeState factors out everything about a session that changes frame to
// frame (input history, snapshot history, last-processed-frame pointer) from
// session-level configuration (Settings) and wall-clock tick bookkeeping.
// Separating it out lets a host inspect or persist the controller's
// rollback-relevant state without reaching into Controller's unexported
// fields, and keeps the door open for offline-replay-style tooling later.
type RuntimeState[S any] struct {
	InputManager *inputmanager.Manager
	Snapshots    *snapshot.Store[S]
	LastFrame    input.Frame
	HasProcessed bool
}

// RuntimeState returns a snapshot of the controller's frame-to-frame state.
// The returned value shares the underlying input manager and snapshot store
// with the controller; it is a read view, not a detached copy.
func (c *Controller[S]) RuntimeState() RuntimeState[S] {
	return RuntimeState[S]{
		InputManager: c.inputMgr,
		Snapshots:    c.snapshots,
		LastFrame:    c.lastProcessedFrame,
		HasProcessed: c.hasProcessedAny,
	}
}
