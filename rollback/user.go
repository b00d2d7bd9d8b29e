package rollback

import (
	"github.com/nomadcore/rollback/input"
)

// User is the gameplay and transport adapter the Controller consumes. The
// host implements this; the core never reaches past it into actual
// simulation state, rendering, or networking.
type User[S any] interface {
	// GenerateSnapshot must fill a complete, self-contained record of the
	// simulation state entering frame. Called at the start of each new
	// tick and after each re-simulation step during a rollback.
	GenerateSnapshot(frame input.Frame) S

	// RestoreSnapshot must replace live simulation state with snap's
	// contents. Called once at the start of a rollback.
	RestoreSnapshot(frame input.Frame, snap S)

	// GetInputForNextFrame returns the local spot's input for frame and
	// true, or a zero value and false if the input source is exhausted
	// (e.g. a replay has ended).
	GetInputForNextFrame(frame input.Frame) (input.CharacterInput, bool)

	// ProcessFrame advances simulation by exactly one tick during normal
	// (non-rollback) tick progression. inputs is order-stable: index i is
	// the input for spot i.
	ProcessFrame(frame input.Frame, inputs []input.CharacterInput)

	// ProcessFrameWithoutRendering is identical to ProcessFrame except it
	// is used for re-simulation during a rollback — implementations must
	// not emit renderer or audio events from here.
	ProcessFrameWithoutRendering(frame input.Frame, inputs []input.CharacterInput)

	// OnPostRollback is called exactly once per rollback, after the last
	// re-simulation step, so the renderer can reconcile visible state.
	OnPostRollback()

	// SendLocalInputs is called each tick so the host's transport can
	// broadcast a fixed-size history of the local spot's last
	// MaxRollbackFrames inputs for redundancy against packet loss.
	SendLocalInputs(frame input.Frame, history []input.CharacterInput)

	// SendTimeQualityReport is called each tick so the host's transport
	// can send a timing/ping message used for clock drift management.
	SendTimeQualityReport(frame input.Frame)

	// SendValidationChecksum is called when a frame leaves the rollback
	// window, so the host's transport can broadcast it for desync
	// detection.
	SendValidationChecksum(frame input.Frame, checksum uint32)

	// OnStallingForRemoteInputs is called each stall tick, for UX
	// feedback (e.g. a "waiting for player..." indicator).
	OnStallingForRemoteInputs(info StallInfo)

	// OnInputsExitRollbackWindow is called once a frame becomes
	// permanently confirmed, for replay persistence.
	OnInputsExitRollbackWindow(frame input.Frame)

	// OnDesyncDetected is a diagnostic callback: the core never
	// auto-terminates a session on desync, the host decides.
	OnDesyncDetected(frame input.Frame, localChecksum, hostChecksum uint32)

	// OnProtocolFault reports a protocol-level error (peer input too far
	// behind the window, etc). Session termination is the host's call.
	OnProtocolFault(err error)
}
