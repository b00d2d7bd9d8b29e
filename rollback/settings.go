package rollback

import "github.com/nomadcore/rollback/input"

// Settings configures a Controller for a session. Every field must agree
// across peers.
type Settings struct {
	// TotalPlayers is the number of active player spots for this session.
	TotalPlayers uint8

	// LocalInputDelay adds extra artificial delay to the local spot's own
	// input only, on top of OnlineInputDelay, trading added local-input
	// latency for fewer local mispredictions. A negative value requests
	// the local input be predicted ahead of time rather than delayed;
	// that path isn't implemented (it wasn't in the source this was
	// ported from either) and is treated as 0.
	LocalInputDelay int

	// OnlineInputDelay is how many frames of artificial input delay to
	// apply uniformly to every spot, local and remote alike, trading
	// added latency for fewer rollbacks. May be 0.
	OnlineInputDelay input.Frame

	// UseSyncTest enables SyncTest mode: every frame is internally rolled
	// back and re-simulated to verify determinism, even with no remote
	// peers.
	UseSyncTest bool

	// UseLockstep enables Lockstep mode: Advance stalls each frame until
	// all remote inputs for that exact frame are present, equivalent to
	// an effective rollback window of 0.
	UseLockstep bool
}

// SessionInfo is read-only session state a host may want to surface in
// diagnostics or UI.
type SessionInfo struct {
	LocalSpot     input.Spot
	TotalPlayers  uint8
	LastFrame     input.Frame
	IsRollingBack bool
}

// StallInfo describes why Advance is stalling for a wall-clock slice.
type StallInfo struct {
	// TargetFrame is the frame that could not yet be processed.
	TargetFrame input.Frame

	// WaitingOnSpots lists the spots whose input isn't available yet.
	WaitingOnSpots []input.Spot
}
