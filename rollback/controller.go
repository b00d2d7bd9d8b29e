// Package rollback implements the Controller state machine: the
// tick / stall / rollback / re-simulate core that keeps a session's peers
// synchronized to bit-exact state while masking network latency. It is
// driven entirely by a single-threaded host tick loop — there is no
// internal locking and no goroutine of its own.
package rollback

import (
	"fmt"
	"math"

	"github.com/nomadcore/rollback/desync"
	"github.com/nomadcore/rollback/flexarray"
	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/inputmanager"
	"github.com/nomadcore/rollback/rlog"
	"github.com/nomadcore/rollback/rollconst"
	"github.com/nomadcore/rollback/snapshot"
)

// noFrame marks "no frame processed yet", matching the sentinel convention
// snapshot.Store uses internally.
const noFrame = input.Frame(math.MaxUint32)

// FrameTicker is implemented by fxevents.Tracker; Controller calls
// IncrementFrame once per processed tick if one is wired in.
// Wiring one is optional — a session with no fx to track can leave it nil.
type FrameTicker interface {
	IncrementFrame()
}

// checksummer is the optional interface a host's opaque snapshot type S can
// implement to participate in desync checking, following the same
// fold-into-an-accumulator convention as flexarray.Checksummer. A snapshot
// type that doesn't implement it simply never produces a validation
// checksum — no desync detection runs, but nothing else is affected.
type checksummer interface {
	Checksum(crc uint32) uint32
}

// Controller runs the rollback state machine over a host-defined snapshot
// type S. It holds no goroutine and does no I/O of its own — every
// externally-visible effect happens through User.
type Controller[S any] struct {
	logger    rlog.Logger
	user      User[S]
	settings  Settings
	localSpot input.Spot

	inputMgr      *inputmanager.Manager
	snapshots     *snapshot.Store[S]
	desyncChecker *desync.Checker
	eventTracker  FrameTicker

	tickIntervalMs    int64
	accumulatorMs     int64
	lastAdvanceMs     int64
	hasAdvancedBefore bool

	lastProcessedFrame input.Frame
	hasProcessedAny    bool

	pendingRollback      bool
	pendingRollbackFrame input.Frame

	ended bool
}

// New creates a Controller for a new session. tickIntervalMs is the host's
// fixed simulation step, in milliseconds (e.g. 1000/60 for a 60Hz game).
func New[S any](logger rlog.Logger, user User[S], settings Settings, localSpot input.Spot, tickIntervalMs int64) (*Controller[S], error) {
	if !input.IsValidTotalPlayers(settings.TotalPlayers) {
		return nil, fmt.Errorf("rollback: invalid total players setting: %d", settings.TotalPlayers)
	}
	if input.IsOutsideTotalPlayers(settings.TotalPlayers, localSpot) {
		return nil, fmt.Errorf("rollback: local spot %d outside total players %d", localSpot, settings.TotalPlayers)
	}
	if tickIntervalMs <= 0 {
		return nil, fmt.Errorf("rollback: tick interval must be positive, got %d", tickIntervalMs)
	}
	if settings.OnlineInputDelay > rollconst.MaxInputDelay {
		return nil, fmt.Errorf("rollback: online input delay %d exceeds max %d", settings.OnlineInputDelay, rollconst.MaxInputDelay)
	}
	if localDelay := settings.LocalInputDelay; localDelay > int(rollconst.MaxInputDelay) || localDelay < -int(rollconst.MaxInputDelay) {
		return nil, fmt.Errorf("rollback: local input delay %d exceeds max %d", localDelay, rollconst.MaxInputDelay)
	}

	inputMgr := inputmanager.New(logger)
	if !inputMgr.SetupForNewSession(settings.TotalPlayers) {
		return nil, fmt.Errorf("rollback: input manager setup failed")
	}

	return &Controller[S]{
		logger:             logger,
		user:               user,
		settings:           settings,
		localSpot:          localSpot,
		inputMgr:           inputMgr,
		snapshots:          snapshot.New[S](logger),
		desyncChecker:      desync.New(logger),
		tickIntervalMs:     tickIntervalMs,
		lastProcessedFrame: noFrame,
	}, nil
}

// SetEventTracker wires an optional fx event tracker; Controller advances
// it once per processed tick. Pass nil to disable.
func (c *Controller[S]) SetEventTracker(t FrameTicker) {
	c.eventTracker = t
}

// SessionInfo returns read-only session state for diagnostics/UI.
func (c *Controller[S]) SessionInfo() SessionInfo {
	last := c.lastProcessedFrame
	if !c.hasProcessedAny {
		last = 0
	}
	return SessionInfo{
		LocalSpot:     c.localSpot,
		TotalPlayers:  c.settings.TotalPlayers,
		LastFrame:     last,
		IsRollingBack: c.pendingRollback,
	}
}

// nextFrame is the frame number the next new tick would process.
func (c *Controller[S]) nextFrame() input.Frame {
	if !c.hasProcessedAny {
		return 0
	}
	return c.lastProcessedFrame + 1
}

// confirmedLowerBound is the oldest frame still inside the rollback window.
func (c *Controller[S]) confirmedLowerBound() input.Frame {
	if !c.hasProcessedAny || c.lastProcessedFrame < rollconst.MaxRollbackFrames {
		return 0
	}
	return c.lastProcessedFrame - rollconst.MaxRollbackFrames
}

// AddRemoteInput records spot's confirmed input for frame, as delivered by
// the host's transport from an InputUpdate message. If frame was already
// simulated using a different (predicted) value, this schedules a
// rollback to the earliest such disagreeing frame. Repeated delivery of
// an already-stored frame is an idempotent no-op.
//
// Callers must feed a message's input history oldest-frame-first: storage
// requires strictly sequential frame numbers per spot, and InputUpdate's
// redundant window exists precisely to let a lost single-frame message be
// filled in by the overlapping history of the next one.
func (c *Controller[S]) AddRemoteInput(frame input.Frame, spot input.Spot, in input.CharacterInput) {
	if c.hasProcessedAny && frame < c.confirmedLowerBound() {
		err := fmt.Errorf("rollback: input for frame %d from spot %d is too far behind window (confirmed lower bound %d)", frame, spot, c.confirmedLowerBound())
		c.logger.Errorf("%s", err)
		c.user.OnProtocolFault(err)
		return
	}

	needsRollback := false
	if c.hasProcessedAny && frame <= c.lastProcessedFrame && !c.inputMgr.HasConfirmedInputForFrame(frame, spot) {
		if predicted, ok := c.inputMgr.GetInputForFrame(frame, spot); ok && !predicted.Equal(in) {
			needsRollback = true
		}
	}

	c.inputMgr.AddInput(frame, spot, in)

	if needsRollback && (!c.pendingRollback || frame < c.pendingRollbackFrame) {
		c.pendingRollback = true
		c.pendingRollbackFrame = frame
	}
}

// ProvideRemoteValidationChecksum records a remote host's checksum for a
// confirmed frame so the desync checker can compare it against the local
// value computed when that frame left the rollback window.
func (c *Controller[S]) ProvideRemoteValidationChecksum(frame input.Frame, checksum uint32) {
	c.desyncChecker.ProvideRemoteHostChecksum(frame, checksum)
	c.checkDesync()
}

func (c *Controller[S]) checkDesync() {
	if !c.desyncChecker.IsReady() {
		return
	}
	frame := c.desyncChecker.TargetFrame()
	localChecksum := c.desyncChecker.LocalChecksum()
	hostChecksum := c.desyncChecker.HostChecksum()
	if c.desyncChecker.DidDesyncOccur() {
		c.user.OnDesyncDetected(frame, localChecksum, hostChecksum)
	}
}

// EndSession resets all internal state. Valid from any sub-mode; the only
// cancellation point.
func (c *Controller[S]) EndSession() {
	c.inputMgr.SetupForNewSession(c.settings.TotalPlayers)
	c.snapshots.OnSessionStart()
	c.desyncChecker = desync.New(c.logger)
	c.lastProcessedFrame = noFrame
	c.hasProcessedAny = false
	c.pendingRollback = false
	c.accumulatorMs = 0
	c.hasAdvancedBefore = false
	c.ended = false
}

// tickOutcome is the internal result of attempting to process one new tick.
type tickOutcome int

const (
	tickProcessed tickOutcome = iota
	tickStalled
	tickEnded
)

// Advance is the core per-slice entry point. The host calls it once
// per wall-clock update with the current time in milliseconds; Advance
// determines how many simulation ticks are due and processes as many as it
// can before stalling, rolling back, ending, or running dry.
func (c *Controller[S]) Advance(nowMs int64) AdvanceResult {
	if c.ended {
		return AdvanceResult{Kind: Ended, LastFrame: c.safeLastFrame()}
	}

	if c.pendingRollback {
		frame := c.performRollback()
		return AdvanceResult{Kind: RolledBack, RollbackFrame: frame, LastFrame: c.safeLastFrame()}
	}

	if !c.hasAdvancedBefore {
		c.lastAdvanceMs = nowMs
		c.hasAdvancedBefore = true
	}
	c.accumulatorMs += nowMs - c.lastAdvanceMs
	c.lastAdvanceMs = nowMs

	processed := 0
	for c.accumulatorMs >= c.tickIntervalMs {
		outcome, stallInfo := c.tryProcessNextTick()

		switch outcome {
		case tickStalled:
			c.user.OnStallingForRemoteInputs(stallInfo)
			return AdvanceResult{Kind: Stall, TicksProcessed: processed, StallInfo: stallInfo, LastFrame: c.safeLastFrame()}

		case tickEnded:
			c.ended = true
			return AdvanceResult{Kind: Ended, TicksProcessed: processed, LastFrame: c.safeLastFrame()}
		}

		c.accumulatorMs -= c.tickIntervalMs
		processed++

		// A remote disagreement may have been registered mid-frame by a
		// host callback that delivers network messages synchronously;
		// in that case stop producing further new ticks this slice so
		// the rollback can run before we build on top of a misprediction.
		if c.pendingRollback {
			break
		}
	}

	return AdvanceResult{Kind: Proceed, TicksProcessed: processed, LastFrame: c.safeLastFrame()}
}

func (c *Controller[S]) safeLastFrame() input.Frame {
	if !c.hasProcessedAny {
		return 0
	}
	return c.lastProcessedFrame
}

// tryProcessNextTick runs steps 2-9 of Advance for a single new frame.
func (c *Controller[S]) tryProcessNextTick() (tickOutcome, StallInfo) {
	nextFrame := c.nextFrame()

	// Step 2: local input gathering.
	localIn, ok := c.user.GetInputForNextFrame(nextFrame)
	if !ok {
		return tickEnded, StallInfo{}
	}

	// Lockstep mode: stall until every remote spot has this exact frame.
	if c.settings.UseLockstep {
		if waiting, ok := c.lockstepWaitingSpots(nextFrame); !ok {
			return tickStalled, StallInfo{TargetFrame: nextFrame, WaitingOnSpots: waiting}
		}
	}

	// Step 3: stall test.
	waiting := flexarray.New[input.Spot](input.MaxPlayers)
	if c.inputMgr.IsAnyPlayerOutsideGetRange(nextFrame, waiting) {
		return tickStalled, StallInfo{TargetFrame: nextFrame, WaitingOnSpots: waiting.ToSlice()}
	}

	// Step 4: store local input. Storage always happens at the true,
	// unshifted frame; any delay is applied later, on the read side, by
	// frameInputs looking further back into history.
	c.inputMgr.AddInput(nextFrame, c.localSpot, localIn)

	// Step 5: snapshot.
	snap := c.user.GenerateSnapshot(nextFrame)
	c.snapshots.Store(nextFrame, &snap)

	// Step 6: simulate.
	c.user.ProcessFrame(nextFrame, c.frameInputs(nextFrame))

	// Step 7: effect window.
	if c.eventTracker != nil {
		c.eventTracker.IncrementFrame()
	}

	c.lastProcessedFrame = nextFrame
	c.hasProcessedAny = true

	// Step 8: broadcast.
	c.broadcastAfterTick(nextFrame, localIn)

	// Step 9 is implicit: lastProcessedFrame is now nextFrame.

	if c.settings.UseSyncTest {
		c.runSyncTestCheck(nextFrame)
	}

	return tickProcessed, StallInfo{}
}

// lockstepWaitingSpots reports, for lockstep mode, whether every remote
// spot already has a confirmed (not predicted) input for frame.
func (c *Controller[S]) lockstepWaitingSpots(frame input.Frame) ([]input.Spot, bool) {
	var waiting []input.Spot
	for i := uint8(0); i < c.settings.TotalPlayers; i++ {
		spot := input.Spot(i)
		if spot == c.localSpot {
			continue
		}
		if !c.inputMgr.HasConfirmedInputForFrame(frame, spot) {
			waiting = append(waiting, spot)
		}
	}
	return waiting, len(waiting) == 0
}

// broadcastAfterTick runs step 8: local-input history broadcast, timing
// report, and — if a frame is about to leave the rollback window —
// validation checksum broadcast plus the confirmation invariant check.
func (c *Controller[S]) broadcastAfterTick(frame input.Frame, localIn input.CharacterInput) {
	history := c.localInputHistory(frame)
	c.user.SendLocalInputs(frame, history)
	c.user.SendTimeQualityReport(frame)

	if frame < rollconst.MaxRollbackFrames {
		return
	}
	confirmedFrame := frame - rollconst.MaxRollbackFrames

	if c.inputMgr.DoesAnyPlayerLackInputForFrame(confirmedFrame) {
		err := fmt.Errorf("rollback: frame %d lacks input for some player at confirmation time, session cannot continue", confirmedFrame)
		c.logger.Errorf("%s", err)
		c.user.OnProtocolFault(err)
		return
	}

	if snap, ok := c.snapshots.Get(confirmedFrame); ok {
		if cs, ok := any(snap).(checksummer); ok {
			checksum := cs.Checksum(0)
			c.desyncChecker.ProvideLocalChecksum(confirmedFrame, checksum)
			c.user.SendValidationChecksum(confirmedFrame, checksum)
			c.checkDesync()
		}
	}

	c.user.OnInputsExitRollbackWindow(confirmedFrame)
}

// localInputHistory builds the fixed-size redundant input history the host
// broadcasts each tick as an InputUpdate: index 0 is frame's input, index i
// is (frame-i)'s.
func (c *Controller[S]) localInputHistory(frame input.Frame) []input.CharacterInput {
	history := make([]input.CharacterInput, rollconst.MaxRollbackFrames)
	for i := 0; i < rollconst.MaxRollbackFrames; i++ {
		f := frame - input.Frame(i)
		if i > 0 && f > frame {
			break // underflowed past frame 0
		}
		in, ok := c.inputMgr.GetInputForFrame(f, c.localSpot)
		if !ok {
			break
		}
		history[i] = in
	}
	return history
}

// runSyncTestCheck implements SyncTest mode: re-derive the frame
// just processed from its own snapshot and compare the checksum of the
// resulting state with that of the state the normal pass produced, without
// letting the re-simulated result leave the rollback window or reach the
// renderer.
func (c *Controller[S]) runSyncTestCheck(frame input.Frame) {
	snap, ok := c.snapshots.Get(frame)
	if !ok {
		return
	}
	firstChecksum, hasChecksum := checksumOf(c.user.GenerateSnapshot(frame))

	c.user.RestoreSnapshot(frame, snap)
	c.user.ProcessFrameWithoutRendering(frame, c.frameInputs(frame))
	resim := c.user.GenerateSnapshot(frame)
	c.user.OnPostRollback()

	if !hasChecksum {
		return
	}
	secondChecksum, ok := checksumOf(resim)
	if ok && firstChecksum != secondChecksum {
		c.user.OnDesyncDetected(frame, firstChecksum, secondChecksum)
	}
}

func checksumOf[S any](snap S) (uint32, bool) {
	if cs, ok := any(snap).(checksummer); ok {
		return cs.Checksum(0), true
	}
	return 0, false
}

// performRollback restores the earliest pending disagreeing frame's
// snapshot and resimulates up through lastProcessedFrame.
func (c *Controller[S]) performRollback() input.Frame {
	f := c.pendingRollbackFrame
	c.pendingRollback = false

	snap, ok := c.snapshots.Get(f)
	if !ok {
		c.logger.Errorf("rollback: no snapshot available for rollback target frame %d", f)
		return f
	}
	c.user.RestoreSnapshot(f, snap)

	// snapshot[f] already holds the entering-f state (the one just
	// restored) and must stay that way, matching the normal-path
	// convention that snapshot[x] is the state generated immediately
	// before process_frame(x) ran. So each iteration processes frame
	// using the entering state already in the store, then — before
	// moving on — stores the resulting entering-(frame+1) state under
	// frame+1, not under frame.
	for frame := f; frame <= c.lastProcessedFrame; frame++ {
		c.user.ProcessFrameWithoutRendering(frame, c.frameInputs(frame))

		if frame+1 <= c.lastProcessedFrame {
			next := c.user.GenerateSnapshot(frame + 1)
			c.snapshots.Store(frame+1, &next)
		}
	}

	c.user.OnPostRollback()
	return f
}

// simInputFrame returns the frame whose stored/predicted input should
// actually be used when simulating targetFrame for spot. OnlineInputDelay
// shifts every spot's input back uniformly, trading added latency for more
// lead time before a frame's input is needed by any peer. A positive
// LocalInputDelay additionally shifts only the local spot's own input,
// independent of the network-wide delay. Negative LocalInputDelay
// ("predict a future local input") contributes no shift; that path isn't
// implemented here, matching the source this was ported from.
func (c *Controller[S]) simInputFrame(targetFrame input.Frame, spot input.Spot) input.Frame {
	delay := c.settings.OnlineInputDelay
	if spot == c.localSpot && c.settings.LocalInputDelay > 0 {
		delay += input.Frame(c.settings.LocalInputDelay)
	}
	if targetFrame < delay {
		return 0
	}
	return targetFrame - delay
}

// frameInputs assembles the order-stable (index == spot) input set actually
// used to simulate frame, applying OnlineInputDelay to every spot and
// LocalInputDelay additionally to the local spot.
func (c *Controller[S]) frameInputs(frame input.Frame) []input.CharacterInput {
	out := make([]input.CharacterInput, c.settings.TotalPlayers)
	for i := uint8(0); i < c.settings.TotalPlayers; i++ {
		spot := input.Spot(i)
		in, _ := c.inputMgr.GetInputForFrame(c.simInputFrame(frame, spot), spot)
		out[i] = in
	}
	return out
}
