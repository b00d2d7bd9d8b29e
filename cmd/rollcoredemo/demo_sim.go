package main

import (
	"hash/crc32"

	"github.com/nomadcore/rollback/fx"
	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/rlog"
	"github.com/nomadcore/rollback/rollback"
)

// DemoSnapshot is the toy simulation's complete, self-contained state: one
// fixed-point position per player spot. It implements the optional
// checksummer interface rollback.Controller looks for, so this demo
// exercises desync checking and sync-test mode for real.
type DemoSnapshot struct {
	Frame     input.Frame
	Positions [input.MaxPlayers]fx.V3
}

// Checksum folds the snapshot into a running CRC-32 accumulator.
func (s DemoSnapshot) Checksum(crc uint32) uint32 {
	var frameBuf [4]byte
	frameBuf[0] = byte(s.Frame)
	frameBuf[1] = byte(s.Frame >> 8)
	frameBuf[2] = byte(s.Frame >> 16)
	frameBuf[3] = byte(s.Frame >> 24)
	crc = crc32.Update(crc, crc32.IEEETable, frameBuf[:])

	for i := range s.Positions {
		crc = s.Positions[i].Checksum(crc)
	}
	return crc
}

// DemoEvent is a trivial fx event: a player crossed the origin. Tracked
// purely to exercise fxevents.Tracker end to end.
type DemoEvent struct {
	Spot  input.Spot
	Frame input.Frame
}

// demoSim holds the toy simulation's live, mutable state.
type demoSim struct {
	totalPlayers uint8
	positions    [input.MaxPlayers]fx.V3
}

func newDemoSim(totalPlayers uint8) *demoSim {
	return &demoSim{totalPlayers: totalPlayers}
}

// moveSpeed is how far a full-magnitude input moves a player in one tick.
var moveSpeed = fx.FromFloat(0.05)

func (s *demoSim) step(inputs []input.CharacterInput) {
	for i := 0; i < int(s.totalPlayers) && i < len(inputs); i++ {
		in := inputs[i]
		s.positions[i].X = s.positions[i].X.Add(in.MoveRight.Mul(moveSpeed))
		s.positions[i].Y = s.positions[i].Y.Add(in.MoveForward.Mul(moveSpeed))
	}
}

func (s *demoSim) snapshot(frame input.Frame) DemoSnapshot {
	return DemoSnapshot{Frame: frame, Positions: s.positions}
}

func (s *demoSim) restore(snap DemoSnapshot) {
	s.positions = snap.Positions
}

// demoUser implements rollback.User[DemoSnapshot] against demoSim, with
// a canned deterministic local input pattern (a slow circular drift)
// standing in for real player input.
type demoUser struct {
	logger    rlog.Logger
	sim       *demoSim
	localSpot input.Spot
}

func newDemoUser(logger rlog.Logger, sim *demoSim, localSpot input.Spot) *demoUser {
	return &demoUser{logger: logger, sim: sim, localSpot: localSpot}
}

func (u *demoUser) GenerateSnapshot(frame input.Frame) DemoSnapshot {
	return u.sim.snapshot(frame)
}

func (u *demoUser) RestoreSnapshot(frame input.Frame, snap DemoSnapshot) {
	u.sim.restore(snap)
}

func (u *demoUser) GetInputForNextFrame(frame input.Frame) (input.CharacterInput, bool) {
	angle := fx.FromInt(int(frame % 360))
	return input.CharacterInput{
		MoveForward: fx.SinDeg(angle),
		MoveRight:   fx.CosDeg(angle),
	}, true
}

func (u *demoUser) ProcessFrame(frame input.Frame, inputs []input.CharacterInput) {
	u.sim.step(inputs)
}

func (u *demoUser) ProcessFrameWithoutRendering(frame input.Frame, inputs []input.CharacterInput) {
	u.sim.step(inputs)
}

func (u *demoUser) OnPostRollback() {
	pos := u.sim.positions[u.localSpot]
	u.logger.Infof("demo: post-rollback reconciliation at local position (%s, %s)", pos.X, pos.Y)
}

func (u *demoUser) SendLocalInputs(frame input.Frame, history []input.CharacterInput) {
	// A real host hands this to its transport; see cmd/rollcoredemo's
	// peer-driven path for the networked case.
}

func (u *demoUser) SendTimeQualityReport(frame input.Frame) {}

func (u *demoUser) SendValidationChecksum(frame input.Frame, checksum uint32) {}

func (u *demoUser) OnStallingForRemoteInputs(info rollback.StallInfo) {}

func (u *demoUser) OnInputsExitRollbackWindow(frame input.Frame) {
	u.logger.Infof("demo: frame %d confirmed", frame)
}

func (u *demoUser) OnDesyncDetected(frame input.Frame, localChecksum, hostChecksum uint32) {
	u.logger.Errorf("demo: desync at frame %d: local=%08x host=%08x", frame, localChecksum, hostChecksum)
}

func (u *demoUser) OnProtocolFault(err error) {
	u.logger.Errorf("demo: protocol fault: %s", err)
}
