// Package inputmanager aggregates one PerPlayerInputs store per active
// spot in a session and produces the per-tick input set the controller
// hands to the host's Simulate callback.
package inputmanager

import (
	"github.com/nomadcore/rollback/flexarray"
	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/rlog"
)

// Manager holds one PerPlayerInputs store per active spot.
type Manager struct {
	logger       rlog.Logger
	perPlayer    [input.MaxPlayers]*input.PerPlayerInputs
	totalPlayers uint8
	initialized  bool
}

// New creates a Manager. Call SetupForNewSession before any other method.
func New(logger rlog.Logger) *Manager {
	return &Manager{logger: logger}
}

// SetupForNewSession validates totalPlayers and (re)initializes one store
// per active spot. totalPlayers must be set exactly once at session start.
func (m *Manager) SetupForNewSession(totalPlayers uint8) bool {
	m.initialized = false

	if !input.IsValidTotalPlayers(totalPlayers) {
		m.logger.Errorf("inputmanager: invalid total players setting: %d", totalPlayers)
		return false
	}

	m.totalPlayers = totalPlayers
	for i := uint8(0); i < totalPlayers; i++ {
		m.perPlayer[i] = input.NewPerPlayerInputs()
	}

	m.initialized = true
	return true
}

func (m *Manager) spotIndex(spot input.Spot) (int, bool) {
	idx := int(spot)
	if idx < 0 || idx >= int(m.totalPlayers) {
		m.logger.Warnf("inputmanager: spot %d out of range for %d total players", spot, m.totalPlayers)
		return 0, false
	}
	return idx, true
}

// AddInput records spot's confirmed input for targetFrame.
func (m *Manager) AddInput(targetFrame input.Frame, spot input.Spot, in input.CharacterInput) {
	if !m.initialized {
		m.logger.Warnf("inputmanager: not initialized")
		return
	}
	idx, ok := m.spotIndex(spot)
	if !ok {
		return
	}
	m.perPlayer[idx].AddInput(m.logger, targetFrame, in)
}

// GetInputForFrame returns spot's input (confirmed or predicted) for the
// given frame.
func (m *Manager) GetInputForFrame(targetFrame input.Frame, spot input.Spot) (input.CharacterInput, bool) {
	if !m.initialized {
		m.logger.Warnf("inputmanager: not initialized")
		return input.CharacterInput{}, false
	}
	idx, ok := m.spotIndex(spot)
	if !ok {
		return input.CharacterInput{}, false
	}
	return m.perPlayer[idx].GetInputForFrame(m.logger, targetFrame)
}

// InputsForFrame returns the order-stable (index == spot) set of inputs
// needed to process targetFrame, filling in predictions for any spot
// missing a confirmed input.
func (m *Manager) InputsForFrame(targetFrame input.Frame) *flexarray.Array[input.CharacterInput] {
	result := flexarray.New[input.CharacterInput](input.MaxPlayers)
	if !m.initialized {
		m.logger.Warnf("inputmanager: not initialized")
		return result
	}

	for i := uint8(0); i < m.totalPlayers; i++ {
		in, _ := m.GetInputForFrame(targetFrame, input.Spot(i))
		result.Add(in)
	}
	return result
}

// LastStoredFrameForSpot returns the most recently confirmed frame for spot.
func (m *Manager) LastStoredFrameForSpot(spot input.Spot) input.Frame {
	if !m.initialized {
		m.logger.Warnf("inputmanager: not initialized")
		return 0
	}
	idx, ok := m.spotIndex(spot)
	if !ok {
		return 0
	}
	return m.perPlayer[idx].LastStoredFrame()
}

// HasConfirmedInputForFrame reports whether spot has an explicitly
// confirmed (non-predicted) input stored for targetFrame.
func (m *Manager) HasConfirmedInputForFrame(targetFrame input.Frame, spot input.Spot) bool {
	if !m.initialized {
		m.logger.Warnf("inputmanager: not initialized")
		return false
	}
	idx, ok := m.spotIndex(spot)
	if !ok {
		return false
	}
	return m.perPlayer[idx].HasConfirmedInputForFrame(targetFrame)
}

// IsAnyPlayerOutsideGetRange reports whether targetFrame is beyond the
// window any active spot can supply input for, populating waitingSpots
// with every spot that's the cause (for stall telemetry).
func (m *Manager) IsAnyPlayerOutsideGetRange(targetFrame input.Frame, waitingSpots *flexarray.Array[input.Spot]) bool {
	if !m.initialized {
		m.logger.Warnf("inputmanager: not initialized")
		return false
	}

	isAnyMissing := false
	for i := uint8(0); i < m.totalPlayers; i++ {
		if m.perPlayer[i].IsFrameOutsideOfGetRange(targetFrame) {
			isAnyMissing = true
			if waitingSpots != nil {
				waitingSpots.Add(input.Spot(i))
			}
		}
	}
	return isAnyMissing
}

// DoesAnyPlayerLackInputForFrame reports whether any active spot has never
// had a confirmed input stored for targetFrame. Used as a strict invariant
// check right before a frame is permanently confirmed and exits the
// rollback window — if this ever returns true there, the session has
// irrecoverably lost an input.
func (m *Manager) DoesAnyPlayerLackInputForFrame(targetFrame input.Frame) bool {
	if !m.initialized {
		m.logger.Warnf("inputmanager: not initialized")
		return false
	}

	for i := uint8(0); i < m.totalPlayers; i++ {
		if !m.perPlayer[i].HasConfirmedInputForFrame(targetFrame) {
			return true
		}
	}
	return false
}

// TotalPlayers returns the configured total player count.
func (m *Manager) TotalPlayers() uint8 {
	return m.totalPlayers
}
