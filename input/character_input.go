// Package input defines the per-frame per-player input record and the
// per-player confirmed/predicted input store it's kept in.
package input

import (
	"hash/crc32"

	"github.com/nomadcore/rollback/fx"
)

// UIChoice is a small enumerated interactive UI selection carried as part
// of a frame's input (e.g. a dialog/menu choice made on that tick).
type UIChoice uint8

const (
	UIChoiceNone UIChoice = iota
	UIChoiceOptionA
	UIChoiceOptionB
	UIChoiceOptionC
	UIChoiceOptionD
)

// CommandSet is a packed bitset of logical command buttons (up to 32
// independent commands). Kept separate from raw controller buttons so
// higher-level "attack", "block", "dash" commands can be derived once and
// replicated instead of re-deriving them from raw input after every
// rollback resimulation.
type CommandSet uint32

// Has reports whether bit is set.
func (c CommandSet) Has(bit uint) bool {
	return c&(1<<bit) != 0
}

// With returns a copy of c with bit set.
func (c CommandSet) With(bit uint) CommandSet {
	return c | (1 << bit)
}

// CharacterInput is the per-frame per-player input record. It is
// exact-byte comparable (no floats, no padding traps) and hashable for
// checksum purposes — every field is a fx.Fixed, fx.V3, fx.Q, or small
// integer enum.
type CharacterInput struct {
	CamPosition fx.V3
	CamRotation fx.Q
	MoveForward fx.Fixed // in [-1, 1]
	MoveRight   fx.Fixed // in [-1, 1]
	UIChoice    UIChoice
	Commands    CommandSet
}

// Equal reports exact field-by-field equality — the only form of equality
// this package uses, since CharacterInput carries no floats.
func (c CharacterInput) Equal(other CharacterInput) bool {
	return c.CamPosition.Equal(other.CamPosition) &&
		c.CamRotation.Equal(other.CamRotation) &&
		c.MoveForward == other.MoveForward &&
		c.MoveRight == other.MoveRight &&
		c.UIChoice == other.UIChoice &&
		c.Commands == other.Commands
}

// Checksum folds c's fields into the running CRC-32 accumulator.
func (c CharacterInput) Checksum(crc uint32) uint32 {
	crc = c.CamPosition.Checksum(crc)
	crc = c.CamRotation.Checksum(crc)
	crc = c.MoveForward.Checksum(crc)
	crc = c.MoveRight.Checksum(crc)

	var tail [5]byte
	tail[0] = byte(c.UIChoice)
	tail[1] = byte(c.Commands)
	tail[2] = byte(c.Commands >> 8)
	tail[3] = byte(c.Commands >> 16)
	tail[4] = byte(c.Commands >> 24)
	return crc32.Update(crc, crc32.IEEETable, tail[:])
}
