package input

import (
	"github.com/nomadcore/rollback/ring"
	"github.com/nomadcore/rollback/rlog"
	"github.com/nomadcore/rollback/rollconst"
)

// Frame is a monotonically increasing unsigned frame counter. Wrap-around
// at 32 bits is permitted; comparisons that matter for correctness are
// always relative to a reference frame, never a naive "<".
type Frame = uint32

// bufferSize is MaxRollbackFrames+1: enough to hold the latest confirmed
// input plus one full rollback window's worth of history behind it.
const bufferSize = rollconst.MaxRollbackFrames + 1

// PerPlayerInputs stores the confirmed-input history for one player spot
// and implements the "repeat last known input" prediction policy.
// Frame numbers of stored inputs form a contiguous suffix
// [nextFrameToStore-len, nextFrameToStore).
type PerPlayerInputs struct {
	confirmed        *ring.Buffer[CharacterInput]
	nextFrameToStore Frame
	hasAnyConfirmed  bool
}

// NewPerPlayerInputs creates a store ready for a new session. The ring
// head always starts primed with one default-valued input so that frame 0
// can be retrieved as a prediction before any input has been confirmed.
func NewPerPlayerInputs() *PerPlayerInputs {
	p := &PerPlayerInputs{
		confirmed: ring.New[CharacterInput](bufferSize),
	}
	p.confirmed.Push(CharacterInput{})
	return p
}

// AddInput appends a confirmed input for exactly nextFrameToStore.
// A frame already stored is silently treated as a no-op — expected
// traffic given the redundant input-history window each network message
// carries. A frame ahead of nextFrameToStore is a genuine gap: a
// programming error, logged rather than panicking.
func (p *PerPlayerInputs) AddInput(logger rlog.Logger, targetFrame Frame, in CharacterInput) {
	if targetFrame < p.nextFrameToStore {
		return
	}
	if targetFrame > p.nextFrameToStore {
		logger.Warnf("input: unexpected frame given; expected %d, got %d", p.nextFrameToStore, targetFrame)
		return
	}

	p.confirmed.Push(in)
	p.nextFrameToStore++
	p.hasAnyConfirmed = true
}

// HasConfirmedInputForFrame reports whether targetFrame has an explicitly
// confirmed (non-predicted) input stored. Used instead of comparing
// against LastStoredFrame directly, since that comparison underflows
// before the very first input is ever confirmed.
func (p *PerPlayerInputs) HasConfirmedInputForFrame(targetFrame Frame) bool {
	return p.hasAnyConfirmed && targetFrame < p.nextFrameToStore
}

// GetInputForFrame returns the confirmed input for targetFrame if stored,
// the predicted input if targetFrame is within the prediction window, or
// the zero value with ok=false if targetFrame is beyond the window
// entirely.
func (p *PerPlayerInputs) GetInputForFrame(logger rlog.Logger, targetFrame Frame) (result CharacterInput, ok bool) {
	if targetFrame >= p.nextFrameToStore {
		if !p.IsFrameOutsideOfGetRange(targetFrame) {
			return p.predictedInput(), true
		}

		logger.Errorf("input: requested frame %d beyond stored window (next frame to store %d)", targetFrame, p.nextFrameToStore)
		return CharacterInput{}, false
	}

	offset, valid := p.offsetForFrame(logger, targetFrame)
	if !valid {
		return CharacterInput{}, false
	}
	return p.confirmed.Get(offset), true
}

// predictedInput always predicts that the player repeats their latest
// known confirmed input — in typical action-game pacing a player's
// intent changes far more slowly than the simulation rate, so this is
// accurate on most ticks.
func (p *PerPlayerInputs) predictedInput() CharacterInput {
	return p.confirmed.Get(0)
}

func (p *PerPlayerInputs) maxPredictionFrame() Frame {
	// No need to predict outside the rollback window — rollback isn't
	// supported beyond it anyway.
	return p.nextFrameToStore + rollconst.MaxRollbackFrames - 1
}

// IsFrameOutsideOfGetRange reports whether targetFrame is beyond the
// window this store can supply either a confirmed or predicted input for.
func (p *PerPlayerInputs) IsFrameOutsideOfGetRange(targetFrame Frame) bool {
	return targetFrame > p.maxPredictionFrame()
}

// LastStoredFrame returns the most recently confirmed frame number.
func (p *PerPlayerInputs) LastStoredFrame() Frame {
	return p.nextFrameToStore - 1
}

// offsetForFrame converts targetFrame (known to be < nextFrameToStore)
// into a ring buffer relative offset.
func (p *PerPlayerInputs) offsetForFrame(logger rlog.Logger, targetFrame Frame) (int, bool) {
	offset := p.nextFrameToStore - targetFrame - 1

	if offset > bufferSize {
		logger.Warnf("input: target frame %d outside intended storage window (offset %d)", targetFrame, offset)
		return 0, false
	}
	if offset > rollconst.MaxRollbackFrames {
		logger.Warnf("input: offset %d outside max rollback window for target frame %d", offset, targetFrame)
		return 0, false
	}

	return -int(offset), true
}
