package input

import (
	"testing"

	"github.com/nomadcore/rollback/fx"
	"github.com/nomadcore/rollback/rlog"
	"github.com/stretchr/testify/require"
)

func TestPerPlayerInputsPredictsZeroBeforeAnyConfirmed(t *testing.T) {
	p := NewPerPlayerInputs()

	got, ok := p.GetInputForFrame(rlog.Nop{}, 0)
	require.True(t, ok)
	require.True(t, got.Equal(CharacterInput{}))
	require.False(t, p.HasConfirmedInputForFrame(0))
}

func TestPerPlayerInputsAddInputSequential(t *testing.T) {
	p := NewPerPlayerInputs()
	in0 := CharacterInput{MoveForward: fx.FromInt(1)}

	p.AddInput(rlog.Nop{}, 0, in0)
	require.True(t, p.HasConfirmedInputForFrame(0))
	require.Equal(t, Frame(0), p.LastStoredFrame())

	got, ok := p.GetInputForFrame(rlog.Nop{}, 0)
	require.True(t, ok)
	require.True(t, got.Equal(in0))
}

func TestPerPlayerInputsDuplicateAddIsNoOp(t *testing.T) {
	p := NewPerPlayerInputs()
	in0 := CharacterInput{MoveForward: fx.FromInt(1)}
	p.AddInput(rlog.Nop{}, 0, in0)

	// Re-delivering frame 0 (e.g. from a redundant history window) must
	// not advance storage or overwrite the confirmed value.
	p.AddInput(rlog.Nop{}, 0, CharacterInput{MoveForward: fx.FromInt(99)})

	require.Equal(t, Frame(0), p.LastStoredFrame())
	got, _ := p.GetInputForFrame(rlog.Nop{}, 0)
	require.True(t, got.Equal(in0))
}

func TestPerPlayerInputsGapAddIsIgnored(t *testing.T) {
	p := NewPerPlayerInputs()

	// Skipping ahead to frame 5 without ever storing 0..4 is a protocol
	// error from the caller and must be dropped, not silently accepted.
	p.AddInput(rlog.Nop{}, 5, CharacterInput{})

	require.False(t, p.HasConfirmedInputForFrame(5))
	require.False(t, p.HasConfirmedInputForFrame(0))
}

func TestPerPlayerInputsPredictsLatestConfirmedWithinWindow(t *testing.T) {
	p := NewPerPlayerInputs()
	in0 := CharacterInput{MoveForward: fx.FromInt(1)}
	p.AddInput(rlog.Nop{}, 0, in0)

	got, ok := p.GetInputForFrame(rlog.Nop{}, 3)
	require.True(t, ok)
	require.True(t, got.Equal(in0))
}

func TestPerPlayerInputsFrameBeyondWindowFails(t *testing.T) {
	p := NewPerPlayerInputs()

	_, ok := p.GetInputForFrame(rlog.Nop{}, 999)
	require.False(t, ok)
}

func TestPerPlayerInputsHistoryRetrievalAfterManyConfirms(t *testing.T) {
	p := NewPerPlayerInputs()
	for f := Frame(0); f < 5; f++ {
		p.AddInput(rlog.Nop{}, f, CharacterInput{MoveForward: fx.FromInt(int(f))})
	}

	for f := Frame(0); f < 5; f++ {
		got, ok := p.GetInputForFrame(rlog.Nop{}, f)
		require.True(t, ok)
		require.Equal(t, fx.FromInt(int(f)), got.MoveForward)
	}
}
