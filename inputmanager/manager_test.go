package inputmanager

import (
	"testing"

	"github.com/nomadcore/rollback/flexarray"
	"github.com/nomadcore/rollback/fx"
	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/rlog"
	"github.com/stretchr/testify/require"
)

func TestManagerSetupRejectsInvalidTotalPlayers(t *testing.T) {
	m := New(rlog.Nop{})
	require.False(t, m.SetupForNewSession(0))
	require.False(t, m.SetupForNewSession(input.MaxPlayers+1))
}

func TestManagerAddAndGetInput(t *testing.T) {
	m := New(rlog.Nop{})
	require.True(t, m.SetupForNewSession(2))

	in := input.CharacterInput{MoveForward: fx.FromInt(1)}
	m.AddInput(0, input.Player1, in)

	got, ok := m.GetInputForFrame(0, input.Player1)
	require.True(t, ok)
	require.True(t, got.Equal(in))
}

func TestManagerInputsForFrameIsOrderStable(t *testing.T) {
	m := New(rlog.Nop{})
	require.True(t, m.SetupForNewSession(2))

	m.AddInput(0, input.Player1, input.CharacterInput{MoveForward: fx.FromInt(1)})
	m.AddInput(0, input.Player2, input.CharacterInput{MoveForward: fx.FromInt(2)})

	set := m.InputsForFrame(0)
	require.Equal(t, 2, set.Len())
	require.Equal(t, fx.FromInt(1), set.Get(0).MoveForward)
	require.Equal(t, fx.FromInt(2), set.Get(1).MoveForward)
}

func TestManagerHasConfirmedInputForFrame(t *testing.T) {
	m := New(rlog.Nop{})
	require.True(t, m.SetupForNewSession(2))

	require.False(t, m.HasConfirmedInputForFrame(0, input.Player1))
	m.AddInput(0, input.Player1, input.CharacterInput{})
	require.True(t, m.HasConfirmedInputForFrame(0, input.Player1))
}

func TestManagerDoesAnyPlayerLackInputForFrame(t *testing.T) {
	m := New(rlog.Nop{})
	require.True(t, m.SetupForNewSession(2))

	require.True(t, m.DoesAnyPlayerLackInputForFrame(0))

	m.AddInput(0, input.Player1, input.CharacterInput{})
	require.True(t, m.DoesAnyPlayerLackInputForFrame(0)) // player2 still missing

	m.AddInput(0, input.Player2, input.CharacterInput{})
	require.False(t, m.DoesAnyPlayerLackInputForFrame(0))
}

func TestManagerIsAnyPlayerOutsideGetRange(t *testing.T) {
	m := New(rlog.Nop{})
	require.True(t, m.SetupForNewSession(1))

	waiting := flexarray.New[input.Spot](input.MaxPlayers)
	require.False(t, m.IsAnyPlayerOutsideGetRange(0, waiting))
	require.True(t, m.IsAnyPlayerOutsideGetRange(9999, waiting))
	require.Equal(t, 1, waiting.Len())
}

func TestManagerSpotOutOfRangeFails(t *testing.T) {
	m := New(rlog.Nop{})
	require.True(t, m.SetupForNewSession(1))

	_, ok := m.GetInputForFrame(0, input.Player2)
	require.False(t, ok)
}
