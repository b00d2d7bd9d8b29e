package input

import (
	"testing"

	"github.com/nomadcore/rollback/fx"
	"github.com/stretchr/testify/require"
)

func TestCommandSetHasWith(t *testing.T) {
	var c CommandSet
	require.False(t, c.Has(3))

	c = c.With(3)
	require.True(t, c.Has(3))
	require.False(t, c.Has(4))
}

func TestCharacterInputEqual(t *testing.T) {
	a := CharacterInput{MoveForward: fx.FromInt(1), UIChoice: UIChoiceOptionA}
	b := a
	require.True(t, a.Equal(b))

	b.MoveRight = fx.FromInt(1)
	require.False(t, a.Equal(b))
}

func TestCharacterInputChecksumDeterministic(t *testing.T) {
	a := CharacterInput{MoveForward: fx.FromInt(1), Commands: CommandSet(1).With(5)}
	require.Equal(t, a.Checksum(0), a.Checksum(0))

	b := a
	b.UIChoice = UIChoiceOptionB
	require.NotEqual(t, a.Checksum(0), b.Checksum(0))
}

func TestIsValidTotalPlayers(t *testing.T) {
	require.True(t, IsValidTotalPlayers(1))
	require.True(t, IsValidTotalPlayers(MaxPlayers))
	require.False(t, IsValidTotalPlayers(0))
	require.False(t, IsValidTotalPlayers(MaxPlayers+1))
}

func TestIsOutsideTotalPlayers(t *testing.T) {
	require.False(t, IsOutsideTotalPlayers(2, Player1))
	require.False(t, IsOutsideTotalPlayers(2, Player2))
	require.True(t, IsOutsideTotalPlayers(2, Player3))
}
