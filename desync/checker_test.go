package desync

import (
	"testing"

	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/rlog"
	"github.com/stretchr/testify/require"
)

func TestCheckerNotReadyUntilBothSidesProvided(t *testing.T) {
	c := New(rlog.Nop{})
	require.False(t, c.IsReady())

	c.ProvideLocalChecksum(0, 123)
	require.False(t, c.IsReady())

	c.ProvideRemoteHostChecksum(0, 123)
	require.True(t, c.IsReady())
}

func TestCheckerDetectsMatch(t *testing.T) {
	c := New(rlog.Nop{})
	c.ProvideLocalChecksum(0, 123)
	c.ProvideRemoteHostChecksum(0, 123)

	require.False(t, c.DidDesyncOccur())
	require.Equal(t, uint32(123), c.LocalChecksum())
	require.Equal(t, uint32(123), c.HostChecksum())
}

func TestCheckerDetectsMismatch(t *testing.T) {
	c := New(rlog.Nop{})
	c.ProvideLocalChecksum(0, 123)
	c.ProvideRemoteHostChecksum(0, 456)

	require.True(t, c.IsReady())
	require.True(t, c.DidDesyncOccur())
}

func TestCheckerAdvancesToNewFrame(t *testing.T) {
	c := New(rlog.Nop{})
	c.ProvideLocalChecksum(0, 1)
	c.ProvideRemoteHostChecksum(0, 1)
	c.DidDesyncOccur()

	c.ProvideLocalChecksum(1, 2)
	require.Equal(t, input.Frame(1), c.TargetFrame())
	require.False(t, c.IsReady())
}
