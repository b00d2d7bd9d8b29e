package fx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedArithmetic(t *testing.T) {
	a := FromInt(3)
	b := FromInt(2)

	require.Equal(t, FromInt(5), a.Add(b))
	require.Equal(t, FromInt(1), a.Sub(b))
	require.Equal(t, FromInt(6), a.Mul(b))
	require.Equal(t, FromInt(-3), a.Neg())
}

func TestFixedDivRoundTrip(t *testing.T) {
	a := FromFloat(7.5)
	b := FromInt(2)
	got := a.Div(b).Float64()
	require.InDelta(t, 3.75, got, 1e-4)
}

func TestFixedSqrt(t *testing.T) {
	require.Equal(t, FromInt(3), FromInt(9).Sqrt())
	require.Equal(t, Zero, FromInt(-4).Sqrt())
	require.InDelta(t, 1.4142, FromInt(2).Sqrt().Float64(), 1e-3)
}

func TestFixedClamp(t *testing.T) {
	lo, hi := FromInt(0), FromInt(10)
	require.Equal(t, lo, FromInt(-5).Clamp(lo, hi))
	require.Equal(t, hi, FromInt(50).Clamp(lo, hi))
	require.Equal(t, FromInt(5), FromInt(5).Clamp(lo, hi))
}

func TestFixedChecksumDeterministic(t *testing.T) {
	a := FromFloat(1.25)
	c1 := a.Checksum(0)
	c2 := a.Checksum(0)
	require.Equal(t, c1, c2)

	b := FromFloat(1.26)
	require.NotEqual(t, a.Checksum(0), b.Checksum(0))
}

func TestFixedRawRoundTrip(t *testing.T) {
	a := FromFloat(42.5)
	require.Equal(t, a, FromRaw(a.Raw()))
}

func TestFixedMulWideIntermediate(t *testing.T) {
	// Large values that would overflow a naive 32-bit-scale multiply but
	// fit with the wider 128-bit intermediate this package uses.
	a := FromInt(1 << 20)
	b := FromFloat(0.5)
	require.Equal(t, FromInt(1<<19), a.Mul(b))
}
