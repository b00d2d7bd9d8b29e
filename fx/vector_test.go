package fx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestV3AddSub(t *testing.T) {
	a := Vec3(FromInt(1), FromInt(2), FromInt(3))
	b := Vec3(FromInt(4), FromInt(5), FromInt(6))

	require.True(t, a.Add(b).Equal(Vec3(FromInt(5), FromInt(7), FromInt(9))))
	require.True(t, b.Sub(a).Equal(Vec3(FromInt(3), FromInt(3), FromInt(3))))
}

func TestV3Cross(t *testing.T) {
	got := V3Forward.Cross(V3Right)
	require.True(t, got.Equal(V3Up))
}

func TestV3NormalizeZero(t *testing.T) {
	require.True(t, V3Zero.Normalize().IsZero())
}

func TestV3NormalizeUnitLength(t *testing.T) {
	v := Vec3(FromInt(3), FromInt(4), Zero)
	n := v.Normalize()
	require.InDelta(t, 1.0, n.Length().Float64(), 1e-2)
}

func TestV3ChecksumStable(t *testing.T) {
	v := Vec3(FromInt(1), FromInt(2), FromInt(3))
	require.Equal(t, v.Checksum(0), v.Checksum(0))
}
