package fx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinCosDegKeyAngles(t *testing.T) {
	require.InDelta(t, 0.0, SinDeg(FromInt(0)).Float64(), 1e-3)
	require.InDelta(t, 1.0, SinDeg(FromInt(90)).Float64(), 1e-3)
	require.InDelta(t, 0.0, SinDeg(FromInt(180)).Float64(), 1e-3)
	require.InDelta(t, -1.0, SinDeg(FromInt(270)).Float64(), 1e-3)

	require.InDelta(t, 1.0, CosDeg(FromInt(0)).Float64(), 1e-3)
	require.InDelta(t, 0.0, CosDeg(FromInt(90)).Float64(), 1e-3)
	require.InDelta(t, -1.0, CosDeg(FromInt(180)).Float64(), 1e-3)
}

func TestSinDegDeterministic(t *testing.T) {
	angle := FromFloat(37.0)
	require.Equal(t, SinDeg(angle), SinDeg(angle))
}

func TestNormalizeAxis(t *testing.T) {
	require.InDelta(t, -10.0, NormalizeAxis(FromInt(350)).Float64(), 1e-3)
	require.InDelta(t, 90.0, NormalizeAxis(FromInt(90)).Float64(), 1e-3)
}

func TestClampAxis(t *testing.T) {
	require.InDelta(t, 10.0, ClampAxis(FromInt(370)).Float64(), 1e-3)
	require.InDelta(t, 350.0, ClampAxis(FromInt(-10)).Float64(), 1e-3)
}

func TestAtanDegQuadrants(t *testing.T) {
	require.InDelta(t, 45.0, AtanDeg(One, One).Float64(), 1.0)
	require.InDelta(t, 135.0, AtanDeg(One, FromInt(-1)).Float64(), 1.0)
	require.InDelta(t, -45.0, AtanDeg(FromInt(-1), One).Float64(), 1.0)
}
