package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferPushGetLatest(t *testing.T) {
	b := New[int](4)
	b.Push(1)
	b.Push(2)
	b.Push(3)

	require.Equal(t, 3, b.Get(0))
	require.Equal(t, 2, b.Get(-1))
	require.Equal(t, 1, b.Get(-2))
}

func TestBufferWrapsAroundCapacity(t *testing.T) {
	b := New[int](3)
	b.Push(1)
	b.Push(2)
	b.Push(3)
	b.Push(4) // overwrites the slot that held 1

	require.Equal(t, 4, b.Get(0))
	require.Equal(t, 3, b.Get(-1))
	require.Equal(t, 2, b.Get(-2))
}

func TestBufferSetOverwritesRelativeSlot(t *testing.T) {
	b := New[int](3)
	b.Push(1)
	b.Push(2)
	b.Set(-1, 99)

	require.Equal(t, 99, b.Get(-1))
	require.Equal(t, 2, b.Get(0))
}

func TestBufferSwapInsertSwapsOldValue(t *testing.T) {
	b := New[int](2)
	b.Push(1)
	b.Push(2)

	incoming := 3
	b.SwapInsert(&incoming)

	require.Equal(t, 1, incoming) // the slot SwapInsert overwrote held 1
	require.Equal(t, 3, b.Get(0))
}

func TestBufferSwapReplaceDoesNotMoveHead(t *testing.T) {
	b := New[int](3)
	b.Push(1)
	b.Push(2)
	b.Push(3)

	replacement := 42
	b.SwapReplace(-1, &replacement)

	require.Equal(t, 2, replacement)
	require.Equal(t, 42, b.Get(-1))
	require.Equal(t, 3, b.Get(0)) // head slot untouched
}

func TestBufferIncrementHeadSlidesWindow(t *testing.T) {
	b := New[int](3)
	b.Push(1)
	b.Push(2)
	b.Push(3)
	b.IncrementHead()

	// The window has slid forward by one without a write, so offset 0 now
	// reads the slot that used to be the oldest (about to be overwritten).
	require.Equal(t, 1, b.Get(0))
}

func TestBufferChecksumVisitsEverySlot(t *testing.T) {
	b := New[int](4)
	b.Push(1)
	b.Push(2)

	visited := 0
	b.Checksum(0, func(crc uint32, v int) uint32 {
		visited++
		return crc + uint32(v)
	})
	require.Equal(t, 4, visited)
}

func TestBufferCap(t *testing.T) {
	b := New[int](7)
	require.Equal(t, uint32(7), b.Cap())
}
