package lsi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidthFor(t *testing.T) {
	assert.Equal(t, uint(0), widthFor(nil))
	assert.Equal(t, uint(0), widthFor([]uint64{0, 0, 0}))
	assert.Equal(t, uint(1), widthFor([]uint64{0, 1}))
	assert.Equal(t, uint(8), widthFor([]uint64{0, 255}))
	assert.Equal(t, uint(9), widthFor([]uint64{256}))
	assert.Equal(t, uint(64), widthFor([]uint64{1 << 63}))
}

// TestBitPackedRoundTrip is property 7 from spec §8: for every w in [0,64]
// and every value vector, read-after-write equals identity.
func TestBitPackedRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for w := uint(0); w <= 64; w++ {
		for _, n := range []int{0, 1, 2, 10, 1000} {
			values := make([]uint64, n)
			mask := maskFor(w)
			for i := range values {
				values[i] = rng.Uint64() & mask
			}
			var buf []byte
			buf, bitOff := appendBitPacked(buf, values, w)
			lane := newBitPackedLane(buf, bitOff, w, n)
			for i, want := range values {
				require.Equal(t, want, lane.Get(i), "w=%d n=%d i=%d", w, n, i)
			}
		}
	}
}

// TestBitPackedShares verifies two lanes can share one backing buffer
// without corrupting each other, which PermVector relies on (spec §4.3).
func TestBitPackedShares(t *testing.T) {
	a := []uint64{1, 2, 3, 300, 4}
	b := []uint64{0, 1, 1, 0, 1}

	var buf []byte
	buf, aOff := appendBitPacked(buf, a, widthFor(a))
	buf, bOff := appendBitPacked(buf, b, widthFor(b))

	laneA := newBitPackedLane(buf, aOff, widthFor(a), len(a))
	laneB := newBitPackedLane(buf, bOff, widthFor(b), len(b))

	for i, want := range a {
		assert.Equal(t, want, laneA.Get(i))
	}
	for i, want := range b {
		assert.Equal(t, want, laneB.Get(i))
	}
}

func TestBitPackedSlop(t *testing.T) {
	values := []uint64{1, 2, 3}
	var buf []byte
	buf, _ = appendBitPacked(buf, values, 64)
	nBits := len(values) * 64
	nBytes := (nBits + 7) / 8
	assert.GreaterOrEqual(t, len(buf)-nBytes, 8, "must retain at least 8 bytes of slop padding")
}

func TestZeroWidthLaneAlwaysZero(t *testing.T) {
	var buf []byte
	buf, off := appendBitPacked(buf, []uint64{0, 0, 0}, 0)
	lane := newBitPackedLane(buf, off, 0, 3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, uint64(0), lane.Get(i))
	}
}
