package rng

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitMix_Pure(t *testing.T) {
	src := SplitMix{}
	assert.Equal(t, src.Roll(42), src.Roll(42))
	assert.NotEqual(t, src.Roll(42), src.Roll(43))
}

func TestTurnSeed_Deterministic(t *testing.T) {
	createdAt := time.Unix(1_700_000_000, 0)

	a := TurnSeed("battle-1", createdAt, 3, 0)
	b := TurnSeed("battle-1", createdAt, 3, 0)
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, TurnSeed("battle-2", createdAt, 3, 0))
	assert.NotEqual(t, a, TurnSeed("battle-1", createdAt, 4, 0))
	assert.NotEqual(t, a, TurnSeed("battle-1", createdAt, 3, 1))
}

func TestTurnSeed_IgnoresSubSecond(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	later := time.Unix(1_700_000_000, 999_999_999)

	// Seeds depend only on whole seconds of the committed creation time.
	assert.Equal(t, TurnSeed("b", base, 1, 0), TurnSeed("b", later, 1, 0))
}

func TestPct(t *testing.T) {
	for _, v := range []uint64{0, 1, 99, 100, 101, 1 << 63} {
		assert.Less(t, Pct(v), uint64(100))
	}
	assert.Equal(t, uint64(99), Pct(199))
}

func TestRange(t *testing.T) {
	for _, v := range []uint64{0, 7, 8, 1 << 40} {
		assert.LessOrEqual(t, Range(v, 7), uint64(7))
	}
	assert.Equal(t, uint64(0), Range(10, 0))
}
