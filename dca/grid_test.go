package dca

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		predicted   int
		incremental bool
		want        float64
	}{
		{"flat grid ignores streak", 5, false, 0.10},
		{"first trade pays base", 1, true, 0.10},
		{"second trade", 2, true, 0.15},
		{"third trade", 3, true, 0.20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredPercent(0.10, 0.05, tt.predicted, tt.incremental)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestStreakPredictAndRecord(t *testing.T) {
	t.Parallel()

	s := streak{side: Buy}
	assert.Equal(t, 1, s.predict(100), "no history always predicts 1")

	s.record(100)
	// One trade pins no direction yet; buys presumptively accumulate down.
	assert.Equal(t, 2, s.predict(90))
	assert.Equal(t, 1, s.predict(110), "an up-trade starts a new streak")

	s.record(90)
	assert.Equal(t, DirDown, s.direction)
	assert.Equal(t, 3, s.predict(80))

	s.record(110) // direction flip restarts at 1
	assert.Equal(t, 1, s.count)
	assert.Equal(t, DirUp, s.direction)
}

func TestStreakTrendBreak(t *testing.T) {
	t.Parallel()

	s := streak{side: Buy}
	s.record(100)
	s.record(90)

	// A single up close against a down streak breaks it.
	s.observe(90, 91)
	assert.True(t, s.trendBroken)
	assert.Equal(t, 1, s.predict(80))

	// The next trade clears the broken flag.
	s.record(80)
	assert.False(t, s.trendBroken)
	assert.Equal(t, 1, s.count)

	// Continued favorable closes never break.
	s.observe(80, 79)
	assert.False(t, s.trendBroken)
}

func TestStreakSellSideDirection(t *testing.T) {
	t.Parallel()

	s := streak{side: Sell}
	s.record(100)
	// Sells presumptively accumulate up.
	assert.Equal(t, 2, s.predict(105))
	assert.Equal(t, 1, s.predict(95))

	// A down close against the up streak breaks it.
	s.observe(100, 99)
	assert.Equal(t, 1, s.predict(105))
}

func TestStreakResetKeepsSide(t *testing.T) {
	t.Parallel()

	s := streak{side: Sell}
	s.record(100)
	s.record(105)
	s.reset()

	assert.Equal(t, Sell, s.side)
	assert.False(t, s.hasLast)
	assert.Equal(t, 0, s.count)
	assert.Equal(t, 1, s.predict(200))
}
