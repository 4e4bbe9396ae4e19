package dca

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpacingSatisfied(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		price   float64
		last    float64
		hasLast bool
		req     float64
		want    bool
	}{
		{"first lot is free", 500, 0, false, 0.10, true},
		{"exactly at spacing", 90, 100, true, 0.10, true},
		{"inside spacing", 91, 100, true, 0.10, false},
		{"well below", 70, 100, true, 0.10, true},
		{"wider requirement", 85, 100, true, 0.20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpacingSatisfied(tt.price, tt.last, tt.hasLast, tt.req))
		})
	}
}

func TestSpacingSatisfiedAbove(t *testing.T) {
	t.Parallel()

	assert.True(t, SpacingSatisfiedAbove(110, 100, true, 0.10))
	assert.False(t, SpacingSatisfiedAbove(109, 100, true, 0.10))
	assert.True(t, SpacingSatisfiedAbove(50, 0, false, 0.10))
}

func TestProfitSatisfied(t *testing.T) {
	t.Parallel()

	assert.True(t, ProfitSatisfied(105, 100, 0.05))
	assert.False(t, ProfitSatisfied(104.99, 100, 0.05))
	assert.False(t, ProfitSatisfied(100, 0, 0.05), "no cost reference means no sale")
}

func TestEligibleLots(t *testing.T) {
	t.Parallel()

	lots := []Lot{
		{ID: 3, Price: 102, Shares: 10},
		{ID: 1, Price: 100, Shares: 10},
		{ID: 2, Price: 80, Shares: 10},
	}

	t.Run("own-cost qualification", func(t *testing.T) {
		got := EligibleLots(lots, 103, 0.02, 0, false, 10)
		// 103 clears 100*1.02 and 80*1.02 but not 102*1.02.
		assert.Len(t, got, 2)
		assert.Equal(t, 1, got[0].ID)
		assert.Equal(t, 2, got[1].ID)
	})

	t.Run("streak relaxes to last sell price", func(t *testing.T) {
		got := EligibleLots(lots, 103, 0.02, 100, true, 10)
		// Against the 100 last-sell reference everything clears.
		assert.Len(t, got, 3)
		assert.Equal(t, 3, got[0].ID, "highest-priced lot goes first")
	})

	t.Run("cap", func(t *testing.T) {
		got := EligibleLots(lots, 200, 0.02, 0, false, 1)
		assert.Len(t, got, 1)
		assert.Equal(t, 3, got[0].ID)
	})

	t.Run("nothing qualifies", func(t *testing.T) {
		assert.Empty(t, EligibleLots(lots, 81, 0.02, 0, false, 10))
	})
}
