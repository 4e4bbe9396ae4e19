package dca

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/dcasim/internal/id"
)

func TestLedgerAggregates(t *testing.T) {
	t.Parallel()

	g := NewLedger(id.NewSequence())
	assert.Equal(t, 0, g.Count())
	assert.Equal(t, 0.0, g.AverageCost(), "empty ledger has no average cost")

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := g.Add(date, 100, 100)
	b := g.Add(date, 80, 125)

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
	assert.Equal(t, 2, g.Count())
	assert.InDelta(t, 225.0, g.TotalShares(), 1e-9)
	assert.InDelta(t, 20_000.0, g.CostBasis(), 1e-9)
	assert.InDelta(t, 20_000.0/225.0, g.AverageCost(), 1e-9)
	assert.InDelta(t, 225*90-20_000, g.UnrealizedPL(90), 1e-9)
}

func TestLedgerRemovePreservesOrder(t *testing.T) {
	t.Parallel()

	g := NewLedger(id.NewSequence())
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	g.Add(date, 100, 10)
	g.Add(date, 90, 10)
	g.Add(date, 80, 10)

	removed := g.Remove([]int{2, 99})
	assert.Len(t, removed, 1, "unknown IDs are ignored")
	assert.Equal(t, 2, removed[0].ID)

	left := g.Lots()
	assert.Len(t, left, 2)
	assert.Equal(t, 1, left[0].ID)
	assert.Equal(t, 3, left[1].ID)
}

func TestLedgerByPriceDesc(t *testing.T) {
	t.Parallel()

	g := NewLedger(id.NewSequence())
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	g.Add(date, 90, 10)  // ID 1
	g.Add(date, 100, 10) // ID 2
	g.Add(date, 90, 10)  // ID 3, price tie with ID 1

	got := g.ByPriceDesc()
	assert.Equal(t, []int{2, 1, 3}, []int{got[0].ID, got[1].ID, got[2].ID},
		"highest price first, earliest ID breaks ties")

	// The sort is on a copy; purchase order is untouched.
	assert.Equal(t, 1, g.Lots()[0].ID)
}
