package dca

import (
	"sort"
	"time"

	"github.com/rustyeddy/dcasim/internal/id"
)

// Lot is one discrete purchase. Lots are immutable once created and are
// removed whole when sold; there is no partial-lot selling.
type Lot struct {
	ID     int
	Date   time.Time
	Price  float64
	Shares float64
}

func (l Lot) CostBasis() float64 { return l.Price * l.Shares }

// Ledger holds the open lots for one instrument. Aggregates (average cost,
// cost basis, unrealized P&L) are always re-derived from the lots rather
// than patched incrementally, so they cannot drift.
type Ledger struct {
	lots []Lot
	seq  *id.Sequence
}

func NewLedger(seq *id.Sequence) *Ledger {
	return &Ledger{seq: seq}
}

func (g *Ledger) Count() int { return len(g.lots) }

// Lots returns a copy in purchase order, safe for snapshotting into
// transaction records.
func (g *Ledger) Lots() []Lot {
	out := make([]Lot, len(g.lots))
	copy(out, g.lots)
	return out
}

// Add opens a new lot and returns it.
func (g *Ledger) Add(date time.Time, price, shares float64) Lot {
	lot := Lot{
		ID:     g.seq.Next(),
		Date:   date,
		Price:  price,
		Shares: shares,
	}
	g.lots = append(g.lots, lot)
	return lot
}

// Remove deletes the lots with the given IDs, preserving the purchase order
// of the remainder. Unknown IDs are ignored.
func (g *Ledger) Remove(ids []int) []Lot {
	drop := make(map[int]struct{}, len(ids))
	for _, lotID := range ids {
		drop[lotID] = struct{}{}
	}

	var removed []Lot
	kept := g.lots[:0]
	for _, l := range g.lots {
		if _, ok := drop[l.ID]; ok {
			removed = append(removed, l)
			continue
		}
		kept = append(kept, l)
	}
	g.lots = kept
	return removed
}

func (g *Ledger) TotalShares() float64 {
	var n float64
	for _, l := range g.lots {
		n += l.Shares
	}
	return n
}

func (g *Ledger) CostBasis() float64 {
	var c float64
	for _, l := range g.lots {
		c += l.CostBasis()
	}
	return c
}

// AverageCost returns 0 for an empty ledger.
func (g *Ledger) AverageCost() float64 {
	shares := g.TotalShares()
	if shares == 0 {
		return 0
	}
	return g.CostBasis() / shares
}

func (g *Ledger) UnrealizedPL(price float64) float64 {
	return g.TotalShares()*price - g.CostBasis()
}

// ByPriceDesc returns the open lots ordered highest purchase price first,
// the order sells consume them in.
func (g *Ledger) ByPriceDesc() []Lot {
	out := g.Lots()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price > out[j].Price
		}
		return out[i].ID < out[j].ID
	})
	return out
}
