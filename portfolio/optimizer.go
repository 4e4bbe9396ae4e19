package portfolio

// CapitalOptimizer is the advisory idle-cash policy, consulted once per
// instrument-day before the executor's step runs. It may scale the lot
// size up when reserve cash is abundant and may ask the allocator to hold
// off selling. It never sees or mutates executor state.
type CapitalOptimizer interface {
	Adjust(cashReserve, baseLotSize float64) (lotSize float64, deferSell bool)
}

// NopOptimizer keeps the configured lot size.
type NopOptimizer struct{}

func (NopOptimizer) Adjust(_, baseLotSize float64) (float64, bool) {
	return baseLotSize, false
}

// IdleCashOptimizer boosts the lot size when the cash reserve exceeds a
// multiple of it. A Boost of 1.5 with Threshold 5 means: while more than
// five lots' worth of cash sits idle, buy half again as much per lot.
type IdleCashOptimizer struct {
	Threshold float64 // reserve measured in multiples of the base lot size
	Boost     float64 // lot size multiplier while over the threshold
}

func (o IdleCashOptimizer) Adjust(cashReserve, baseLotSize float64) (float64, bool) {
	if baseLotSize <= 0 || o.Boost <= 1 {
		return baseLotSize, false
	}
	if cashReserve > o.Threshold*baseLotSize {
		return baseLotSize * o.Boost, false
	}
	return baseLotSize, false
}
