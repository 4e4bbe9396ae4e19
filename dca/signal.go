package dca

// Stateless trigger evaluators. Both the standalone runner and the
// portfolio allocator go through the same executor, and the executor goes
// through these, so the two simulation modes cannot drift apart.

// SpacingSatisfied reports whether a buy at price honors the grid spacing
// below the previous buy. The first lot has no spacing requirement.
func SpacingSatisfied(price, lastBuyPrice float64, hasLast bool, requiredPct float64) bool {
	if !hasLast {
		return true
	}
	return price <= lastBuyPrice*(1-requiredPct)
}

// SpacingSatisfiedAbove is the averaging-up variant used by the adaptive
// overlay: the next buy must sit at least requiredPct above the previous
// one.
func SpacingSatisfiedAbove(price, lastBuyPrice float64, hasLast bool, requiredPct float64) bool {
	if !hasLast {
		return true
	}
	return price >= lastBuyPrice*(1+requiredPct)
}

// ProfitSatisfied reports whether selling at price clears the requirement
// over the given cost reference.
func ProfitSatisfied(price, cost, requiredPct float64) bool {
	if cost <= 0 {
		return false
	}
	return price >= cost*(1+requiredPct)
}

// EligibleLots selects the lots a sell at price may consume: those clearing
// the profit requirement against their own cost, or, while a consecutive
// sell streak is running, against the previous sell price. Highest-priced
// lots go first, capped at max.
func EligibleLots(lots []Lot, price, requiredPct, lastSellPrice float64, inStreak bool, max int) []Lot {
	var out []Lot
	for _, l := range lots {
		ok := ProfitSatisfied(price, l.Price, requiredPct)
		if !ok && inStreak {
			ok = ProfitSatisfied(price, lastSellPrice, requiredPct)
		}
		if ok {
			out = append(out, l)
		}
		if len(out) == max {
			break
		}
	}
	return out
}
