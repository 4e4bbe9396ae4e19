package dca

// Side distinguishes the two trailing-stop state machines.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// Direction is the price direction of a trade relative to the previous
// trade on the same side.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
)

// streak carries the consecutive same-direction trade state for one side.
// hasLast doubles as the "no trade yet" marker; when it is false the other
// fields are meaningless and never read.
type streak struct {
	side        Side
	count       int
	lastPrice   float64
	direction   Direction
	hasLast     bool
	trendBroken bool // a daily tick against the streak direction occurred
}

// effectiveDirection is the direction the streak is accumulating in. A
// single trade has no recorded direction yet; buys presumptively accumulate
// down and sells up until a second trade pins it.
func (s streak) effectiveDirection() Direction {
	if s.direction != DirNone {
		return s.direction
	}
	if s.side == Sell {
		return DirUp
	}
	return DirDown
}

// predict returns the streak count the trade at candidate price would have
// after executing. This predicted (post-trade) count, not the pre-trade
// count, sizes the grid for the trade about to execute.
func (s streak) predict(candidate float64) int {
	if !s.hasLast {
		return 1
	}
	if s.trendBroken {
		return 1
	}
	dir := DirDown
	if candidate > s.lastPrice {
		dir = DirUp
	}
	if dir != s.effectiveDirection() {
		return 1
	}
	return s.count + 1
}

// record updates the streak after an executed trade at the given price.
func (s *streak) record(price float64) {
	n := s.predict(price)
	if s.hasLast {
		if price > s.lastPrice {
			s.direction = DirUp
		} else {
			s.direction = DirDown
		}
	}
	s.count = n
	s.lastPrice = price
	s.hasLast = true
	s.trendBroken = false
}

// observe marks the streak broken when a daily close ticks against the
// streak direction. A broken streak reverts the next trade to the base
// spacing even if its price continues the old direction.
func (s *streak) observe(prevClose, close float64) {
	if !s.hasLast {
		return
	}
	switch s.effectiveDirection() {
	case DirDown:
		if close > prevClose {
			s.trendBroken = true
		}
	case DirUp:
		if close < prevClose {
			s.trendBroken = true
		}
	}
}

// reset clears the streak on an opposite-side trade.
func (s *streak) reset() {
	side := s.side
	*s = streak{side: side}
}

// RequiredPercent computes the grid spacing (buys) or profit requirement
// (sells) for a trade whose post-execution streak count is predicted.
// The increment applies only from the second consecutive same-direction
// trade on; a streak of 1 always pays the base percentage.
func RequiredPercent(base, increment float64, predicted int, incremental bool) float64 {
	if !incremental || predicted <= 1 {
		return base
	}
	return base + increment*float64(predicted-1)
}
