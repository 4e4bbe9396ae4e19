package dca

// StopOrder is one activated trailing stop. Field meanings per side:
//
//	buy:  Trigger sits above the price and only ever moves down as new
//	      bottoms are made; LimitRef is the peak recorded at activation and
//	      a limit order dies when price climbs back past it.
//	sell: Trigger sits below the price and only ever moves up as new peaks
//	      are made; LimitRef is the bottom recorded at activation and a
//	      limit order dies when price falls back past it.
type StopOrder struct {
	Side        Side
	Type        OrderType
	Trigger     float64
	Reference   float64 // favorable extreme tracked since activation
	ActivatedAt float64 // price on the day the order was created
	LimitRef    float64 // opposing extreme recorded at activation
}

// stopState is the per-side machine: Inactive -> Activated -> (Updated)* ->
// {Executed | Cancelled} -> Inactive. "No active order" is an explicit
// state, not a nil check scattered through the executor.
type stopState struct {
	side   Side
	active bool
	order  StopOrder
}

func (s *stopState) Active() bool { return s.active }

// Order returns the active order; the second result is false when the
// machine is inactive.
func (s *stopState) Order() (StopOrder, bool) {
	return s.order, s.active
}

// activate creates the order off the current price and the extremes carried
// forward from previous days.
func (s *stopState) activate(price, peak, bottom float64, eff Effective) {
	o := StopOrder{
		Side:        s.side,
		Type:        eff.OrderType,
		ActivatedAt: price,
	}
	if s.side == Buy {
		o.Trigger = price * (1 + eff.ReboundPct)
		o.Reference = bottom
		o.LimitRef = peak
	} else {
		o.Trigger = price * (1 - eff.PullbackPct)
		o.Reference = peak
		o.LimitRef = bottom
	}
	s.order = o
	s.active = true
}

// shouldActivate reports whether today's price has moved far enough against
// the carried-forward extreme to arm an order. With a zero activation
// percent (momentum mode) any non-extreme price qualifies.
func (s *stopState) shouldActivate(price, peak, bottom float64, eff Effective) bool {
	if s.active {
		return false
	}
	if s.side == Buy {
		return price >= bottom*(1+eff.BuyActivationPct)
	}
	return price <= peak*(1-eff.SellActivationPct)
}

// shouldCancel applies the limit-order bound: the order dies when price
// crosses back past the opposing extreme recorded at activation. Market
// orders are never cancelled this way.
func (s *stopState) shouldCancel(price float64) bool {
	if !s.active || s.order.Type != Limit {
		return false
	}
	if s.side == Buy {
		return price > s.order.LimitRef
	}
	return price < s.order.LimitRef
}

// triggered reports whether price has crossed the stop.
func (s *stopState) triggered(price float64) bool {
	if !s.active {
		return false
	}
	if s.side == Buy {
		return price >= s.order.Trigger
	}
	return price <= s.order.Trigger
}

// update tightens the trigger while price keeps moving favorably: new
// bottoms pull a buy trigger down, new peaks push a sell trigger up. The
// trigger never loosens.
func (s *stopState) update(price float64, eff Effective) {
	if !s.active {
		return
	}
	if s.side == Buy {
		if price < s.order.Reference {
			s.order.Reference = price
			if t := price * (1 + eff.ReboundPct); t < s.order.Trigger {
				s.order.Trigger = t
			}
		}
		return
	}
	if price > s.order.Reference {
		s.order.Reference = price
		if t := price * (1 - eff.PullbackPct); t > s.order.Trigger {
			s.order.Trigger = t
		}
	}
}

// cancel returns the machine to Inactive.
func (s *stopState) cancel() { s.active = false }
