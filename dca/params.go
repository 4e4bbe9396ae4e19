package dca

import "fmt"

// OrderType selects how a trailing stop behaves once activated.
// Limit orders are cancelled when price runs past the extreme recorded at
// activation; market orders always fire once the trigger is crossed.
type OrderType int

const (
	Limit OrderType = iota
	Market
)

func (o OrderType) String() string {
	if o == Market {
		return "market"
	}
	return "limit"
}

// ProfileParams is the subset of parameters a profile switch overrides
// wholesale when the adaptive overlay is engaged.
type ProfileParams struct {
	BuyActivationPct  float64
	SellActivationPct float64
	ReboundPct        float64
	PullbackPct       float64
	ProfitPct         float64
}

// Params is the flat per-instrument trading configuration. It is immutable
// for the life of a run: overlays never write back into it. Each simulated
// day the executor resolves base -> profile -> momentum into a fresh
// Effective value instead.
type Params struct {
	LotSize float64 // dollars committed per buy
	MaxLots int

	GridPct   float64 // min drop from the last buy for the next buy
	ProfitPct float64 // min gain over cost for a sell

	BuyActivationPct  float64 // rebound off the tracked bottom that arms a buy stop
	SellActivationPct float64 // pullback off the tracked peak that arms a sell stop
	ReboundPct        float64 // buy trigger distance above the current price
	PullbackPct       float64 // sell trigger distance below the current price

	GridIncremental    bool
	GridIncrementPct   float64
	ProfitIncremental  bool
	ProfitIncrementPct float64

	MaxSellLots int // lots sold per sell execution, whole lots only
	OrderType   OrderType

	Adaptive bool // position-status gating + profile switching
	Momentum bool // zero activation, no averaging down at a loss

	WinThresholdPct float64 // unrealized P&L ratio separating winning/losing from neutral

	// Profile overrides, used only when Adaptive is set. Nil fields fall
	// back to Defaults().
	Conservative *ProfileParams
	Aggressive   *ProfileParams
}

// Defaults mirrors the stock parameterization: 10% grid, 5% profit target,
// one lot of $10,000, up to 10 lots.
func Defaults() Params {
	return Params{
		LotSize:            10_000,
		MaxLots:            10,
		GridPct:            0.10,
		ProfitPct:          0.05,
		BuyActivationPct:   0.02,
		SellActivationPct:  0.02,
		ReboundPct:         0.01,
		PullbackPct:        0.01,
		GridIncrementPct:   0.05,
		ProfitIncrementPct: 0.02,
		MaxSellLots:        1,
		OrderType:          Limit,
		WinThresholdPct:    0.01,
	}
}

// Validate reports the first configuration error. Configuration errors are
// fatal to the run and surface before any day is simulated.
func (p Params) Validate() error {
	if p.LotSize <= 0 {
		return fmt.Errorf("lot size must be positive, got %.2f", p.LotSize)
	}
	if p.MaxLots <= 0 {
		return fmt.Errorf("max lots must be positive, got %d", p.MaxLots)
	}
	if p.GridPct <= 0 || p.GridPct > 1 {
		return fmt.Errorf("grid percent must be in (0,1], got %.4f", p.GridPct)
	}
	if p.ProfitPct <= 0 || p.ProfitPct > 1 {
		return fmt.Errorf("profit percent must be in (0,1], got %.4f", p.ProfitPct)
	}
	if p.BuyActivationPct < 0 || p.SellActivationPct < 0 {
		return fmt.Errorf("activation percents must be non-negative")
	}
	if p.ReboundPct < 0 || p.PullbackPct < 0 {
		return fmt.Errorf("rebound/pullback percents must be non-negative")
	}
	if p.GridIncremental && p.GridIncrementPct <= 0 {
		return fmt.Errorf("grid increment must be positive when incremental grid is enabled")
	}
	if p.ProfitIncremental && p.ProfitIncrementPct <= 0 {
		return fmt.Errorf("profit increment must be positive when incremental profit is enabled")
	}
	if p.MaxSellLots <= 0 {
		return fmt.Errorf("max sell lots must be positive, got %d", p.MaxSellLots)
	}
	if p.WinThresholdPct < 0 {
		return fmt.Errorf("winning threshold must be non-negative")
	}
	return nil
}

// Effective is the parameter set actually in force on one simulated day,
// resolved fresh from the base Params plus any engaged overlays. It is a
// value type; nothing holds a reference past the day it was resolved for.
type Effective struct {
	LotSize float64
	MaxLots int

	GridPct   float64
	ProfitPct float64

	BuyActivationPct  float64
	SellActivationPct float64
	ReboundPct        float64
	PullbackPct       float64

	GridIncremental    bool
	GridIncrementPct   float64
	ProfitIncremental  bool
	ProfitIncrementPct float64

	MaxSellLots int
	OrderType   OrderType

	Adaptive bool
	Momentum bool

	WinThresholdPct float64
}

// resolve layers base -> profile -> momentum into an Effective value.
// The base Params is never mutated.
func resolve(base Params, prof Profile) Effective {
	eff := Effective{
		LotSize:            base.LotSize,
		MaxLots:            base.MaxLots,
		GridPct:            base.GridPct,
		ProfitPct:          base.ProfitPct,
		BuyActivationPct:   base.BuyActivationPct,
		SellActivationPct:  base.SellActivationPct,
		ReboundPct:         base.ReboundPct,
		PullbackPct:        base.PullbackPct,
		GridIncremental:    base.GridIncremental,
		GridIncrementPct:   base.GridIncrementPct,
		ProfitIncremental:  base.ProfitIncremental,
		ProfitIncrementPct: base.ProfitIncrementPct,
		MaxSellLots:        base.MaxSellLots,
		OrderType:          base.OrderType,
		Adaptive:           base.Adaptive,
		Momentum:           base.Momentum,
		WinThresholdPct:    base.WinThresholdPct,
	}

	if base.Adaptive {
		var pp *ProfileParams
		switch prof {
		case ProfileAggressive:
			pp = base.Aggressive
		case ProfileConservative:
			pp = base.Conservative
		}
		if pp != nil {
			eff.BuyActivationPct = pp.BuyActivationPct
			eff.SellActivationPct = pp.SellActivationPct
			eff.ReboundPct = pp.ReboundPct
			eff.PullbackPct = pp.PullbackPct
			eff.ProfitPct = pp.ProfitPct
		}
	}

	if base.Momentum {
		// Momentum mode arms stops on any adverse extreme.
		eff.BuyActivationPct = 0
		eff.SellActivationPct = 0
	}

	return eff
}
