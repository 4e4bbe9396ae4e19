package dca

import (
	"fmt"
	"time"

	"github.com/rustyeddy/dcasim/internal/id"
	"github.com/rustyeddy/dcasim/market"
)

// DayContext is supplied by the caller for each simulated day. The
// portfolio allocator uses BuyEnabled to gate buys when capital is gone,
// SellEnabled to honor a defer-selling advisory, and LotSize to apply an
// idle-cash adjustment for just this day.
type DayContext struct {
	BuyEnabled  bool
	SellEnabled bool
	LotSize     float64 // >0 overrides the configured lot size for today
}

// StandaloneDay is the context a single-instrument run uses: both sides
// enabled, configured lot size.
func StandaloneDay() DayContext {
	return DayContext{BuyEnabled: true, SellEnabled: true}
}

// BuyProposal is a candidate buy computed without mutating executor state.
// The caller either commits it (which creates the lot and the transaction)
// or rejects it (which leaves the ledger untouched). Exactly one of the two
// must be called before the next ProcessDay.
type BuyProposal struct {
	Symbol          string
	Date            time.Time
	Price           float64
	Shares          float64
	Value           float64
	RequirementPct  float64
	PredictedStreak int
}

// DayResult reports what one ProcessDay step did. At most one of Sell and
// Proposal is set: the executor emits zero or one transaction per day.
type DayResult struct {
	Sell     *Transaction
	Proposal *BuyProposal
	Status   PositionStatus
}

// extremes carries the recent peak/bottom reference. valid is false until
// the first day has been fully processed, so day one can never activate an
// order off its own price.
type extremes struct {
	peak   float64
	bottom float64
	valid  bool
}

// Executor is the per-instrument trading state machine. It is strictly
// sequential: one day's step, including any proposal commit or rejection,
// completes before the next day is processed.
type Executor struct {
	symbol string
	base   Params
	seq    *id.Sequence

	ledger   *Ledger
	realized float64
	txs      []Transaction

	buyStreak  streak
	sellStreak streak

	ext       extremes
	prevClose float64
	havePrev  bool

	buyStop  stopState
	sellStop stopState
	profile  profileState

	pending   *BuyProposal
	lastPrice float64
	days      int
}

// NewExecutor validates the parameters and builds an executor around a
// run-owned ID sequence.
func NewExecutor(symbol string, params Params, seq *id.Sequence) (*Executor, error) {
	if symbol == "" {
		return nil, fmt.Errorf("dca: symbol is required")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("dca %s: %w", symbol, err)
	}
	return &Executor{
		symbol:     symbol,
		base:       params,
		seq:        seq,
		ledger:     NewLedger(seq),
		buyStreak:  streak{side: Buy},
		sellStreak: streak{side: Sell},
		buyStop:    stopState{side: Buy},
		sellStop:   stopState{side: Sell},
	}, nil
}

func (e *Executor) Symbol() string { return e.symbol }

// ProcessDay runs the fixed five-step sequence for one daily bar:
//
//  1. recompute average cost and position status from the ledger
//  2. evaluate the pending sell stop (realizing gains takes priority)
//  3. evaluate the pending buy stop, gated by BuyEnabled
//  4. activation checks, with at most one side pending at a time
//  5. extend the peak/bottom extremes with today's price
//
// Step 5 runs last so that today's decisions always use yesterday's
// extremes; using today's own extreme to justify today's stop would be a
// look-ahead bug. If a buy proposal is emitted, step 5 is deferred into
// CommitBuy/RejectBuy.
func (e *Executor) ProcessDay(bar market.Bar, dc DayContext) (DayResult, error) {
	if e.pending != nil {
		return DayResult{}, fmt.Errorf("dca %s: unresolved buy proposal from %s",
			e.symbol, e.pending.Date.Format("2006-01-02"))
	}
	price := bar.Close
	if price <= 0 {
		return DayResult{}, fmt.Errorf("dca %s: non-positive close %.4f on %s",
			e.symbol, price, bar.Date.Format("2006-01-02"))
	}

	eff := resolve(e.base, e.profile.current)
	if dc.LotSize > 0 {
		eff.LotSize = dc.LotSize
	}

	// Step 1: aggregates are re-derived from the ledger every day, never
	// patched incrementally.
	avg := e.ledger.AverageCost()
	status := Classify(price, avg, eff.WinThresholdPct)
	e.profile.observe(status)

	res := DayResult{Status: status}
	executed := false

	// Step 2: sell side.
	if dc.SellEnabled && e.sellStop.Active() {
		switch {
		case e.sellStop.shouldCancel(price):
			e.sellStop.cancel()
		case e.sellStop.triggered(price):
			if tx, ok := e.executeSell(bar.Date, price, eff); ok {
				res.Sell = tx
				executed = true
			} else {
				// Re-validation failed at execution time; the order
				// is cancelled, never fired.
				e.sellStop.cancel()
			}
		default:
			e.sellStop.update(price, eff)
		}
	}

	// Step 3: buy side. A sell already produced today's one transaction,
	// and executing a sell cancels the opposing pending order anyway.
	if !executed && dc.BuyEnabled && e.buyStop.Active() {
		switch {
		case e.buyStop.shouldCancel(price):
			e.buyStop.cancel()
		case e.buyStop.triggered(price):
			// The order is consumed whether or not the proposal
			// survives validation and allocation.
			e.buyStop.cancel()
			if p, ok := e.proposeBuy(bar.Date, price, status, eff); ok {
				e.pending = p
				res.Proposal = p
			}
		default:
			e.buyStop.update(price, eff)
		}
	}

	// Step 4: activation off yesterday's extremes. Orders armed today
	// cannot fire today. At most one side may hold a pending order. A
	// sell only arms while it could clear its profit requirement at
	// today's price, and preempts a pending buy when it does; a pending
	// sell blocks buy-side arming. An unprofitable pullback therefore
	// leaves the buy side free to average down.
	if e.ext.valid && !executed {
		if dc.SellEnabled && e.ledger.Count() > 0 &&
			e.sellStop.shouldActivate(price, e.ext.peak, e.ext.bottom, eff) &&
			e.sellProfitable(price, eff) {
			e.buyStop.cancel()
			e.sellStop.activate(price, e.ext.peak, e.ext.bottom, eff)
		}
		if dc.BuyEnabled && res.Proposal == nil && !e.sellStop.Active() &&
			e.buyStop.shouldActivate(price, e.ext.peak, e.ext.bottom, eff) {
			e.buyStop.activate(price, e.ext.peak, e.ext.bottom, eff)
		}
	}

	// Step 5, unless a proposal is awaiting its commit/reject decision.
	if res.Proposal == nil {
		e.finishDay(price, executed)
	}
	e.lastPrice = price
	e.days++
	return res, nil
}

// CommitBuy applies a proposal emitted by the last ProcessDay: the lot is
// created, the transaction recorded, streaks and extremes updated. Only
// commit mutates; a discarded proposal leaves no side effects to roll back.
func (e *Executor) CommitBuy(p *BuyProposal) (*Transaction, error) {
	if e.pending == nil || e.pending != p {
		return nil, fmt.Errorf("dca %s: commit of unknown buy proposal", e.symbol)
	}
	e.pending = nil

	e.ledger.Add(p.Date, p.Price, p.Shares)
	tx := Transaction{
		ID:             e.seq.Next(),
		Date:           p.Date,
		Type:           TxBuy,
		Price:          p.Price,
		Shares:         p.Shares,
		Value:          p.Value,
		Lots:           e.ledger.Lots(),
		Consecutive:    p.PredictedStreak,
		RequirementPct: p.RequirementPct,
	}
	e.txs = append(e.txs, tx)

	e.buyStreak.record(p.Price)
	e.sellStreak.reset()
	e.sellStop.cancel()

	e.finishDay(p.Price, true)
	return &e.txs[len(e.txs)-1], nil
}

// RejectBuy discards a proposal. Nothing was mutated, so the day simply
// finishes as a no-trade day.
func (e *Executor) RejectBuy(p *BuyProposal) error {
	if e.pending == nil || e.pending != p {
		return fmt.Errorf("dca %s: reject of unknown buy proposal", e.symbol)
	}
	e.pending = nil
	e.finishDay(p.Price, false)
	return nil
}

// sellProfitable reports whether a sell at price would clear the
// streak-adjusted profit requirement over the current average cost.
func (e *Executor) sellProfitable(price float64, eff Effective) bool {
	predicted := e.sellStreak.predict(price)
	req := RequiredPercent(eff.ProfitPct, eff.ProfitIncrementPct, predicted, eff.ProfitIncremental)
	return ProfitSatisfied(price, e.ledger.AverageCost(), req)
}

// executeSell fires the triggered sell stop if it still passes the
// profitability requirement derived at execution time, using the streak count
// in force now rather than the one at activation. Lots are consumed whole,
// highest purchase price first.
func (e *Executor) executeSell(date time.Time, price float64, eff Effective) (*Transaction, bool) {
	predicted := e.sellStreak.predict(price)
	req := RequiredPercent(eff.ProfitPct, eff.ProfitIncrementPct, predicted, eff.ProfitIncremental)

	if !ProfitSatisfied(price, e.ledger.AverageCost(), req) {
		return nil, false
	}

	inStreak := e.sellStreak.hasLast && predicted > 1
	lots := EligibleLots(e.ledger.ByPriceDesc(), price, req, e.sellStreak.lastPrice, inStreak, eff.MaxSellLots)
	if len(lots) == 0 {
		return nil, false
	}

	ids := make([]int, len(lots))
	for i, l := range lots {
		ids[i] = l.ID
	}
	removed := e.ledger.Remove(ids)

	var shares, pnl float64
	for _, l := range removed {
		shares += l.Shares
		pnl += (price - l.Price) * l.Shares
	}
	value := shares * price
	e.realized += pnl

	tx := Transaction{
		ID:             e.seq.Next(),
		Date:           date,
		Type:           TxSell,
		Price:          price,
		Shares:         shares,
		Value:          value,
		RealizedPNL:    pnl,
		Lots:           e.ledger.Lots(),
		Consecutive:    predicted,
		RequirementPct: req,
	}
	e.txs = append(e.txs, tx)

	e.sellStreak.record(price)
	e.buyStreak.reset()
	e.sellStop.cancel()
	e.buyStop.cancel()

	return &e.txs[len(e.txs)-1], true
}

// proposeBuy validates a triggered buy stop against the grid and overlay
// rules and, if it survives, returns the candidate transaction without
// touching the ledger.
func (e *Executor) proposeBuy(date time.Time, price float64, status PositionStatus, eff Effective) (*BuyProposal, bool) {
	if e.ledger.Count() >= eff.MaxLots {
		return nil, false
	}
	// Momentum mode never averages down at a loss; only the very first
	// lot is exempt.
	if eff.Momentum && e.ledger.Count() > 0 && e.ledger.UnrealizedPL(price) <= 0 {
		return nil, false
	}

	predicted := e.buyStreak.predict(price)
	req := RequiredPercent(eff.GridPct, eff.GridIncrementPct, predicted, eff.GridIncremental)

	if e.buyStreak.hasLast {
		if price <= e.buyStreak.lastPrice {
			if !SpacingSatisfied(price, e.buyStreak.lastPrice, true, req) {
				return nil, false
			}
		} else {
			// Averaging up is the position's favorable direction and
			// only qualifies under the adaptive overlay while the
			// position is winning.
			if !eff.Adaptive || status != StatusWinning {
				return nil, false
			}
			if !SpacingSatisfiedAbove(price, e.buyStreak.lastPrice, true, req) {
				return nil, false
			}
		}
	}

	shares := eff.LotSize / price
	return &BuyProposal{
		Symbol:          e.symbol,
		Date:            date,
		Price:           price,
		Shares:          shares,
		Value:           shares * price,
		RequirementPct:  req,
		PredictedStreak: predicted,
	}, true
}

// finishDay extends or resets the extremes and observes trend ticks. An
// executed trade resets both extremes to the execution price; otherwise
// today's price only widens them.
func (e *Executor) finishDay(price float64, executedTrade bool) {
	if executedTrade {
		e.ext = extremes{peak: price, bottom: price, valid: true}
	} else {
		if !e.ext.valid {
			e.ext = extremes{peak: price, bottom: price, valid: true}
		} else {
			if price > e.ext.peak {
				e.ext.peak = price
			}
			if price < e.ext.bottom {
				e.ext.bottom = price
			}
		}
		if e.havePrev {
			e.buyStreak.observe(e.prevClose, price)
			e.sellStreak.observe(e.prevClose, price)
		}
	}
	e.prevClose = price
	e.havePrev = true
}
