package portfolio

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/dcasim/dca"
	"github.com/rustyeddy/dcasim/internal/id"
	"github.com/rustyeddy/dcasim/journal"
	"github.com/rustyeddy/dcasim/market"
)

// tradingDaysPerYear converts the annualized cash yield into the per-day
// credit applied on each simulated trading day.
const tradingDaysPerYear = 252

// Config is the portfolio-level configuration. Instrument-level trading
// parameters live on each Instrument.
type Config struct {
	TotalCapital float64
	MarginPct    float64 // deployed may exceed capital by this % of capital
	CashYieldPct float64 // annualized yield credited to positive idle cash

	// BetaAllocation scales each instrument's lot size by 1/beta, so
	// high-beta instruments commit less capital per grid level.
	BetaAllocation bool
}

func (c Config) Validate() error {
	if c.TotalCapital <= 0 {
		return fmt.Errorf("total capital must be positive, got %.2f", c.TotalCapital)
	}
	if c.MarginPct < 0 || c.MarginPct > 100 {
		return fmt.Errorf("margin percent must be in [0,100], got %.2f", c.MarginPct)
	}
	if c.CashYieldPct < 0 {
		return fmt.Errorf("cash yield percent must be non-negative")
	}
	return nil
}

// Instrument is one participant in a portfolio run.
type Instrument struct {
	Symbol string
	Series *market.Series
	Params dca.Params
	Beta   float64 // 0 means unknown; treated as 1
}

// RejectedOrder is a buy signal that could not be funded.
type RejectedOrder struct {
	Date      time.Time
	Symbol    string
	Reason    string
	Shortfall float64
	Holders   []string // instruments holding deployed capital at the time
}

// Valuation is the end-of-day portfolio snapshot.
type Valuation struct {
	Date        time.Time
	Cash        float64
	Deployed    float64
	MarketValue float64
	Equity      float64
	MarginUsed  float64
}

// Excluded records an instrument dropped from the run for a data error.
type Excluded struct {
	Symbol string
	Reason string
}

// InstrumentResult pairs an instrument's final summary with its full
// transaction log.
type InstrumentResult struct {
	Final        dca.FinalResult
	Transactions []dca.Transaction
}

// Result is everything a run produces for downstream aggregation.
type Result struct {
	RunID       string
	Valuations  []Valuation
	Rejected    []RejectedOrder
	ExcludedIn  []Excluded
	Instruments []InstrumentResult

	TotalRealized  float64
	TotalCashYield float64
	FinalCash      float64
	FinalEquity    float64
	DaysOnMargin   int
	MaxMarginUsed  float64
}

// instrumentState is the allocator's per-instrument bookkeeping.
type instrumentState struct {
	symbol    string
	series    *market.Series
	exec      *dca.Executor
	beta      float64
	lotSize   float64 // beta-scaled base lot size
	lastClose float64 // carried for valuation on non-trading days
}

// Allocator drives N executors against one shared capital pool. It owns
// the pool exclusively; nothing else reads or writes the cash reserve.
type Allocator struct {
	cfg       Config
	insts     []*instrumentState
	excluded  []Excluded
	seq       *id.Sequence
	runID     string
	optimizer CapitalOptimizer
	journal   journal.Journal
	log       logrus.FieldLogger

	cash      float64
	realized  float64
	cashYield float64
}

// NewAllocator validates configuration and instruments. Parameter errors
// are fatal; series errors exclude the instrument with a recorded reason.
func NewAllocator(cfg Config, instruments []Instrument) (*Allocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("portfolio config: %w", err)
	}
	if len(instruments) == 0 {
		return nil, fmt.Errorf("portfolio: no instruments")
	}

	a := &Allocator{
		cfg:       cfg,
		seq:       id.NewSequence(),
		runID:     id.NewRun(),
		optimizer: NopOptimizer{},
		journal:   journal.Nop{},
		log:       logrus.StandardLogger(),
		cash:      cfg.TotalCapital,
	}

	seen := make(map[string]struct{})
	for _, in := range instruments {
		if in.Symbol == "" {
			return nil, fmt.Errorf("portfolio: instrument with empty symbol")
		}
		if _, dup := seen[in.Symbol]; dup {
			return nil, fmt.Errorf("portfolio: duplicate instrument %s", in.Symbol)
		}
		seen[in.Symbol] = struct{}{}

		if in.Series == nil {
			a.excluded = append(a.excluded, Excluded{in.Symbol, "no price series"})
			continue
		}
		if err := in.Series.Validate(); err != nil {
			a.excluded = append(a.excluded, Excluded{in.Symbol, err.Error()})
			continue
		}

		beta := in.Beta
		if beta <= 0 {
			beta = 1
		}
		params := in.Params
		if cfg.BetaAllocation {
			params.LotSize = params.LotSize / beta
		}

		exec, err := dca.NewExecutor(in.Symbol, params, a.seq)
		if err != nil {
			return nil, err
		}
		a.insts = append(a.insts, &instrumentState{
			symbol:  in.Symbol,
			series:  in.Series,
			exec:    exec,
			beta:    beta,
			lotSize: params.LotSize,
		})
	}
	if len(a.insts) == 0 {
		var reasons []string
		for _, ex := range a.excluded {
			reasons = append(reasons, fmt.Sprintf("%s: %s", ex.Symbol, ex.Reason))
		}
		return nil, fmt.Errorf("portfolio: all instruments excluded (%s)", strings.Join(reasons, "; "))
	}

	// Lexicographic processing order is part of the reproducibility
	// contract: it decides whose buy is rejected when capital runs short.
	sort.Slice(a.insts, func(i, j int) bool {
		return a.insts[i].symbol < a.insts[j].symbol
	})
	return a, nil
}

func (a *Allocator) SetOptimizer(o CapitalOptimizer) {
	if o != nil {
		a.optimizer = o
	}
}

func (a *Allocator) SetJournal(j journal.Journal) {
	if j != nil {
		a.journal = j
	}
}

func (a *Allocator) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		a.log = l
	}
}

func (a *Allocator) RunID() string { return a.runID }

// ExcludedInstruments lists the instruments dropped during setup.
func (a *Allocator) ExcludedInstruments() []Excluded { return a.excluded }

// marginFloor is the lowest the cash reserve may go. Zero margin means the
// reserve can never be negative.
func (a *Allocator) marginFloor() float64 {
	return -a.cfg.TotalCapital * a.cfg.MarginPct / 100
}

// Run walks the union of all instruments' trading dates. Within a day,
// instruments are processed strictly in symbol order, and each commit lands
// before the next instrument is looked at, so there is never contention
// over the pool.
func (a *Allocator) Run() (*Result, error) {
	series := make([]*market.Series, len(a.insts))
	for i, st := range a.insts {
		series[i] = st.series
	}
	dates := market.UnionDates(series...)

	res := &Result{
		RunID:      a.runID,
		ExcludedIn: a.excluded,
	}
	dailyYield := a.cfg.CashYieldPct / 100 / tradingDaysPerYear

	for _, date := range dates {
		for _, st := range a.insts {
			bar, ok := st.series.At(date)
			if !ok {
				continue
			}
			st.lastClose = bar.Close

			lotSize, deferSell := a.optimizer.Adjust(a.cash, st.lotSize)
			dc := dca.DayContext{
				BuyEnabled:  true, // buys are gated at commit time, so rejections get recorded
				SellEnabled: !deferSell,
				LotSize:     lotSize,
			}

			day, err := st.exec.ProcessDay(bar, dc)
			if err != nil {
				return nil, err
			}

			if day.Sell != nil {
				// Sells always fit: the pool has room for proceeds.
				a.cash += day.Sell.Value
				a.realized += day.Sell.RealizedPNL
				if err := a.recordTx(st.symbol, day.Sell); err != nil {
					return nil, err
				}
			}

			if day.Proposal != nil {
				if err := a.settleProposal(st, date, day.Proposal, res); err != nil {
					return nil, err
				}
			}
		}

		// Non-trading income on idle reserve, then the leak check; a
		// violation aborts the run on the day it appears.
		if a.cash > 0 && dailyYield > 0 {
			y := a.cash * dailyYield
			a.cashYield += y
			a.cash += y
		}

		deployed := a.deployedCapital()
		if err := CheckInvariant(deployed, a.cash, a.cfg.TotalCapital, a.realized, a.cashYield); err != nil {
			a.log.WithFields(logrus.Fields{
				"date":     date.Format("2006-01-02"),
				"deployed": deployed,
				"cash":     a.cash,
			}).Error("capital accounting invariant violated")
			return nil, err
		}

		v := a.snapshot(date, deployed)
		res.Valuations = append(res.Valuations, v)
		if v.MarginUsed > 0 {
			res.DaysOnMargin++
			if v.MarginUsed > res.MaxMarginUsed {
				res.MaxMarginUsed = v.MarginUsed
			}
		}
		if err := a.journal.RecordValuation(journal.ValuationRecord{
			RunID:       a.runID,
			Date:        v.Date,
			Cash:        v.Cash,
			Deployed:    v.Deployed,
			MarketValue: v.MarketValue,
			Equity:      v.Equity,
			MarginUsed:  v.MarginUsed,
		}); err != nil {
			return nil, fmt.Errorf("journal valuation: %w", err)
		}
	}

	for _, st := range a.insts {
		res.Instruments = append(res.Instruments, InstrumentResult{
			Final:        st.exec.Result(),
			Transactions: st.exec.Transactions(),
		})
	}
	res.TotalRealized = a.realized
	res.TotalCashYield = a.cashYield
	res.FinalCash = a.cash
	if n := len(res.Valuations); n > 0 {
		res.FinalEquity = res.Valuations[n-1].Equity
	}
	return res, nil
}

// settleProposal decides commit-or-discard for a proposed buy against the
// pool and the margin floor.
func (a *Allocator) settleProposal(st *instrumentState, date time.Time, p *dca.BuyProposal, res *Result) error {
	floor := a.marginFloor()
	if a.cash-p.Value >= floor-LeakTolerance {
		tx, err := st.exec.CommitBuy(p)
		if err != nil {
			return err
		}
		a.cash -= tx.Value
		return a.recordTx(st.symbol, tx)
	}

	if err := st.exec.RejectBuy(p); err != nil {
		return err
	}

	reason := ReasonInsufficientCapital
	if a.cfg.MarginPct > 0 {
		reason = ReasonMarginLimit
	}
	rej := RejectedOrder{
		Date:      date,
		Symbol:    st.symbol,
		Reason:    reason,
		Shortfall: p.Value - (a.cash - floor),
		Holders:   a.holders(),
	}
	res.Rejected = append(res.Rejected, rej)

	a.log.WithFields(logrus.Fields{
		"symbol":    st.symbol,
		"date":      date.Format("2006-01-02"),
		"reason":    reason,
		"shortfall": rej.Shortfall,
	}).Info("buy rejected")

	return a.journal.RecordRejection(journal.RejectionRecord{
		RunID:     a.runID,
		Symbol:    st.symbol,
		Date:      date,
		Reason:    reason,
		Shortfall: rej.Shortfall,
		Holders:   strings.Join(rej.Holders, ","),
	})
}

// recordTx writes the executed trade to the journal. A failed write
// aborts the run, same as valuation and rejection writes.
func (a *Allocator) recordTx(symbol string, tx *dca.Transaction) error {
	if err := a.journal.RecordTransaction(journal.TransactionRecord{
		RunID:          a.runID,
		Symbol:         symbol,
		Date:           tx.Date,
		Type:           tx.Type.String(),
		Price:          tx.Price,
		Shares:         tx.Shares,
		Value:          tx.Value,
		RealizedPL:     tx.RealizedPNL,
		Consecutive:    tx.Consecutive,
		RequirementPct: tx.RequirementPct,
	}); err != nil {
		return fmt.Errorf("journal transaction: %w", err)
	}
	return nil
}

// holders lists the instruments currently tying up deployed capital, in
// processing order.
func (a *Allocator) holders() []string {
	var out []string
	for _, st := range a.insts {
		if st.exec.OpenLots() > 0 {
			out = append(out, st.symbol)
		}
	}
	return out
}

func (a *Allocator) deployedCapital() float64 {
	var d float64
	for _, st := range a.insts {
		d += st.exec.CostBasis()
	}
	return d
}

func (a *Allocator) snapshot(date time.Time, deployed float64) Valuation {
	var mv float64
	for _, st := range a.insts {
		mv += st.exec.Shares() * st.lastClose
	}
	v := Valuation{
		Date:        date,
		Cash:        a.cash,
		Deployed:    deployed,
		MarketValue: mv,
		Equity:      a.cash + mv,
	}
	if a.cash < 0 {
		v.MarginUsed = -a.cash
	}
	return v
}
