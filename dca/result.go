package dca

// State is a serializable snapshot of the executor, exposed for debugging
// and for archiving alongside run results. It is a copy; mutating it does
// not touch the executor.
type State struct {
	Symbol           string     `json:"symbol"`
	Lots             []Lot      `json:"lots"`
	AverageCost      float64    `json:"average_cost"`
	RealizedPNL      float64    `json:"realized_pnl"`
	ConsecutiveBuys  int        `json:"consecutive_buys"`
	ConsecutiveSells int        `json:"consecutive_sells"`
	LastBuyPrice     *float64   `json:"last_buy_price,omitempty"`
	LastSellPrice    *float64   `json:"last_sell_price,omitempty"`
	RecentPeak       *float64   `json:"recent_peak,omitempty"`
	RecentBottom     *float64   `json:"recent_bottom,omitempty"`
	BuyStop          *StopOrder `json:"buy_stop,omitempty"`
	SellStop         *StopOrder `json:"sell_stop,omitempty"`
	Profile          string     `json:"profile"`
}

func (e *Executor) State() State {
	st := State{
		Symbol:           e.symbol,
		Lots:             e.ledger.Lots(),
		AverageCost:      e.ledger.AverageCost(),
		RealizedPNL:      e.realized,
		ConsecutiveBuys:  e.buyStreak.count,
		ConsecutiveSells: e.sellStreak.count,
		Profile:          e.profile.current.String(),
	}
	if e.buyStreak.hasLast {
		p := e.buyStreak.lastPrice
		st.LastBuyPrice = &p
	}
	if e.sellStreak.hasLast {
		p := e.sellStreak.lastPrice
		st.LastSellPrice = &p
	}
	if e.ext.valid {
		pk, bt := e.ext.peak, e.ext.bottom
		st.RecentPeak = &pk
		st.RecentBottom = &bt
	}
	if o, ok := e.buyStop.Order(); ok {
		st.BuyStop = &o
	}
	if o, ok := e.sellStop.Order(); ok {
		st.SellStop = &o
	}
	return st
}

// FinalResult summarizes one instrument after its last simulated day.
type FinalResult struct {
	Symbol        string
	Days          int
	RealizedPNL   float64
	UnrealizedPNL float64
	CostBasis     float64
	Shares        float64
	AverageCost   float64
	LastPrice     float64
	MarketValue   float64
	OpenLots      int
	Buys          int
	Sells         int
	AvgBuyPrice   float64
	AvgSellPrice  float64
}

// Transactions returns a copy of the transaction log.
func (e *Executor) Transactions() []Transaction {
	out := make([]Transaction, len(e.txs))
	copy(out, e.txs)
	return out
}

func (e *Executor) RealizedPNL() float64 { return e.realized }

// CostBasis is the sum cost of all open lots, the executor's contribution
// to the portfolio's deployed capital.
func (e *Executor) CostBasis() float64 { return e.ledger.CostBasis() }

func (e *Executor) Shares() float64 { return e.ledger.TotalShares() }

func (e *Executor) OpenLots() int { return e.ledger.Count() }

// LastPrice is the close of the most recently processed day, 0 before any
// day has run.
func (e *Executor) LastPrice() float64 { return e.lastPrice }

// Result derives the final summary from the ledger and transaction log.
func (e *Executor) Result() FinalResult {
	r := FinalResult{
		Symbol:        e.symbol,
		Days:          e.days,
		RealizedPNL:   e.realized,
		UnrealizedPNL: e.ledger.UnrealizedPL(e.lastPrice),
		CostBasis:     e.ledger.CostBasis(),
		Shares:        e.ledger.TotalShares(),
		AverageCost:   e.ledger.AverageCost(),
		LastPrice:     e.lastPrice,
		MarketValue:   e.ledger.TotalShares() * e.lastPrice,
		OpenLots:      e.ledger.Count(),
	}

	var buyShares, buyValue, sellShares, sellValue float64
	for _, tx := range e.txs {
		switch tx.Type {
		case TxBuy:
			r.Buys++
			buyShares += tx.Shares
			buyValue += tx.Value
		case TxSell:
			r.Sells++
			sellShares += tx.Shares
			sellValue += tx.Value
		}
	}
	if buyShares > 0 {
		r.AvgBuyPrice = buyValue / buyShares
	}
	if sellShares > 0 {
		r.AvgSellPrice = sellValue / sellShares
	}
	return r
}
