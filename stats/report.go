package stats

import (
	"math"

	"github.com/rustyeddy/dcasim/market"
	"github.com/rustyeddy/dcasim/portfolio"
)

// Report is the digest printed at the end of a run.
type Report struct {
	Days             int
	TotalReturnPct   float64
	CAGRPct          float64
	MaxDrawdownPct   float64
	AnnualVolPct     float64
	Sharpe           float64
	Sortino          float64
	BuyHoldReturnPct float64
	RealizedPNL      float64
	CashYield        float64
	FinalEquity      float64
	DaysOnMargin     int
	MaxMarginUsed    float64
	Trades           int
	Suitability      float64
}

// EquityCurve extracts the daily equity series from a run result.
func EquityCurve(res *portfolio.Result) []float64 {
	out := make([]float64, len(res.Valuations))
	for i, v := range res.Valuations {
		out[i] = v.Equity
	}
	return out
}

// Summarize computes the full report for a run. The benchmark, when given,
// supplies the buy-and-hold comparison; pass nil to skip it.
func Summarize(res *portfolio.Result, benchmark *market.Series, riskFreeAnnualPct float64) Report {
	equity := EquityCurve(res)

	var trades int
	for _, in := range res.Instruments {
		trades += len(in.Transactions)
	}

	r := Report{
		Days:           len(res.Valuations),
		TotalReturnPct: TotalReturnPct(equity),
		CAGRPct:        CAGRPct(equity),
		MaxDrawdownPct: MaxDrawdownPct(equity),
		AnnualVolPct:   AnnualVolatilityPct(equity),
		Sharpe:         SharpeRatio(equity, riskFreeAnnualPct),
		Sortino:        SortinoRatio(equity, riskFreeAnnualPct),
		RealizedPNL:    res.TotalRealized,
		CashYield:      res.TotalCashYield,
		FinalEquity:    res.FinalEquity,
		DaysOnMargin:   res.DaysOnMargin,
		MaxMarginUsed:  res.MaxMarginUsed,
		Trades:         trades,
	}
	if benchmark != nil {
		closes := make([]float64, len(benchmark.Bars))
		for i, b := range benchmark.Bars {
			closes[i] = b.Close
		}
		r.BuyHoldReturnPct = BuyHoldReturnPct(closes)
	}
	r.Suitability = SuitabilityScore(benchmark)
	return r
}

// SuitabilityScore rates how well a price series suits a grid-buying
// strategy on a 0..100 scale. Choppy, range-bound series with frequent
// dips and recoveries score high; steady one-way trends score low.
//
// The score blends three observations over the series:
//   - dip frequency: share of days trading below the trailing peak
//   - recovery rate: share of 10%+ drawdowns that later regained the peak
//   - drift penalty: strong net trends leave a grid either never buying
//     or never selling
func SuitabilityScore(s *market.Series) float64 {
	if s == nil || len(s.Bars) < 20 {
		return 0
	}

	var (
		peak        float64
		belowPeak   int
		inDrawdown  bool
		drawdowns   int
		recoveries  int
		ddThreshold = 0.10
	)
	for _, b := range s.Bars {
		if b.Close > peak {
			if inDrawdown {
				recoveries++
				inDrawdown = false
			}
			peak = b.Close
			continue
		}
		belowPeak++
		if peak > 0 && (peak-b.Close)/peak >= ddThreshold && !inDrawdown {
			drawdowns++
			inDrawdown = true
		}
	}

	dipFreq := float64(belowPeak) / float64(len(s.Bars))

	recoveryRate := 1.0
	if drawdowns > 0 {
		recoveryRate = float64(recoveries) / float64(drawdowns)
	}

	first := s.Bars[0].Close
	last := s.Bars[len(s.Bars)-1].Close
	drift := 0.0
	if first > 0 {
		drift = math.Abs(last-first) / first
	}
	driftPenalty := math.Min(drift, 1)

	score := (0.4*dipFreq + 0.4*recoveryRate + 0.2*(1-driftPenalty)) * 100
	return math.Max(0, math.Min(100, score))
}
