package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/dcasim/market"
	"github.com/rustyeddy/dcasim/portfolio"
)

func mkSeries(prices ...float64) *market.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(prices))
	for i, p := range prices {
		bars[i] = market.Bar{Date: base.AddDate(0, 0, i), Close: p}
	}
	return &market.Series{Symbol: "AAA", Bars: bars}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	res := &portfolio.Result{
		RunID: "run-1",
		Valuations: []portfolio.Valuation{
			{Date: base, Equity: 100_000},
			{Date: base.AddDate(0, 0, 1), Equity: 101_000},
			{Date: base.AddDate(0, 0, 2), Equity: 102_000},
		},
		Instruments: []portfolio.InstrumentResult{{}},
		TotalRealized: 500,
		FinalEquity:   102_000,
	}

	r := Summarize(res, mkSeries(100, 101, 104), 0)
	assert.Equal(t, 3, r.Days)
	assert.InDelta(t, 2.0, r.TotalReturnPct, 1e-9)
	assert.InDelta(t, 4.0, r.BuyHoldReturnPct, 1e-9)
	assert.InDelta(t, 500.0, r.RealizedPNL, 1e-9)
	assert.Zero(t, r.Trades)
}

func TestSuitabilityScore(t *testing.T) {
	t.Parallel()

	assert.Zero(t, SuitabilityScore(nil))
	assert.Zero(t, SuitabilityScore(mkSeries(100, 101)), "too short to judge")

	// Choppy range with repeated dips and full recoveries.
	var choppy []float64
	for i := 0; i < 15; i++ {
		choppy = append(choppy, 100+float64(i)*0.5, 85+float64(i)*0.5)
	}
	// Relentless one-way trend.
	var trend []float64
	for i := 0; i < 30; i++ {
		trend = append(trend, 100+float64(i)*10)
	}

	choppyScore := SuitabilityScore(mkSeries(choppy...))
	trendScore := SuitabilityScore(mkSeries(trend...))

	assert.Greater(t, choppyScore, trendScore)
	assert.GreaterOrEqual(t, choppyScore, 0.0)
	assert.LessOrEqual(t, choppyScore, 100.0)
}
