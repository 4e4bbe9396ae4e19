package history

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/dcasim/market"
)

// YahooProvider fetches daily bars from Yahoo Finance. Prices arrive as
// decimals and are converted to float64 at this boundary; the simulator
// core works in floats with a one-cent accounting tolerance.
type YahooProvider struct {
	Retry RetryConfig
}

func NewYahoo() *YahooProvider {
	return &YahooProvider{Retry: DefaultRetryConfig()}
}

func (y *YahooProvider) Name() string { return "yahoo" }

func (y *YahooProvider) History(ctx context.Context, symbol string, start, end time.Time) (*market.Series, error) {
	if symbol == "" {
		return nil, fmt.Errorf("yahoo: symbol is required")
	}

	var bars []market.Bar
	err := withRetry(y.Retry, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)

		bars = bars[:0]
		for iter.Next() {
			b := iter.Bar()
			bars = append(bars, market.Bar{
				Date:     market.Day(time.Unix(int64(b.Timestamp), 0)),
				Open:     toFloat(b.Open),
				High:     toFloat(b.High),
				Low:      toFloat(b.Low),
				Close:    toFloat(b.Close),
				AdjClose: toFloat(b.AdjClose),
				Volume:   int64(b.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("yahoo chart %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: no bars for %s between %s and %s",
			symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	s := &market.Series{Symbol: symbol, Bars: FillGaps(bars)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
