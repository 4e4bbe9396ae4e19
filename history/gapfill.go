package history

import (
	"time"

	"github.com/rustyeddy/dcasim/market"
)

// FillGaps backfills missing weekdays between the first and last bar with
// carry-forward bars: the previous close repeated across OHLC with zero
// volume. Weekends are skipped; the executor never sees a calendar hole in
// the trading week.
func FillGaps(bars []market.Bar) []market.Bar {
	if len(bars) < 2 {
		return bars
	}

	out := make([]market.Bar, 0, len(bars))
	out = append(out, bars[0])

	for i := 1; i < len(bars); i++ {
		prev := out[len(out)-1]
		for d := nextWeekday(prev.Date); d.Before(bars[i].Date); d = nextWeekday(d) {
			out = append(out, market.Bar{
				Date:     d,
				Open:     prev.Close,
				High:     prev.Close,
				Low:      prev.Close,
				Close:    prev.Close,
				AdjClose: prev.AdjClose,
			})
		}
		out = append(out, bars[i])
	}
	return out
}

func nextWeekday(d time.Time) time.Time {
	d = d.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
