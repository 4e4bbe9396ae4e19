package market

import (
	"fmt"
	"sort"
	"time"
)

// Series is an ordered-by-date run of daily bars for one instrument.
// The simulator assumes a Series is sorted ascending with no duplicate
// dates; Validate enforces that at the provider boundary.
type Series struct {
	Symbol string
	Bars   []Bar
}

func (s *Series) Len() int { return len(s.Bars) }

// Validate checks the ordering contract the executor depends on.
func (s *Series) Validate() error {
	if len(s.Bars) == 0 {
		return fmt.Errorf("series %s: no bars", s.Symbol)
	}
	for i, b := range s.Bars {
		if b.Close <= 0 {
			return fmt.Errorf("series %s: bar %s has non-positive close %.4f",
				s.Symbol, b.Date.Format("2006-01-02"), b.Close)
		}
		if i > 0 && !s.Bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("series %s: bars out of order at %s",
				s.Symbol, b.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// At returns the bar for a given day, if present.
func (s *Series) At(day time.Time) (Bar, bool) {
	day = Day(day)
	i := sort.Search(len(s.Bars), func(i int) bool {
		return !s.Bars[i].Date.Before(day)
	})
	if i < len(s.Bars) && s.Bars[i].Date.Equal(day) {
		return s.Bars[i], true
	}
	return Bar{}, false
}

// First and Last panic on an empty series; callers validate first.
func (s *Series) First() Bar { return s.Bars[0] }
func (s *Series) Last() Bar  { return s.Bars[len(s.Bars)-1] }

// UnionDates merges the trading dates of several series into one ascending
// sequence. The portfolio allocator walks this union so an instrument that
// was halted on a given day simply has no bar for it.
func UnionDates(series ...*Series) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, s := range series {
		for _, b := range s.Bars {
			seen[Day(b.Date)] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
