package history

import (
	"context"
	"time"

	"github.com/rustyeddy/dcasim/market"
)

// Provider returns the daily bars for one instrument over a date range,
// sorted ascending. Gap-filling is the provider side's job: bars handed to
// the simulator are already contiguous over trading days.
type Provider interface {
	History(ctx context.Context, symbol string, start, end time.Time) (*market.Series, error)
	Name() string
}

// Provenance records which provider actually produced a series and whether
// it came from a stale cache. It travels with the result so a degraded run
// is visible in its report.
type Provenance struct {
	Source    string
	Stale     bool
	FetchedAt time.Time
}

// Result is a fetched series plus where it came from.
type Result struct {
	Series     *market.Series
	Provenance Provenance
}
