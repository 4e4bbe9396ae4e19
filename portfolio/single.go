package portfolio

import (
	"fmt"

	"github.com/rustyeddy/dcasim/dca"
	"github.com/rustyeddy/dcasim/market"
)

// RunSingle backtests one instrument against its own capital pool. It is a
// one-instrument allocator run, which keeps standalone and portfolio
// behavior identical by construction: same executor, same signal
// evaluation, same accounting.
//
// A data error that a portfolio run would absorb by excluding the
// instrument fails a standalone run outright.
func RunSingle(in Instrument, capital float64, configure ...func(*Allocator)) (*Result, error) {
	a, err := NewAllocator(Config{TotalCapital: capital}, []Instrument{in})
	if err != nil {
		return nil, err
	}
	if len(a.ExcludedInstruments()) > 0 {
		ex := a.ExcludedInstruments()[0]
		return nil, fmt.Errorf("%s: %s", ex.Symbol, ex.Reason)
	}
	for _, fn := range configure {
		fn(a)
	}
	return a.Run()
}

// SingleDefaults builds the Instrument for a plain single-symbol run.
func SingleDefaults(symbol string, series *market.Series, params dca.Params) Instrument {
	return Instrument{Symbol: symbol, Series: series, Params: params, Beta: 1}
}
