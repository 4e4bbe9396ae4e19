package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/dcasim/market"
)

// Chain tries providers in order, falls back to stale cached data last,
// and records on the result which source actually served. Provider
// failures degrade the run instead of aborting it.
type Chain struct {
	providers []Provider
	cache     *Cache
	log       logrus.FieldLogger
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		log:       logrus.StandardLogger(),
	}
}

func (c *Chain) SetCache(cache *Cache)          { c.cache = cache }
func (c *Chain) SetLogger(l logrus.FieldLogger) { c.log = l }

// Fetch resolves one symbol. Successful live fetches refresh the cache.
func (c *Chain) Fetch(ctx context.Context, symbol string, start, end time.Time) (Result, error) {
	var lastErr error
	for _, p := range c.providers {
		s, err := p.History(ctx, symbol, start, end)
		if err != nil {
			lastErr = err
			c.log.WithFields(logrus.Fields{
				"symbol":   symbol,
				"provider": p.Name(),
			}).WithError(err).Warn("price history provider failed, trying next")
			continue
		}
		if c.cache != nil {
			if err := c.cache.Put(symbol, start, end, p.Name(), s); err != nil {
				c.log.WithError(err).Warn("price history cache write failed")
			}
		}
		return Result{
			Series:     s,
			Provenance: Provenance{Source: p.Name(), FetchedAt: time.Now().UTC()},
		}, nil
	}

	if c.cache != nil {
		if s, prov, ok := c.cache.Get(symbol, start, end); ok {
			c.log.WithFields(logrus.Fields{
				"symbol":     symbol,
				"fetched_at": prov.FetchedAt,
			}).Warn("all providers failed, using stale cached history")
			return Result{Series: s, Provenance: prov}, nil
		}
	}

	return Result{}, fmt.Errorf("history %s: all providers failed: %w", symbol, lastErr)
}

// FetchAll resolves several symbols concurrently. Retrieval is the only
// parallel phase of a backtest: each series is independent and read-only.
// The simulation itself stays single-threaded.
func (c *Chain) FetchAll(ctx context.Context, symbols []string, start, end time.Time) (map[string]Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	var mu sync.Mutex
	out := make(map[string]Result, len(symbols))

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			res, err := c.Fetch(ctx, symbol, start, end)
			if err != nil {
				return err
			}
			mu.Lock()
			out[symbol] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SeriesOf is a convenience for callers that only need the bars.
func SeriesOf(results map[string]Result) map[string]*market.Series {
	out := make(map[string]*market.Series, len(results))
	for sym, r := range results {
		out[sym] = r.Series
	}
	return out
}
