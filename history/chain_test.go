package history

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/dcasim/market"
)

type fakeProvider struct {
	name   string
	series *market.Series
	err    error
	calls  atomic.Int64
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) History(context.Context, string, time.Time, time.Time) (*market.Series, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func fakeSeries(symbol string) *market.Series {
	base := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	return &market.Series{Symbol: symbol, Bars: []market.Bar{
		{Date: base, Close: 100},
		{Date: base.AddDate(0, 0, 1), Close: 101},
	}}
}

var (
	rangeStart = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
)

func TestChainFallsThroughToNextProvider(t *testing.T) {
	t.Parallel()

	broken := &fakeProvider{name: "broken", err: errors.New("boom")}
	good := &fakeProvider{name: "good", series: fakeSeries("AAA")}
	c := NewChain(broken, good)

	res, err := c.Fetch(context.Background(), "AAA", rangeStart, rangeEnd)
	require.NoError(t, err)
	assert.Equal(t, "good", res.Provenance.Source)
	assert.False(t, res.Provenance.Stale)
	assert.EqualValues(t, 1, broken.calls.Load())
	assert.EqualValues(t, 1, good.calls.Load())
}

func TestChainUsesStaleCacheWhenAllProvidersFail(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	// Warm the cache through a working chain first.
	good := &fakeProvider{name: "live", series: fakeSeries("AAA")}
	warm := NewChain(good)
	warm.SetCache(cache)
	_, err = warm.Fetch(context.Background(), "AAA", rangeStart, rangeEnd)
	require.NoError(t, err)

	// Then fetch with everything broken.
	broken := &fakeProvider{name: "live", err: errors.New("offline")}
	cold := NewChain(broken)
	cold.SetCache(cache)

	res, err := cold.Fetch(context.Background(), "AAA", rangeStart, rangeEnd)
	require.NoError(t, err)
	assert.Equal(t, "cache:live", res.Provenance.Source)
	assert.True(t, res.Provenance.Stale)
	assert.Len(t, res.Series.Bars, 2)
}

func TestChainFailsWithoutCache(t *testing.T) {
	t.Parallel()

	broken := &fakeProvider{name: "broken", err: errors.New("boom")}
	c := NewChain(broken)

	_, err := c.Fetch(context.Background(), "AAA", rangeStart, rangeEnd)
	assert.Error(t, err)
}

func TestFetchAll(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{name: "fake", series: fakeSeries("ANY")}
	c := NewChain(provider)

	got, err := c.FetchAll(context.Background(), []string{"AAA", "BBB", "CCC"}, rangeStart, rangeEnd)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	series := SeriesOf(got)
	require.Contains(t, series, "BBB")
	assert.Len(t, series["BBB"].Bars, 2)
}

func TestFetchAllPropagatesFailure(t *testing.T) {
	t.Parallel()

	broken := &fakeProvider{name: "broken", err: errors.New("boom")}
	c := NewChain(broken)

	_, err := c.FetchAll(context.Background(), []string{"AAA", "BBB"}, rangeStart, rangeEnd)
	assert.Error(t, err)
}
