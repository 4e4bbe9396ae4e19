package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(day int) time.Time {
	return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day)
}

func TestSeriesValidate(t *testing.T) {
	t.Parallel()

	ok := &Series{Symbol: "AAA", Bars: []Bar{
		{Date: d(0), Close: 100},
		{Date: d(1), Close: 101},
	}}
	assert.NoError(t, ok.Validate())

	empty := &Series{Symbol: "AAA"}
	assert.Error(t, empty.Validate())

	badClose := &Series{Symbol: "AAA", Bars: []Bar{{Date: d(0), Close: 0}}}
	assert.Error(t, badClose.Validate())

	outOfOrder := &Series{Symbol: "AAA", Bars: []Bar{
		{Date: d(1), Close: 100},
		{Date: d(0), Close: 101},
	}}
	assert.Error(t, outOfOrder.Validate())

	duplicate := &Series{Symbol: "AAA", Bars: []Bar{
		{Date: d(0), Close: 100},
		{Date: d(0), Close: 101},
	}}
	assert.Error(t, duplicate.Validate())
}

func TestSeriesAt(t *testing.T) {
	t.Parallel()

	s := &Series{Symbol: "AAA", Bars: []Bar{
		{Date: d(0), Close: 100},
		{Date: d(2), Close: 102},
	}}

	bar, ok := s.At(d(0))
	assert.True(t, ok)
	assert.Equal(t, 100.0, bar.Close)

	// Lookup normalizes intraday timestamps to the day.
	bar, ok = s.At(d(2).Add(14 * time.Hour))
	assert.True(t, ok)
	assert.Equal(t, 102.0, bar.Close)

	_, ok = s.At(d(1))
	assert.False(t, ok, "halted day has no bar")
}

func TestUnionDates(t *testing.T) {
	t.Parallel()

	a := &Series{Symbol: "AAA", Bars: []Bar{
		{Date: d(0), Close: 1}, {Date: d(1), Close: 1}, {Date: d(3), Close: 1},
	}}
	b := &Series{Symbol: "BBB", Bars: []Bar{
		{Date: d(1), Close: 1}, {Date: d(2), Close: 1},
	}}

	got := UnionDates(a, b)
	want := []time.Time{d(0), d(1), d(2), d(3)}
	assert.Equal(t, want, got)
}

func TestDayTruncates(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 15, 30, 45, 123, time.UTC)
	assert.Equal(t, d(0), Day(ts))

	est := time.FixedZone("EST", -5*3600)
	assert.Equal(t, d(0), Day(time.Date(2024, 5, 1, 10, 0, 0, 0, est).UTC()))
}
