package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/dcasim/market"
)

func bar(y int, m time.Month, d int, close float64) market.Bar {
	return market.Bar{
		Date:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Close:    close,
		AdjClose: close,
	}
}

func TestFillGapsBackfillsMissingWeekday(t *testing.T) {
	t.Parallel()

	// Tuesday missing between Monday and Wednesday.
	in := []market.Bar{
		bar(2024, 5, 6, 100),
		bar(2024, 5, 8, 104),
	}
	out := FillGaps(in)
	require.Len(t, out, 3)

	filled := out[1]
	assert.Equal(t, time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), filled.Date)
	assert.Equal(t, 100.0, filled.Close, "carry-forward uses the prior close")
	assert.Equal(t, 100.0, filled.Open)
	assert.Equal(t, int64(0), filled.Volume)
}

func TestFillGapsSkipsWeekends(t *testing.T) {
	t.Parallel()

	// Friday to Monday is not a gap.
	in := []market.Bar{
		bar(2024, 5, 3, 100),
		bar(2024, 5, 6, 101),
	}
	assert.Len(t, FillGaps(in), 2)

	// Friday to Wednesday fills Monday and Tuesday only.
	in = []market.Bar{
		bar(2024, 5, 3, 100),
		bar(2024, 5, 8, 101),
	}
	out := FillGaps(in)
	require.Len(t, out, 4)
	assert.Equal(t, time.Monday, out[1].Date.Weekday())
	assert.Equal(t, time.Tuesday, out[2].Date.Weekday())
}

func TestFillGapsShortInputs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FillGaps(nil))
	one := []market.Bar{bar(2024, 5, 6, 100)}
	assert.Equal(t, one, FillGaps(one))
}
