package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,open,high,low,close,adj_close,volume
2024-05-06,100,102,99,101,101,1000
2024-05-07,101,103,100,102,102,1100
2024-05-08,102,104,101,103,103,1200
`

func TestReadBars(t *testing.T) {
	t.Parallel()

	bars, err := ReadBars(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, int64(1200), bars[2].Volume)
}

func TestReadBarsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"missing column",
			"date,open,high,low,close\n2024-05-06,1,1,1,1\n",
			"missing column",
		},
		{
			"bad date",
			"date,open,high,low,close,adj_close,volume\nnot-a-date,1,1,1,1,1,1\n",
			"bad date",
		},
		{
			"bad close",
			"date,open,high,low,close,adj_close,volume\n2024-05-06,1,1,1,oops,1,1\n",
			"bad close",
		},
		{
			"bad volume",
			"date,open,high,low,close,adj_close,volume\n2024-05-06,1,1,1,1,1,1.5\n",
			"bad volume",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBars(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCSVProviderRangeAndMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAA.csv"), []byte(sampleCSV), 0o644))

	p := NewCSV(dir)
	ctx := context.Background()

	s, err := p.History(ctx,
		"AAA",
		time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, s.Bars, 2, "range filter trims the first bar")
	assert.Equal(t, "AAA", s.Symbol)

	_, err = p.History(ctx, "AAA",
		time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err, "empty range is an error")

	_, err = p.History(ctx, "NOPE",
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}
