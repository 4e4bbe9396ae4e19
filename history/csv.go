package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rustyeddy/dcasim/market"
)

// CSVProvider reads bars from <dir>/<SYMBOL>.csv with a
// date,open,high,low,close,adj_close,volume header row. It is the offline,
// fully deterministic data source for tests and archived runs.
type CSVProvider struct {
	Dir string
}

func NewCSV(dir string) *CSVProvider { return &CSVProvider{Dir: dir} }

func (c *CSVProvider) Name() string { return "csv" }

func (c *CSVProvider) History(_ context.Context, symbol string, start, end time.Time) (*market.Series, error) {
	path := filepath.Join(c.Dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv history %s: %w", symbol, err)
	}
	defer f.Close()

	bars, err := ReadBars(f)
	if err != nil {
		return nil, fmt.Errorf("csv history %s: %w", symbol, err)
	}

	start, end = market.Day(start), market.Day(end)
	var inRange []market.Bar
	for _, b := range bars {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		inRange = append(inRange, b)
	}
	if len(inRange) == 0 {
		return nil, fmt.Errorf("csv history %s: no bars in range", symbol)
	}

	s := &market.Series{Symbol: symbol, Bars: FillGaps(inRange)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadBars parses a bar CSV. The header row is required; rows must carry at
// least date and close, with missing optional fields treated as a data
// error so a half-written file never slips into a run.
func ReadBars(r io.Reader) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, required := range []string{"date", "open", "high", "low", "close", "adj_close", "volume"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var bars []market.Bar
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		date, err := time.Parse("2006-01-02", rec[col["date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date %q", line, rec[col["date"]])
		}
		b := market.Bar{Date: market.Day(date)}
		for _, fld := range []struct {
			name string
			dst  *float64
		}{
			{"open", &b.Open},
			{"high", &b.High},
			{"low", &b.Low},
			{"close", &b.Close},
			{"adj_close", &b.AdjClose},
		} {
			v, err := strconv.ParseFloat(rec[col[fld.name]], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad %s %q", line, fld.name, rec[col[fld.name]])
			}
			*fld.dst = v
		}
		vol, err := strconv.ParseInt(rec[col["volume"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad volume %q", line, rec[col["volume"]])
		}
		b.Volume = vol
		bars = append(bars, b)
	}
	return bars, nil
}
