package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rustyeddy/dcasim/market"
)

// Cache is a directory of previously fetched series, one JSON file per
// symbol and range. It exists for the degraded tail of the fallback chain:
// when every live provider fails, a stale cached series is still better
// than aborting the run, as long as the staleness is reported.
type Cache struct {
	Dir string
}

func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history cache: %w", err)
	}
	return &Cache{Dir: dir}, nil
}

type cacheEntry struct {
	Source    string       `json:"source"`
	FetchedAt time.Time    `json:"fetched_at"`
	Bars      []market.Bar `json:"bars"`
}

func (c *Cache) path(symbol string, start, end time.Time) string {
	name := fmt.Sprintf("%s_%s_%s.json",
		symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return filepath.Join(c.Dir, name)
}

func (c *Cache) Put(symbol string, start, end time.Time, source string, s *market.Series) error {
	entry := cacheEntry{
		Source:    source,
		FetchedAt: time.Now().UTC(),
		Bars:      s.Bars,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(symbol, start, end), data, 0o644)
}

// Get returns the cached series with its original source and fetch time.
func (c *Cache) Get(symbol string, start, end time.Time) (*market.Series, Provenance, bool) {
	data, err := os.ReadFile(c.path(symbol, start, end))
	if err != nil {
		return nil, Provenance{}, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, Provenance{}, false
	}
	s := &market.Series{Symbol: symbol, Bars: entry.Bars}
	if s.Validate() != nil {
		return nil, Provenance{}, false
	}
	return s, Provenance{
		Source:    "cache:" + entry.Source,
		Stale:     true,
		FetchedAt: entry.FetchedAt,
	}, true
}
