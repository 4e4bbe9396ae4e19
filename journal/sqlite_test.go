package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "run.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteRoundTrip(t *testing.T) {
	j := newSQLite(t)

	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTransaction(TransactionRecord{
		RunID:          "run-1",
		Symbol:         "AAA",
		Date:           date,
		Type:           "buy",
		Price:          89,
		Shares:         112.3595,
		Value:          10_000,
		Consecutive:    1,
		RequirementPct: 0.10,
	}))
	require.NoError(t, j.RecordTransaction(TransactionRecord{
		RunID:       "run-1",
		Symbol:      "AAA",
		Date:        date.AddDate(0, 0, 3),
		Type:        "sell",
		Price:       96,
		Shares:      112.3595,
		Value:       10_786.51,
		RealizedPL:  786.51,
		Consecutive: 1,
	}))
	require.NoError(t, j.RecordTransaction(TransactionRecord{
		RunID: "other-run", Symbol: "BBB", Date: date, Type: "buy",
	}))

	got, err := j.ListTransactions("run-1")
	require.NoError(t, err)
	require.Len(t, got, 2, "other runs are filtered out")

	assert.Equal(t, "buy", got[0].Type)
	assert.Equal(t, "sell", got[1].Type)
	assert.InDelta(t, 786.51, got[1].RealizedPL, 1e-9)
	assert.Equal(t, 1, got[0].Consecutive)
}

func TestSQLiteRecordsValuationsAndRejections(t *testing.T) {
	j := newSQLite(t)

	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordValuation(ValuationRecord{
		RunID: "run-1", Date: date, Cash: 5_000, Deployed: 10_000,
		MarketValue: 10_000, Equity: 15_000,
	}))
	require.NoError(t, j.RecordRejection(RejectionRecord{
		RunID: "run-1", Symbol: "BBB", Date: date,
		Reason: "insufficient capital", Shortfall: 5_000, Holders: "AAA",
	}))

	var n int
	require.NoError(t, j.db.QueryRow(`SELECT COUNT(*) FROM valuations`).Scan(&n))
	assert.Equal(t, 1, n)
	require.NoError(t, j.db.QueryRow(`SELECT COUNT(*) FROM rejections`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteSchemaIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.sqlite")

	j1, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, j1.Close())

	// Reopening the same file re-runs the schema without error.
	j2, err := NewSQLite(path)
	require.NoError(t, err)
	assert.NoError(t, j2.Close())
}
