package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalWritesAllThreeFiles(t *testing.T) {
	dir := t.TempDir()
	tPath := filepath.Join(dir, "transactions.csv")
	vPath := filepath.Join(dir, "valuations.csv")
	rPath := filepath.Join(dir, "rejections.csv")

	j, err := NewCSV(tPath, vPath, rPath)
	require.NoError(t, err)

	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTransaction(TransactionRecord{
		RunID: "run-1", Symbol: "AAA", Date: date, Type: "buy",
		Price: 89, Shares: 112.359551, Value: 10_000, Consecutive: 1, RequirementPct: 0.10,
	}))
	require.NoError(t, j.RecordValuation(ValuationRecord{
		RunID: "run-1", Date: date, Cash: 5_000, Deployed: 10_000,
		MarketValue: 10_000, Equity: 15_000,
	}))
	require.NoError(t, j.RecordRejection(RejectionRecord{
		RunID: "run-1", Symbol: "BBB", Date: date,
		Reason: "insufficient capital", Shortfall: 5_000, Holders: "AAA",
	}))
	require.NoError(t, j.Close())

	txs := readAll(t, tPath)
	require.Len(t, txs, 2)
	assert.Equal(t, "run_id", txs[0][0], "header row")
	assert.Equal(t, "AAA", txs[1][1])
	assert.Equal(t, "buy", txs[1][3])
	assert.Equal(t, "89.000000", txs[1][4])

	vals := readAll(t, vPath)
	require.Len(t, vals, 2)
	assert.Equal(t, "15000.000000", vals[1][5])

	rejs := readAll(t, rPath)
	require.Len(t, rejs, 2)
	assert.Equal(t, "insufficient capital", rejs[1][3])
	assert.Equal(t, "AAA", rejs[1][5])
}

// Every record is flushed as it lands, so a crashed run still leaves a
// readable journal.
func TestCSVJournalFlushesPerRecord(t *testing.T) {
	dir := t.TempDir()
	tPath := filepath.Join(dir, "transactions.csv")

	j, err := NewCSV(tPath, filepath.Join(dir, "v.csv"), filepath.Join(dir, "r.csv"))
	require.NoError(t, err)

	require.NoError(t, j.RecordTransaction(TransactionRecord{
		RunID: "run-1", Symbol: "AAA", Type: "buy", Date: time.Now(),
	}))

	// Read before Close.
	rows := readAll(t, tPath)
	assert.Len(t, rows, 2)
	require.NoError(t, j.Close())
}
