package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTransaction(t TransactionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO transactions
		(run_id, symbol, date, type, price, shares, value, realized_pl, consecutive, requirement_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Symbol, t.Date, t.Type, t.Price,
		t.Shares, t.Value, t.RealizedPL, t.Consecutive, t.RequirementPct,
	)
	return err
}

func (j *SQLiteJournal) RecordValuation(v ValuationRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO valuations
		(run_id, date, cash, deployed, market_value, equity, margin_used)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.RunID, v.Date, v.Cash, v.Deployed, v.MarketValue, v.Equity, v.MarginUsed,
	)
	return err
}

func (j *SQLiteJournal) RecordRejection(r RejectionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO rejections
		(run_id, symbol, date, reason, shortfall, holders)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Symbol, r.Date, r.Reason, r.Shortfall, r.Holders,
	)
	return err
}

// ListTransactions returns a run's transactions ordered by date, for the
// CLI summary and the stats helpers.
func (j *SQLiteJournal) ListTransactions(runID string) ([]TransactionRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, symbol, date, type, price, shares, value, realized_pl, consecutive, requirement_pct
		FROM transactions WHERE run_id = ? ORDER BY date, symbol`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRecord
	for rows.Next() {
		var t TransactionRecord
		if err := rows.Scan(&t.RunID, &t.Symbol, &t.Date, &t.Type, &t.Price,
			&t.Shares, &t.Value, &t.RealizedPL, &t.Consecutive, &t.RequirementPct); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
