// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	transactions *csv.Writer
	valuations   *csv.Writer
	rejections   *csv.Writer
	tf, vf, rf   *os.File
}

func NewCSV(transactionsPath, valuationsPath, rejectionsPath string) (*CSVJournal, error) {
	tf, err := os.Create(transactionsPath)
	if err != nil {
		return nil, err
	}
	vf, err := os.Create(valuationsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}
	rf, err := os.Create(rejectionsPath)
	if err != nil {
		tf.Close()
		vf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	vw := csv.NewWriter(vf)
	rw := csv.NewWriter(rf)

	if err := tw.Write([]string{"run_id", "symbol", "date", "type", "price", "shares", "value", "realized_pl", "consecutive", "requirement_pct"}); err != nil {
		return nil, err
	}
	if err := vw.Write([]string{"run_id", "date", "cash", "deployed", "market_value", "equity", "margin_used"}); err != nil {
		return nil, err
	}
	if err := rw.Write([]string{"run_id", "symbol", "date", "reason", "shortfall", "holders"}); err != nil {
		return nil, err
	}

	for _, w := range []*csv.Writer{tw, vw, rw} {
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
	}

	return &CSVJournal{tw, vw, rw, tf, vf, rf}, nil
}

func (j *CSVJournal) RecordTransaction(t TransactionRecord) error {
	err := j.transactions.Write([]string{
		t.RunID,
		t.Symbol,
		t.Date.Format(time.RFC3339),
		t.Type,
		f(t.Price),
		f(t.Shares),
		f(t.Value),
		f(t.RealizedPL),
		strconv.Itoa(t.Consecutive),
		f(t.RequirementPct),
	})
	if err != nil {
		return err
	}
	j.transactions.Flush()
	return j.transactions.Error()
}

func (j *CSVJournal) RecordValuation(v ValuationRecord) error {
	err := j.valuations.Write([]string{
		v.RunID,
		v.Date.Format(time.RFC3339),
		f(v.Cash),
		f(v.Deployed),
		f(v.MarketValue),
		f(v.Equity),
		f(v.MarginUsed),
	})
	if err != nil {
		return err
	}
	j.valuations.Flush()
	return j.valuations.Error()
}

func (j *CSVJournal) RecordRejection(r RejectionRecord) error {
	err := j.rejections.Write([]string{
		r.RunID,
		r.Symbol,
		r.Date.Format(time.RFC3339),
		r.Reason,
		f(r.Shortfall),
		r.Holders,
	})
	if err != nil {
		return err
	}
	j.rejections.Flush()
	return j.rejections.Error()
}

func (j *CSVJournal) Close() error {
	for _, w := range []*csv.Writer{j.transactions, j.valuations, j.rejections} {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}
	for _, fh := range []*os.File{j.tf, j.vf, j.rf} {
		if err := fh.Close(); err != nil {
			return err
		}
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
