// journal/journal.go
package journal

import "time"

// TransactionRecord is one executed trade as written to the result sink.
type TransactionRecord struct {
	RunID          string
	Symbol         string
	Date           time.Time
	Type           string // "buy" or "sell"
	Price          float64
	Shares         float64
	Value          float64
	RealizedPL     float64
	Consecutive    int
	RequirementPct float64
}

// ValuationRecord is the end-of-day portfolio snapshot.
type ValuationRecord struct {
	RunID       string
	Date        time.Time
	Cash        float64
	Deployed    float64
	MarketValue float64
	Equity      float64
	MarginUsed  float64
}

// RejectionRecord is a buy that signalled but could not be funded. Rejected
// orders are an expected simulation outcome, not an error.
type RejectionRecord struct {
	RunID     string
	Symbol    string
	Date      time.Time
	Reason    string
	Shortfall float64
	Holders   string // comma-joined symbols holding deployed capital
}

type Journal interface {
	RecordTransaction(TransactionRecord) error
	RecordValuation(ValuationRecord) error
	RecordRejection(RejectionRecord) error
	Close() error
}

// Nop discards everything; used when a run has no result sink configured.
type Nop struct{}

func (Nop) RecordTransaction(TransactionRecord) error { return nil }
func (Nop) RecordValuation(ValuationRecord) error     { return nil }
func (Nop) RecordRejection(RejectionRecord) error     { return nil }
func (Nop) Close() error                              { return nil }
