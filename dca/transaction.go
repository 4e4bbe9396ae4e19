package dca

import "time"

// TxType is the side of an executed transaction.
type TxType int

const (
	TxBuy TxType = iota
	TxSell
)

func (t TxType) String() string {
	if t == TxSell {
		return "sell"
	}
	return "buy"
}

// Transaction is the immutable, append-only audit record of one executed
// trade. It is also the only channel through which the portfolio allocator
// observes what an executor did on a given day.
type Transaction struct {
	ID          int
	Date        time.Time
	Type        TxType
	Price       float64
	Shares      float64
	Value       float64
	RealizedPNL float64

	// Lots is a snapshot of the open lots after this transaction.
	Lots []Lot

	// Consecutive is the streak count at execution; RequirementPct the
	// grid spacing or profit requirement the trade was held to. Logging
	// these from the same computation that enforced them keeps the audit
	// trail in sync with the state machine.
	Consecutive    int
	RequirementPct float64
}
