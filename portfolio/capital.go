package portfolio

import (
	"errors"
	"fmt"
	"math"
)

// ErrCapitalLeak marks the accounting invariant violation. It is a logic
// defect, never a recoverable condition: the run aborts immediately and
// nothing clamps the numbers back into shape.
var ErrCapitalLeak = errors.New("capital leak")

// LeakTolerance is the reconciliation slack, one cent. Anything beyond it
// means cash moved without a matching ledger entry.
const LeakTolerance = 0.01

// CheckInvariant verifies that deployed capital plus the cash reserve
// reconciles with the known inflows:
//
//	deployed + cash == totalCapital + realized + cashYield
func CheckInvariant(deployed, cash, totalCapital, realized, cashYield float64) error {
	lhs := deployed + cash
	rhs := totalCapital + realized + cashYield
	if diff := math.Abs(lhs - rhs); diff > LeakTolerance {
		return fmt.Errorf("%w: deployed %.2f + cash %.2f = %.2f, expected %.2f (off by %.4f)",
			ErrCapitalLeak, deployed, cash, lhs, rhs, lhs-rhs)
	}
	return nil
}

// Rejection reasons.
const (
	ReasonInsufficientCapital = "insufficient capital"
	ReasonMarginLimit         = "margin limit"
)
