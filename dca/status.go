package dca

// PositionStatus classifies a position by its unrealized P&L against a
// fixed threshold. An empty position is neutral.
type PositionStatus int

const (
	StatusNeutral PositionStatus = iota
	StatusWinning
	StatusLosing
)

func (s PositionStatus) String() string {
	switch s {
	case StatusWinning:
		return "winning"
	case StatusLosing:
		return "losing"
	default:
		return "neutral"
	}
}

// Classify compares the unrealized P&L ratio against the threshold.
func Classify(price, averageCost, thresholdPct float64) PositionStatus {
	if averageCost <= 0 {
		return StatusNeutral
	}
	ratio := (price - averageCost) / averageCost
	switch {
	case ratio >= thresholdPct:
		return StatusWinning
	case ratio <= -thresholdPct:
		return StatusLosing
	default:
		return StatusNeutral
	}
}
