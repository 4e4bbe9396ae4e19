package market

import "time"

// Bar is one daily OHLCV price bar. Dates are calendar days at UTC midnight;
// intraday resolution is out of scope for the simulator.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// Day truncates t to its UTC calendar day. All bar dates and simulation
// dates go through this so map keys and comparisons line up.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
