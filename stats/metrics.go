// Package stats derives performance metrics from a finished run's result
// data. Everything here is a pure function over the daily equity series and
// the transaction log; nothing feeds back into the simulation.
package stats

import "math"

const tradingDaysPerYear = 252

// TotalReturnPct is the percent change from the first to the last equity
// point.
func TotalReturnPct(equity []float64) float64 {
	if len(equity) < 2 || equity[0] == 0 {
		return 0
	}
	return (equity[len(equity)-1] - equity[0]) / equity[0] * 100
}

// CAGRPct annualizes the total return over the observed number of trading
// days.
func CAGRPct(equity []float64) float64 {
	n := len(equity)
	if n < 2 || equity[0] <= 0 || equity[n-1] <= 0 {
		return 0
	}
	years := float64(n-1) / tradingDaysPerYear
	if years <= 0 {
		return 0
	}
	return (math.Pow(equity[n-1]/equity[0], 1/years) - 1) * 100
}

// MaxDrawdownPct is the deepest peak-to-trough equity decline, as a
// positive percentage.
func MaxDrawdownPct(equity []float64) float64 {
	var peak, worst float64
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		if peak > 0 {
			if dd := (peak - e) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst * 100
}

// dailyReturns converts the equity curve into simple daily returns.
func dailyReturns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, equity[i]/equity[i-1]-1)
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// AnnualVolatilityPct is the annualized standard deviation of daily
// returns.
func AnnualVolatilityPct(equity []float64) float64 {
	return stddev(dailyReturns(equity)) * math.Sqrt(tradingDaysPerYear) * 100
}

// SharpeRatio annualizes mean daily excess return over daily volatility.
// riskFreeAnnualPct is the annual risk-free rate in percent.
func SharpeRatio(equity []float64, riskFreeAnnualPct float64) float64 {
	rets := dailyReturns(equity)
	sd := stddev(rets)
	if sd == 0 {
		return 0
	}
	rf := riskFreeAnnualPct / 100 / tradingDaysPerYear
	return (mean(rets) - rf) / sd * math.Sqrt(tradingDaysPerYear)
}

// SortinoRatio uses downside deviation only.
func SortinoRatio(equity []float64, riskFreeAnnualPct float64) float64 {
	rets := dailyReturns(equity)
	if len(rets) == 0 {
		return 0
	}
	rf := riskFreeAnnualPct / 100 / tradingDaysPerYear

	var downside []float64
	for _, r := range rets {
		if r < rf {
			downside = append(downside, r-rf)
		}
	}
	var dd float64
	if len(downside) > 0 {
		var ss float64
		for _, d := range downside {
			ss += d * d
		}
		dd = math.Sqrt(ss / float64(len(rets)))
	}
	if dd == 0 {
		return 0
	}
	return (mean(rets) - rf) / dd * math.Sqrt(tradingDaysPerYear)
}

// BuyHoldReturnPct is the benchmark: put all capital into the instrument at
// the first close and hold to the last.
func BuyHoldReturnPct(closes []float64) float64 {
	if len(closes) < 2 || closes[0] == 0 {
		return 0
	}
	return (closes[len(closes)-1] - closes[0]) / closes[0] * 100
}
