package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/dcasim/config"
	"github.com/rustyeddy/dcasim/history"
	"github.com/rustyeddy/dcasim/journal"
	"github.com/rustyeddy/dcasim/market"
	"github.com/rustyeddy/dcasim/portfolio"
	"github.com/rustyeddy/dcasim/stats"
)

// buildChain assembles the price history source from the data section.
func buildChain(data config.DataConfig) (*history.Chain, error) {
	var chain *history.Chain
	switch data.Source {
	case "csv":
		chain = history.NewChain(history.NewCSV(data.CSVDir))
	default:
		chain = history.NewChain(history.NewYahoo())
	}
	if data.CacheDir != "" {
		cache, err := history.NewCache(data.CacheDir)
		if err != nil {
			return nil, err
		}
		chain.SetCache(cache)
	}
	return chain, nil
}

// buildJournal opens the configured result sink.
func buildJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(jc.TransactionsFile, jc.ValuationsFile, jc.RejectionsFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}

// printReport writes the run digest to stdout.
func printReport(res *portfolio.Result, benchmark *market.Series, riskFreePct float64) {
	r := stats.Summarize(res, benchmark, riskFreePct)

	fmt.Printf("\nRun %s complete (%d trading days)\n\n", res.RunID, r.Days)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total Return\t%.2f%%\n", r.TotalReturnPct)
	fmt.Fprintf(w, "CAGR\t%.2f%%\n", r.CAGRPct)
	fmt.Fprintf(w, "Max Drawdown\t%.2f%%\n", r.MaxDrawdownPct)
	fmt.Fprintf(w, "Volatility (ann.)\t%.2f%%\n", r.AnnualVolPct)
	fmt.Fprintf(w, "Sharpe\t%.2f\n", r.Sharpe)
	fmt.Fprintf(w, "Sortino\t%.2f\n", r.Sortino)
	if benchmark != nil {
		fmt.Fprintf(w, "Buy & Hold\t%.2f%%\n", r.BuyHoldReturnPct)
		fmt.Fprintf(w, "Grid Suitability\t%.0f/100\n", r.Suitability)
	}
	fmt.Fprintf(w, "Realized P&L\t$%.2f\n", r.RealizedPNL)
	fmt.Fprintf(w, "Cash Yield\t$%.2f\n", r.CashYield)
	fmt.Fprintf(w, "Final Equity\t$%.2f\n", r.FinalEquity)
	fmt.Fprintf(w, "Trades\t%d\n", r.Trades)
	if r.DaysOnMargin > 0 {
		fmt.Fprintf(w, "Days on Margin\t%d\n", r.DaysOnMargin)
		fmt.Fprintf(w, "Max Margin Used\t$%.2f\n", r.MaxMarginUsed)
	}
	w.Flush()

	for _, in := range res.Instruments {
		f := in.Final
		fmt.Printf("\n%s: %d buys, %d sells, realized $%.2f, %d open lots",
			f.Symbol, f.Buys, f.Sells, f.RealizedPNL, f.OpenLots)
		if f.OpenLots > 0 {
			fmt.Printf(" (avg cost $%.2f, last $%.2f)", f.AverageCost, f.LastPrice)
		}
		fmt.Println()
	}

	if len(res.Rejected) > 0 {
		fmt.Printf("\n%d buy signals rejected for funding:\n", len(res.Rejected))
		for _, rej := range res.Rejected {
			fmt.Printf("  %s %s: %s (short $%.2f)\n",
				rej.Date.Format("2006-01-02"), rej.Symbol, rej.Reason, rej.Shortfall)
		}
	}
	for _, ex := range res.ExcludedIn {
		logrus.WithField("symbol", ex.Symbol).Warnf("excluded from run: %s", ex.Reason)
	}
}
