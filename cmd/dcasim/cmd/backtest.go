package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/dcasim/dca"
	"github.com/rustyeddy/dcasim/history"
	"github.com/rustyeddy/dcasim/journal"
	"github.com/rustyeddy/dcasim/portfolio"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest one instrument with the grid strategy",
	Long: `Backtest runs the grid strategy against one instrument's daily history.

Buys space down the grid from the last fill, sells require the profit
target over cost, and both sides execute through trailing stop orders.

Example:
  dcasim backtest -s AAPL --start 2022-01-01 --end 2024-01-01 --capital 100000`,
	RunE: runBacktest,
}

var (
	btSymbol    string
	btStart     string
	btEnd       string
	btCapital   float64
	btLotSize   float64
	btMaxLots   int
	btGridPct   float64
	btProfitPct float64
	btGridInc   bool
	btProfitInc bool
	btAdaptive  bool
	btMomentum  bool
	btMarket    bool
	btCSVDir    string
	btCacheDir  string
	btDBPath    string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "", "instrument symbol (required)")
	backtestCmd.Flags().StringVar(&btStart, "start", "", "history start date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&btEnd, "end", "", "history end date YYYY-MM-DD (required)")
	backtestCmd.Flags().Float64VarP(&btCapital, "capital", "c", 100_000, "capital for the run")
	backtestCmd.Flags().Float64Var(&btLotSize, "lot-size", 10_000, "dollars per buy")
	backtestCmd.Flags().IntVar(&btMaxLots, "max-lots", 10, "max open lots")
	backtestCmd.Flags().Float64Var(&btGridPct, "grid", 0.10, "min drop from last buy for the next buy")
	backtestCmd.Flags().Float64Var(&btProfitPct, "profit", 0.05, "min gain over cost for a sell")
	backtestCmd.Flags().BoolVar(&btGridInc, "grid-incremental", false, "widen the grid with each consecutive buy")
	backtestCmd.Flags().BoolVar(&btProfitInc, "profit-incremental", false, "raise the profit target with each consecutive sell")
	backtestCmd.Flags().BoolVar(&btAdaptive, "adaptive", false, "position-status gating and profile switching")
	backtestCmd.Flags().BoolVar(&btMomentum, "momentum", false, "momentum mode: immediate stops, no averaging down at a loss")
	backtestCmd.Flags().BoolVar(&btMarket, "market-orders", false, "use market orders instead of limit orders")
	backtestCmd.Flags().StringVar(&btCSVDir, "csv-dir", "", "read history from <dir>/<SYMBOL>.csv instead of Yahoo")
	backtestCmd.Flags().StringVar(&btCacheDir, "cache-dir", "./history-cache", "history cache directory ('' disables)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "", "journal results to this SQLite file")

	backtestCmd.MarkFlagRequired("symbol")
	backtestCmd.MarkFlagRequired("start")
	backtestCmd.MarkFlagRequired("end")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	start, err := time.Parse("2006-01-02", btStart)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse("2006-01-02", btEnd)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}

	params := dca.Defaults()
	params.LotSize = btLotSize
	params.MaxLots = btMaxLots
	params.GridPct = btGridPct
	params.ProfitPct = btProfitPct
	params.GridIncremental = btGridInc
	params.ProfitIncremental = btProfitInc
	params.Adaptive = btAdaptive
	params.Momentum = btMomentum
	if btMarket {
		params.OrderType = dca.Market
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("params: %w", err)
	}

	var chain *history.Chain
	if btCSVDir != "" {
		chain = history.NewChain(history.NewCSV(btCSVDir))
	} else {
		chain = history.NewChain(history.NewYahoo())
	}
	if btCacheDir != "" {
		cache, err := history.NewCache(btCacheDir)
		if err != nil {
			return err
		}
		chain.SetCache(cache)
	}

	res, err := chain.Fetch(context.Background(), btSymbol, start, end)
	if err != nil {
		return err
	}
	fmt.Printf("Backtesting %s: %d bars from %s\n", btSymbol, len(res.Series.Bars), res.Provenance.Source)

	var configure []func(*portfolio.Allocator)
	if btDBPath != "" {
		j, err := journal.NewSQLite(btDBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer j.Close()
		configure = append(configure, func(a *portfolio.Allocator) { a.SetJournal(j) })
	}

	run, err := portfolio.RunSingle(portfolio.Instrument{
		Symbol: btSymbol,
		Series: res.Series,
		Params: params,
	}, btCapital, configure...)
	if err != nil {
		return err
	}

	printReport(run, res.Series, 0)
	return nil
}
