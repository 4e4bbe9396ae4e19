package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/dcasim/dca"
	"github.com/rustyeddy/dcasim/history"
	"github.com/rustyeddy/dcasim/portfolio"
	"github.com/rustyeddy/dcasim/stats"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep grid and profit parameters over one instrument",
	Long: `Sweep backtests every combination of the given grid and profit
percentages against one instrument and ranks the results.

History is fetched once; each combination runs on its own copy of the
capital pool, so results are independent.

Example:
  dcasim sweep -s AAPL --start 2022-01-01 --end 2024-01-01 \
    --grids 0.05,0.10,0.15 --profits 0.03,0.05,0.08`,
	RunE: runSweep,
}

var (
	swSymbol   string
	swStart    string
	swEnd      string
	swCapital  float64
	swLotSize  float64
	swMaxLots  int
	swGrids    string
	swProfits  string
	swCSVDir   string
	swCacheDir string
	swTop      int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&swSymbol, "symbol", "s", "", "instrument symbol (required)")
	sweepCmd.Flags().StringVar(&swStart, "start", "", "history start date YYYY-MM-DD (required)")
	sweepCmd.Flags().StringVar(&swEnd, "end", "", "history end date YYYY-MM-DD (required)")
	sweepCmd.Flags().Float64VarP(&swCapital, "capital", "c", 100_000, "capital per run")
	sweepCmd.Flags().Float64Var(&swLotSize, "lot-size", 10_000, "dollars per buy")
	sweepCmd.Flags().IntVar(&swMaxLots, "max-lots", 10, "max open lots")
	sweepCmd.Flags().StringVar(&swGrids, "grids", "0.05,0.10,0.15", "comma-separated grid percentages")
	sweepCmd.Flags().StringVar(&swProfits, "profits", "0.03,0.05,0.08", "comma-separated profit percentages")
	sweepCmd.Flags().StringVar(&swCSVDir, "csv-dir", "", "read history from <dir>/<SYMBOL>.csv instead of Yahoo")
	sweepCmd.Flags().StringVar(&swCacheDir, "cache-dir", "./history-cache", "history cache directory ('' disables)")
	sweepCmd.Flags().IntVar(&swTop, "top", 10, "show the top N results")

	sweepCmd.MarkFlagRequired("symbol")
	sweepCmd.MarkFlagRequired("start")
	sweepCmd.MarkFlagRequired("end")
}

type sweepResult struct {
	gridPct   float64
	profitPct float64
	report    stats.Report
}

func runSweep(cmd *cobra.Command, args []string) error {
	start, err := time.Parse("2006-01-02", swStart)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse("2006-01-02", swEnd)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	grids, err := parseFloats(swGrids)
	if err != nil {
		return fmt.Errorf("grids: %w", err)
	}
	profits, err := parseFloats(swProfits)
	if err != nil {
		return fmt.Errorf("profits: %w", err)
	}

	var chain *history.Chain
	if swCSVDir != "" {
		chain = history.NewChain(history.NewCSV(swCSVDir))
	} else {
		chain = history.NewChain(history.NewYahoo())
	}
	if swCacheDir != "" {
		cache, err := history.NewCache(swCacheDir)
		if err != nil {
			return err
		}
		chain.SetCache(cache)
	}

	fetched, err := chain.Fetch(context.Background(), swSymbol, start, end)
	if err != nil {
		return err
	}
	series := fetched.Series
	fmt.Printf("Sweeping %s: %d bars, %d combinations\n",
		swSymbol, len(series.Bars), len(grids)*len(profits))

	results := make([]sweepResult, 0, len(grids)*len(profits))
	var g errgroup.Group
	g.SetLimit(4)

	out := make(chan sweepResult, len(grids)*len(profits))
	for _, gridPct := range grids {
		for _, profitPct := range profits {
			gridPct, profitPct := gridPct, profitPct
			g.Go(func() error {
				params := dca.Defaults()
				params.LotSize = swLotSize
				params.MaxLots = swMaxLots
				params.GridPct = gridPct
				params.ProfitPct = profitPct
				if err := params.Validate(); err != nil {
					return fmt.Errorf("grid %.2f profit %.2f: %w", gridPct, profitPct, err)
				}

				run, err := portfolio.RunSingle(portfolio.Instrument{
					Symbol: swSymbol,
					Series: series,
					Params: params,
				}, swCapital)
				if err != nil {
					return err
				}
				out <- sweepResult{
					gridPct:   gridPct,
					profitPct: profitPct,
					report:    stats.Summarize(run, series, 0),
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	close(out)
	for r := range out {
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].report.TotalReturnPct > results[j].report.TotalReturnPct
	})

	n := swTop
	if n > len(results) {
		n = len(results)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nGRID\tPROFIT\tRETURN\tMAXDD\tSHARPE\tTRADES")
	for _, r := range results[:n] {
		fmt.Fprintf(w, "%.2f%%\t%.2f%%\t%.2f%%\t%.2f%%\t%.2f\t%d\n",
			r.gridPct*100, r.profitPct*100,
			r.report.TotalReturnPct, r.report.MaxDrawdownPct,
			r.report.Sharpe, r.report.Trades)
	}
	w.Flush()
	return nil
}

func parseFloats(csv string) ([]float64, error) {
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		if f <= 0 || f > 1 {
			return nil, fmt.Errorf("percentage %v out of (0,1]", f)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
