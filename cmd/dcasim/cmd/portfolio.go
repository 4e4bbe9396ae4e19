package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/dcasim/config"
	"github.com/rustyeddy/dcasim/history"
	"github.com/rustyeddy/dcasim/market"
	"github.com/rustyeddy/dcasim/portfolio"
	"github.com/rustyeddy/dcasim/riskfactor"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Run a multi-instrument portfolio from a config file",
	Long: `Portfolio runs several instruments against one shared capital pool.

The config file specifies the capital pool, strategy defaults, the
instrument list with per-instrument overrides, and the journal sink.
Buy signals that the pool cannot fund are rejected and logged.

Example:
  dcasim portfolio -f examples/configs/portfolio.yaml`,
	RunE: runPortfolio,
}

var portfolioConfigPath string

func init() {
	rootCmd.AddCommand(portfolioCmd)

	portfolioCmd.Flags().StringVarP(&portfolioConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	portfolioCmd.MarkFlagRequired("config")
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(portfolioConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	start, end, err := cfg.Run.StartEnd()
	if err != nil {
		return err
	}

	chain, err := buildChain(cfg.Data)
	if err != nil {
		return err
	}

	symbols := make([]string, 0, len(cfg.Instruments))
	for _, in := range cfg.Instruments {
		symbols = append(symbols, in.Symbol)
	}
	if cfg.Run.BenchmarkSym != "" {
		symbols = append(symbols, cfg.Run.BenchmarkSym)
	}

	ctx := context.Background()
	fetched, err := chain.FetchAll(ctx, symbols, start, end)
	if err != nil {
		return err
	}
	series := history.SeriesOf(fetched)

	betas := betaResolver(cfg)

	instruments := make([]portfolio.Instrument, 0, len(cfg.Instruments))
	for _, in := range cfg.Instruments {
		params, err := cfg.InstrumentParams(in)
		if err != nil {
			return fmt.Errorf("instrument %s: %w", in.Symbol, err)
		}
		beta := 0.0
		if in.Beta != nil {
			beta = *in.Beta
		} else if cfg.Portfolio.BetaAllocation {
			beta = betas.Resolve(ctx, in.Symbol).Beta
		}
		instruments = append(instruments, portfolio.Instrument{
			Symbol: in.Symbol,
			Series: series[in.Symbol],
			Params: params,
			Beta:   beta,
		})
	}

	j, err := buildJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	alloc, err := portfolio.NewAllocator(cfg.PortfolioParams(), instruments)
	if err != nil {
		return err
	}
	alloc.SetJournal(j)

	res, err := alloc.Run()
	if err != nil {
		return err
	}

	var benchmark *market.Series
	if cfg.Run.BenchmarkSym != "" {
		benchmark = series[cfg.Run.BenchmarkSym]
	}
	printReport(res, benchmark, cfg.Run.RiskFreePct)
	return nil
}

// betaResolver builds the beta lookup chain: explicit config values beat
// the HTTP source, which degrades to the market default.
func betaResolver(cfg *config.Config) *riskfactor.Chain {
	var providers []riskfactor.Provider

	static := &riskfactor.StaticProvider{Betas: map[string]float64{}}
	for _, in := range cfg.Instruments {
		if in.Beta != nil {
			static.Betas[in.Symbol] = *in.Beta
		}
	}
	if len(static.Betas) > 0 {
		providers = append(providers, static)
	}

	url := cfg.Portfolio.BetaSourceURL
	if url == "" {
		url = os.Getenv("BETA_API_URL")
	}
	if url != "" {
		providers = append(providers, riskfactor.NewHTTP(url))
	}

	return riskfactor.NewChain(providers...)
}
