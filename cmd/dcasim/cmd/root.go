package cmd

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dcasim",
	Short: "A dollar-cost-averaging backtest engine with portfolio capital allocation",
	Long: `Dcasim backtests grid-style dollar-cost-averaging strategies against
daily price history.

It provides tools for:
  - Backtesting a single instrument with grid buys and trailing stops
  - Running multi-instrument portfolios against a shared capital pool
  - Sweeping grid and profit parameters to find robust settings
  - Journaling transactions and daily valuations to CSV or SQLite
  - Beta-weighted capital allocation across instruments

Complete documentation is available at https://github.com/rustyeddy/dcasim`,
}

var logLevel string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env may carry BETA_API_URL and data directories; absence is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cobra.OnInitialize(func() {
		lvl, err := logrus.ParseLevel(logLevel)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		logrus.SetLevel(lvl)
	})
}
