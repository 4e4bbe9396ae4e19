package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the dcasim CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dcasim version %s\n", version)
		fmt.Println("A dollar-cost-averaging backtest engine with portfolio capital allocation")
		fmt.Println("https://github.com/rustyeddy/dcasim")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
