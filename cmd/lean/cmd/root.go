package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lean",
	Short: "Signal-driven crypto strategy with bracket orders",
	Long: `Lean runs a single-instrument crypto strategy against historical bars.

It provides tools for:
  - Backtesting MACD, Parabolic SAR and RSI entry/exit signals
  - Take-profit and stop-loss brackets on every entry fill
  - Fill and equity journals in CSV or SQLite
  - Generating and validating configuration files`,
	SilenceUsage: true,
}

var (
	logLevel  string
	logFormat string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level from the config (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log.format from the config (console, json)")
}
