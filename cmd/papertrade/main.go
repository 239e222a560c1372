package main

import (
	"os"

	"github.com/spf13/cobra"

	"papertrade/cli/run"
)

func main() {
	root := &cobra.Command{
		Use:   "papertrade",
		Short: "Replay historical signals against historical bars",
		Long: `papertrade simulates a trading account over historical price bars:
orders, fills with realistic transaction costs, risk limits, and
risk-adjusted performance statistics.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		run.New(),
		newConfigCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
