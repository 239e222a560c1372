// Package run wires the `papertrade run` command: load config, build the
// engine, replay the bar file, print the report, journal the run.
package run

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"papertrade/backtest"
	"papertrade/config"
	"papertrade/exec"
	"papertrade/journal"
	"papertrade/ledger"
	"papertrade/logging"
	"papertrade/market"
	"papertrade/perf"
	"papertrade/pkg/id"
	"papertrade/risk"
	"papertrade/strategy"
)

func New() *cobra.Command {
	var (
		cfgPath  string
		barsPath string
		closeEnd bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a CSV bar file through the configured strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if barsPath != "" {
				cfg.Data.Bars = barsPath
			}
			return runBacktest(cmd, cfg, closeEnd)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "run configuration file (YAML or JSON)")
	cmd.Flags().StringVar(&barsPath, "bars", "", "CSV bar file (overrides config)")
	cmd.Flags().BoolVar(&closeEnd, "close-end", true, "liquidate open positions at end of replay")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

func runBacktest(cmd *cobra.Command, cfg *config.Config, closeEnd bool) error {
	log := logging.New(cfg.Logging)

	from, to, err := dateRange(cfg.Data)
	if err != nil {
		return err
	}

	feed, err := market.NewCSVBarFeed(cfg.Data.Bars, from, to)
	if err != nil {
		return fmt.Errorf("open bars: %w", err)
	}

	source, err := buildStrategy(cfg.Strategy)
	if err != nil {
		return err
	}

	riskMgr := risk.New(cfg.Risk.Policy(), logging.Component(log, "risk"))

	led := ledger.New(ledger.Config{
		InitialCash: cfg.Account.Cash,
		Slippage:    cfg.Costs.BuildSlippage(),
		Commission:  cfg.Costs.BuildCommission(),
		Risk:        riskMgr,
		Log:         logging.Component(log, "ledger"),
	})

	executor := exec.New(exec.Config{
		Slippage:   cfg.Costs.BuildSlippage(),
		Commission: cfg.Costs.BuildCommission(),
		Impact:     cfg.Costs.BuildImpact(),
		Log:        logging.Component(log, "executor"),
	})

	jnl, err := buildJournal(cfg.Journal)
	if err != nil {
		return err
	}
	defer jnl.Close()

	var benchmark []ledger.Snapshot
	if cfg.Data.Benchmark != "" {
		benchmark, err = loadBenchmark(cfg.Data.Benchmark, from, to)
		if err != nil {
			return fmt.Errorf("load benchmark: %w", err)
		}
	}

	runner := &backtest.Runner{
		Feed:     feed,
		Source:   source,
		Ledger:   led,
		Exec:     executor,
		Risk:     riskMgr,
		Journal:  jnl,
		Analyzer: perf.NewAnalyzer(0, logging.Component(log, "perf")),
		Options: backtest.Options{
			Shares:    cfg.Strategy.Shares,
			CloseEnd:  closeEnd,
			Benchmark: benchmark,
		},
		Log: logging.Component(log, "runner"),
	}

	result, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	backtest.PrintResult(cmd.OutOrStdout(), result)

	if sq, ok := jnl.(*journal.SQLiteJournal); ok {
		stats := led.QuickStats()
		if err := sq.RecordRun(journal.Run{
			RunID:      id.New(),
			Created:    time.Now().UTC(),
			Strategy:   source.Name(),
			Dataset:    cfg.Data.Bars,
			Start:      result.Start,
			End:        result.End,
			StartCash:  result.StartCash,
			EndValue:   result.FinalValue,
			Trades:     stats.Trades,
			Wins:       stats.Wins,
			Losses:     stats.Losses,
			TotalRet:   result.Metrics.TotalReturn,
			Sharpe:     result.Metrics.Sharpe,
			MaxDDPct:   result.Metrics.MaxDrawdown * -100,
			WinRatePct: result.Metrics.Trades.WinRate * 100,
		}); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	return nil
}

func buildStrategy(cfg config.StrategyConfig) (strategy.SignalSource, error) {
	switch cfg.Name {
	case "sma-cross":
		return strategy.NewSMACross(cfg.Fast, cfg.Slow)
	case "noop", "":
		return strategy.Noop{}, nil
	}
	return nil, fmt.Errorf("unknown strategy: %s", cfg.Name)
}

func buildJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	case "csv":
		return journal.NewCSV(cfg.TradesFile, cfg.SnapshotsFile)
	}
	return journal.Nop{}, nil
}

func dateRange(cfg config.DataConfig) (from, to time.Time, err error) {
	if cfg.From != "" {
		from, err = time.Parse("2006-01-02", cfg.From)
		if err != nil {
			return
		}
	}
	if cfg.To != "" {
		to, err = time.Parse("2006-01-02", cfg.To)
	}
	return
}

// loadBenchmark reads a benchmark bar file into a value series: one
// snapshot per bar at the close.
func loadBenchmark(path string, from, to time.Time) ([]ledger.Snapshot, error) {
	feed, err := market.NewCSVBarFeed(path, from, to)
	if err != nil {
		return nil, err
	}
	defer feed.Close()

	var out []ledger.Snapshot
	for {
		bar, ok, err := feed.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, ledger.Snapshot{Date: bar.Date, TotalValue: bar.Close})
	}
}
