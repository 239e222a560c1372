// Package backtest drives a sequential replay: bars in, signals, orders,
// executions, snapshots, and finally a metrics record. One Runner owns one
// Ledger and one Executor; nothing is shared across runs.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"papertrade/exec"
	"papertrade/journal"
	"papertrade/ledger"
	"papertrade/market"
	"papertrade/perf"
	"papertrade/risk"
	"papertrade/strategy"
)

// Options controls runner behavior.
type Options struct {
	// Shares is the fixed order size for entry signals.
	Shares float64

	// CloseEnd liquidates open positions at the last seen close.
	CloseEnd bool

	// Benchmark is an optional value series for beta/alpha/IR metrics.
	Benchmark []ledger.Snapshot
}

// Runner replays a bar feed through a signal source against a ledger.
type Runner struct {
	Feed     market.BarFeed
	Source   strategy.SignalSource
	Ledger   *ledger.Ledger
	Exec     *exec.Executor
	Risk     *risk.Manager
	Journal  journal.Journal
	Analyzer *perf.Analyzer
	Options  Options
	Log      *logrus.Entry
}

// Run executes the replay loop. Bars are grouped by date so multi-symbol
// feeds produce one snapshot per period; within a period exits are checked
// before new entries, then all orders execute against their own symbol's
// bar.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Source == nil {
		return Result{}, fmt.Errorf("backtest: Source is required")
	}
	if r.Ledger == nil {
		return Result{}, fmt.Errorf("backtest: Ledger is required")
	}
	if r.Exec == nil {
		return Result{}, fmt.Errorf("backtest: Exec is required")
	}
	if r.Journal == nil {
		r.Journal = journal.Nop{}
	}
	if r.Log == nil {
		r.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	defer r.Feed.Close()

	r.Source.Reset()

	var (
		start, end time.Time
		period     []market.Bar
		lastClose  = map[string]float64{}
		journaled  int
	)

	flush := func(at time.Time) error {
		if len(period) == 0 {
			return nil
		}
		if err := r.step(period, at); err != nil {
			return err
		}
		journaled = r.journalNewTrades(journaled)
		period = period[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		bar, ok, err := r.Feed.Next()
		if err != nil {
			return Result{}, err
		}
		if !ok {
			break
		}

		if err := bar.Validate(); err != nil {
			r.Log.WithError(err).Warn("skipping invalid bar")
			continue
		}

		if len(period) > 0 && !bar.Date.Equal(period[0].Date) {
			if err := flush(period[0].Date); err != nil {
				return Result{}, err
			}
		}
		period = append(period, bar)
		lastClose[bar.Symbol] = bar.Close

		if start.IsZero() || bar.Date.Before(start) {
			start = bar.Date
		}
		if end.IsZero() || bar.Date.After(end) {
			end = bar.Date
		}
	}
	if err := flush(end); err != nil {
		return Result{}, err
	}

	if r.Options.CloseEnd {
		r.liquidate(lastClose, end)
		r.journalNewTrades(journaled)
	}

	return r.summarize(start, end), nil
}

// step processes one period: risk exits, strategy entries, batch
// execution, snapshot.
func (r *Runner) step(bars []market.Bar, at time.Time) error {
	var orders []*ledger.Order
	barsBySymbol := make(map[string]market.Bar, len(bars))
	closes := make(map[string]float64, len(bars))

	for _, b := range bars {
		barsBySymbol[b.Symbol] = b
		closes[b.Symbol] = b.Close
	}

	// Exits first: stop-loss/take-profit on open positions.
	for _, b := range bars {
		if o := r.exitOrder(b, at); o != nil {
			orders = append(orders, o)
		}
	}

	// Then strategy entries.
	for _, b := range bars {
		sig := r.Source.OnBar(b)
		if sig == nil || sig.Type == market.SignalHold {
			continue
		}
		if o := r.signalOrder(*sig, at); o != nil {
			orders = append(orders, o)
		}
	}

	for _, res := range r.Exec.BatchExecute(orders, barsBySymbol, at) {
		if res.Reject != nil {
			continue
		}
		if rej := r.Ledger.ExecuteOrder(res.Order, res.Fill.Price, at); rej != nil {
			r.Log.WithField("order", res.Order.ID).Warn(rej.Msg)
		}
	}

	snap := r.Ledger.UpdatePortfolio(closes, at)
	return r.Journal.RecordSnapshot(snap)
}

// exitOrder creates a sell order when the bar's close breaches the
// position's stop-loss or take-profit threshold.
func (r *Runner) exitOrder(b market.Bar, at time.Time) *ledger.Order {
	if r.Risk == nil {
		return nil
	}
	pos := r.Ledger.Position(b.Symbol)
	if pos == nil {
		return nil
	}

	stop := r.Risk.CheckStopLoss(b.Close, pos.AvgPrice, market.Buy)
	take := r.Risk.CheckTakeProfit(b.Close, pos.AvgPrice, market.Buy)
	if !stop && !take {
		return nil
	}

	o, rej := r.Ledger.CreateOrder(b.Symbol, market.Sell, pos.Shares, b.Close, at)
	if rej != nil {
		r.Log.WithField("symbol", b.Symbol).Warn(rej.Msg)
		return nil
	}
	return o
}

func (r *Runner) signalOrder(sig market.Signal, at time.Time) *ledger.Order {
	switch sig.Type {
	case market.SignalBuy:
		if r.Ledger.Position(sig.Symbol) != nil {
			return nil
		}
		o, rej := r.Ledger.CreateOrder(sig.Symbol, market.Buy, r.Options.Shares, sig.Price, at)
		if rej != nil {
			r.Log.WithFields(logrus.Fields{
				"symbol": sig.Symbol,
				"reason": rej.Code,
			}).Debug(rej.Msg)
			return nil
		}
		return o

	case market.SignalSell:
		pos := r.Ledger.Position(sig.Symbol)
		if pos == nil {
			return nil
		}
		o, rej := r.Ledger.CreateOrder(sig.Symbol, market.Sell, pos.Shares, sig.Price, at)
		if rej != nil {
			r.Log.WithField("symbol", sig.Symbol).Debug(rej.Msg)
			return nil
		}
		return o
	}
	return nil
}

// liquidate closes every open position at its last seen close via the
// ledger-driven execution path.
func (r *Runner) liquidate(lastClose map[string]float64, at time.Time) {
	for _, pos := range r.Ledger.Positions() {
		px, ok := lastClose[pos.Symbol]
		if !ok || px <= 0 {
			continue
		}
		o, rej := r.Ledger.CreateOrder(pos.Symbol, market.Sell, pos.Shares, px, at)
		if rej != nil {
			r.Log.WithField("symbol", pos.Symbol).Warn(rej.Msg)
			continue
		}
		if rej := r.Ledger.ExecuteOrder(o, px, at); rej != nil {
			r.Log.WithField("symbol", pos.Symbol).Warn(rej.Msg)
		}
	}
}

// journalNewTrades records trades closed since the previous call and
// returns the new high-water mark.
func (r *Runner) journalNewTrades(from int) int {
	trades := r.Ledger.Trades()
	for _, t := range trades[from:] {
		if err := r.Journal.RecordTrade(t); err != nil {
			r.Log.WithError(err).Warn("journal trade")
		}
	}
	return len(trades)
}

func (r *Runner) summarize(start, end time.Time) Result {
	analyzer := r.Analyzer
	if analyzer == nil {
		analyzer = perf.NewAnalyzer(0, r.Log)
	}

	res := Result{
		Start:      start,
		End:        end,
		StartCash:  r.Ledger.InitialCash(),
		FinalValue: r.Ledger.TotalValue(),
		Cash:       r.Ledger.Cash(),
		ExecStats:  r.Exec.Stats(),
		Metrics:    analyzer.ComprehensiveMetrics(r.Ledger.Snapshots(), r.Ledger.Trades(), r.Options.Benchmark),
	}
	return res
}
