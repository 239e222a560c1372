package backtest

import (
	"fmt"
	"io"
	"time"

	"papertrade/exec"
	"papertrade/perf"
)

// Result is the summary of one backtest run.
type Result struct {
	Start time.Time
	End   time.Time

	StartCash  float64
	FinalValue float64
	Cash       float64

	ExecStats exec.Stats
	Metrics   perf.Metrics
}

// PrintResult writes a human-readable run report.
func PrintResult(w io.Writer, r Result) {
	m := r.Metrics

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:          %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:            %s\n", r.End.Format(time.RFC3339))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Cash:     %.2f\n", r.StartCash)
	fmt.Fprintf(w, "Final Value:    %.2f\n", r.FinalValue)
	fmt.Fprintf(w, "Final Cash:     %.2f\n", r.Cash)
	fmt.Fprintf(w, "Total Return:   %.2f%%\n", m.TotalReturn*100)
	fmt.Fprintf(w, "Annual Return:  %.2f%%\n", m.AnnualReturn*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Volatility:     %.2f%%\n", m.Volatility*100)
	fmt.Fprintf(w, "Max Drawdown:   %.2f%%\n", m.MaxDrawdown*100)
	fmt.Fprintf(w, "Sharpe:         %.2f\n", m.Sharpe)
	fmt.Fprintf(w, "Sortino:        %.2f\n", m.Sortino)
	fmt.Fprintf(w, "Calmar:         %.2f\n", m.Calmar)
	fmt.Fprintf(w, "VaR 95%%:        %.2f%%\n", m.VaR95*100)
	fmt.Fprintf(w, "CVaR 95%%:       %.2f%%\n", m.CVaR95*100)

	if m.Beta != 0 || m.Alpha != 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Benchmark")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Beta:           %.2f\n", m.Beta)
		fmt.Fprintf(w, "Alpha:          %.2f%%\n", m.Alpha*100)
		fmt.Fprintf(w, "R2:             %.2f\n", m.R2)
		fmt.Fprintf(w, "Info Ratio:     %.2f\n", m.InformationRatio)
		fmt.Fprintf(w, "Tracking Err:   %.2f%%\n", m.TrackingError*100)
	}

	t := m.Trades
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trades")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:         %d\n", t.Total)
	fmt.Fprintf(w, "Winners:        %d\n", t.Winners)
	fmt.Fprintf(w, "Losers:         %d\n", t.Losers)
	fmt.Fprintf(w, "Win Rate:       %.2f%%\n", t.WinRate*100)
	fmt.Fprintf(w, "Avg Win:        %.2f\n", t.AvgWin)
	fmt.Fprintf(w, "Avg Loss:       %.2f\n", t.AvgLoss)
	fmt.Fprintf(w, "Profit Factor:  %.2f\n", t.ProfitFactor)
	fmt.Fprintf(w, "Total P&L:      %.2f\n", t.TotalPnL)

	s := r.ExecStats
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Execution")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Submitted:      %d\n", s.Submitted)
	fmt.Fprintf(w, "Filled:         %d\n", s.Filled)
	fmt.Fprintf(w, "Rejected:       %d\n", s.Rejected)
	fmt.Fprintf(w, "Commission:     %.2f\n", s.TotalCommission)
	fmt.Fprintf(w, "Slippage:       %.2f\n", s.TotalSlippage)

	fmt.Fprintln(w)
}
