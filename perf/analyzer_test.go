package perf

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/ledger"
)

func snap(day int, value float64) ledger.Snapshot {
	return ledger.Snapshot{
		Date:       time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		TotalValue: value,
	}
}

func TestReturns(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	snaps := []ledger.Snapshot{snap(1, 100), snap(2, 110), snap(3, 99)}
	rets := a.Returns(snaps)
	require.Len(t, rets, 2)
	assert.InDelta(t, 0.10, rets[0], 1e-12)
	assert.InDelta(t, -0.10, rets[1], 1e-12)

	assert.Nil(t, a.Returns(nil))
	assert.Nil(t, a.Returns(snaps[:1]))
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	snaps := []ledger.Snapshot{snap(1, 100), snap(2, 110), snap(3, 99), snap(4, 105)}
	dd, at := a.MaxDrawdown(snaps)
	assert.InDelta(t, -0.10, dd, 1e-12)
	assert.Equal(t, snaps[2].Date, at)

	dd, at = a.MaxDrawdown(nil)
	assert.Zero(t, dd)
	assert.True(t, at.IsZero())
}

func TestVaRAndCVaR(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)
	returns := []float64{-0.05, -0.03, -0.01, 0.02, 0.04}

	// 5th percentile of five points interpolates between the two worst.
	v := a.VaR(returns, 0.95)
	assert.InDelta(t, -0.046, v, 1e-12)

	// Only the worst return sits at or below the threshold.
	assert.InDelta(t, -0.05, a.CVaR(returns, 0.95), 1e-12)

	assert.Zero(t, a.VaR(nil, 0.95))
	assert.Zero(t, a.CVaR(nil, 0.95))
}

func TestSharpe(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	// mean 0.01, population std 0.01.
	got := a.Sharpe([]float64{0.02, 0.0})
	assert.InDelta(t, math.Sqrt(252), got, 1e-9)

	// Zero variance never divides by zero.
	assert.Zero(t, a.Sharpe([]float64{0.01, 0.01}))
	assert.Zero(t, a.Sharpe(nil))
}

func TestSortino(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	// downside {-0.01, -0.03}: std 0.01; overall mean 0.005.
	got := a.Sortino([]float64{0.02, -0.01, -0.03, 0.04})
	assert.InDelta(t, 0.5*math.Sqrt(252), got, 1e-9)

	// No returns below the threshold: undefined, reported as zero.
	assert.Zero(t, a.Sortino([]float64{0.01, 0.02}))
}

func TestCalmar(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	got := a.Calmar([]float64{0.01, 0.01}, -0.10)
	assert.InDelta(t, 25.2, got, 1e-9)

	assert.Zero(t, a.Calmar([]float64{0.01}, 0))
	assert.Zero(t, a.Calmar(nil, -0.10))
}

func TestInformationRatio(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	ir, te := a.InformationRatio([]float64{0.02, 0.0}, []float64{0.01, 0.01})
	assert.Zero(t, ir) // mean differential is zero
	assert.InDelta(t, 0.01*math.Sqrt(252), te, 1e-9)

	// Tracking a benchmark exactly has no tracking error.
	ir, te = a.InformationRatio([]float64{0.01, 0.02}, []float64{0.01, 0.02})
	assert.Zero(t, ir)
	assert.Zero(t, te)

	ir, te = a.InformationRatio([]float64{0.01}, []float64{0.01, 0.02})
	assert.Zero(t, ir)
	assert.Zero(t, te)
}

func TestRegression(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	// Strategy moves exactly twice the benchmark.
	bench := []float64{0.01, -0.02, 0.03}
	strat := []float64{0.02, -0.04, 0.06}

	r := a.Regression(strat, bench)
	assert.InDelta(t, 2.0, r.Beta, 1e-12)
	assert.InDelta(t, 0.0, r.Alpha, 1e-9)
	assert.InDelta(t, 1.0, r.R2, 1e-12)

	// Flat benchmark has no variance to regress on.
	assert.Equal(t, RegressionResult{}, a.Regression(strat, []float64{0.01, 0.01, 0.01}))
	assert.Equal(t, RegressionResult{}, a.Regression(strat[:2], bench))
}

func TestAnalyzeTrades(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	trades := []ledger.Trade{
		{PnL: 100, HoldingDays: 5},
		{PnL: -50, HoldingDays: 3},
		{PnL: 200, HoldingDays: 10},
	}

	s := a.AnalyzeTrades(trades)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Winners)
	assert.Equal(t, 1, s.Losers)
	assert.InDelta(t, 2.0/3.0, s.WinRate, 1e-12)
	assert.InDelta(t, 150.0, s.AvgWin, 1e-12)
	assert.InDelta(t, -50.0, s.AvgLoss, 1e-12)
	assert.InDelta(t, 6.0, s.ProfitFactor, 1e-12)
	assert.Equal(t, 200.0, s.Best)
	assert.Equal(t, -50.0, s.Worst)
	assert.InDelta(t, 250.0, s.TotalPnL, 1e-12)
	assert.InDelta(t, 6.0, s.AvgHoldingDays, 1e-12)
}

func TestAnalyzeTrades_NoLosses(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	s := a.AnalyzeTrades([]ledger.Trade{{PnL: 10}, {PnL: 20}})
	assert.True(t, math.IsInf(s.ProfitFactor, 1))
	assert.Equal(t, 1.0, s.WinRate)
}

func TestAnalyzeTrades_Empty(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)
	assert.Equal(t, TradeStats{}, a.AnalyzeTrades(nil))
}

func TestComprehensiveMetrics(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	snaps := []ledger.Snapshot{snap(1, 100), snap(2, 102), snap(3, 99.96)}
	bench := []ledger.Snapshot{snap(1, 100), snap(2, 101), snap(3, 99.99)}
	trades := []ledger.Trade{{PnL: 100, HoldingDays: 2}}

	m := a.ComprehensiveMetrics(snaps, trades, bench)

	assert.InDelta(t, -0.0004, m.TotalReturn, 1e-12)
	assert.NotZero(t, m.Volatility)
	assert.InDelta(t, -0.018, m.VaR95, 1e-12)
	assert.InDelta(t, -0.02, m.MaxDrawdown, 1e-9)

	// Strategy returns are exactly double the benchmark's.
	assert.InDelta(t, 2.0, m.Beta, 1e-9)
	assert.InDelta(t, 1.0, m.R2, 1e-9)
	assert.Equal(t, 1, m.Trades.Total)
}

func TestComprehensiveMetrics_TooFewSnapshots(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0, nil)

	m := a.ComprehensiveMetrics([]ledger.Snapshot{snap(1, 100)}, nil, nil)
	assert.Zero(t, m.TotalReturn)
	assert.Zero(t, m.Sharpe)
	assert.Zero(t, m.MaxDrawdown)
}
