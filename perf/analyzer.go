// Package perf derives risk and performance statistics from a finished
// backtest: the ledger's snapshot series and closed-trade list. It never
// mutates the ledger and never panics on short or empty input; every
// function degrades to zero values instead.
package perf

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"papertrade/ledger"
)

const periodsPerYear = 252

type Analyzer struct {
	riskFree float64 // annual risk-free rate, e.g. 0.02
	log      *logrus.Entry
}

func NewAnalyzer(riskFree float64, log *logrus.Entry) *Analyzer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Analyzer{riskFree: riskFree, log: log}
}

// Returns is the period-over-period percentage change of total value,
// chronologically ordered, with the first element dropped.
func (a *Analyzer) Returns(snaps []ledger.Snapshot) []float64 {
	if len(snaps) < 2 {
		return nil
	}
	out := make([]float64, 0, len(snaps)-1)
	for i := 1; i < len(snaps); i++ {
		prev := snaps[i-1].TotalValue
		if prev <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, snaps[i].TotalValue/prev-1)
	}
	return out
}

// MaxDrawdown returns the deepest decline from the running peak as a
// negative fraction, and the date at which it occurred.
func (a *Analyzer) MaxDrawdown(snaps []ledger.Snapshot) (float64, time.Time) {
	if len(snaps) == 0 {
		return 0, time.Time{}
	}
	peak := snaps[0].TotalValue
	worst := 0.0
	var at time.Time
	for _, s := range snaps {
		if s.TotalValue > peak {
			peak = s.TotalValue
		}
		if peak <= 0 {
			continue
		}
		dd := (s.TotalValue - peak) / peak
		if dd < worst {
			worst = dd
			at = s.Date
		}
	}
	return worst, at
}

// VaR is the (1-confidence) percentile of the return distribution: the
// loss threshold exceeded with probability 1-confidence.
func (a *Analyzer) VaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return percentile(returns, (1-confidence)*100)
}

// CVaR is the mean of all returns at or below the VaR threshold.
func (a *Analyzer) CVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	v := a.VaR(returns, confidence)
	sum, n := 0.0, 0
	for _, r := range returns {
		if r <= v {
			sum += r
			n++
		}
	}
	if n == 0 {
		return v
	}
	return sum / float64(n)
}

// Sharpe is the annualized excess return over total volatility.
func (a *Analyzer) Sharpe(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean, std := meanStd(returns)
	if std == 0 {
		return 0
	}
	return (mean - a.riskFree/periodsPerYear) / std * math.Sqrt(periodsPerYear)
}

// Sortino replaces the denominator with downside-only volatility: the
// standard deviation of returns below the per-period risk-free threshold.
func (a *Analyzer) Sortino(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	threshold := a.riskFree / periodsPerYear
	mean, _ := meanStd(returns)

	var downside []float64
	for _, r := range returns {
		if r < threshold {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		return 0
	}
	_, dstd := meanStd(downside)
	if dstd == 0 {
		return 0
	}
	return (mean - threshold) / dstd * math.Sqrt(periodsPerYear)
}

// Calmar is the annualized mean return over the max drawdown magnitude.
func (a *Analyzer) Calmar(returns []float64, maxDrawdown float64) float64 {
	if len(returns) == 0 || maxDrawdown == 0 {
		return 0
	}
	mean, _ := meanStd(returns)
	return mean * periodsPerYear / math.Abs(maxDrawdown)
}

// InformationRatio measures benchmark-relative performance: the annualized
// mean and standard deviation of the return differential. The second
// result is the tracking error.
func (a *Analyzer) InformationRatio(returns, benchmark []float64) (ir, trackingError float64) {
	n := len(returns)
	if n == 0 || n != len(benchmark) {
		return 0, 0
	}
	diff := make([]float64, n)
	for i := range returns {
		diff[i] = returns[i] - benchmark[i]
	}
	mean, std := meanStd(diff)
	trackingError = std * math.Sqrt(periodsPerYear)
	if trackingError == 0 {
		return 0, 0
	}
	return mean * periodsPerYear / trackingError, trackingError
}

// ComprehensiveMetrics assembles the full metrics record. benchmark may be
// nil; with fewer than two snapshots the result is all zeros.
func (a *Analyzer) ComprehensiveMetrics(snaps []ledger.Snapshot, trades []ledger.Trade, benchmark []ledger.Snapshot) Metrics {
	m := Metrics{Trades: a.AnalyzeTrades(trades)}

	if len(snaps) < 2 {
		a.log.Debug("not enough snapshots for metrics")
		return m
	}

	returns := a.Returns(snaps)

	first, last := snaps[0].TotalValue, snaps[len(snaps)-1].TotalValue
	if first > 0 {
		m.TotalReturn = last/first - 1
		m.AnnualReturn = math.Pow(1+m.TotalReturn, periodsPerYear/float64(len(snaps))) - 1
	}

	_, std := meanStd(returns)
	m.Volatility = std * math.Sqrt(periodsPerYear)

	m.MaxDrawdown, m.MaxDrawdownDate = a.MaxDrawdown(snaps)
	m.Sharpe = a.Sharpe(returns)
	m.Sortino = a.Sortino(returns)
	m.Calmar = a.Calmar(returns, m.MaxDrawdown)
	m.VaR95 = a.VaR(returns, 0.95)
	m.CVaR95 = a.CVaR(returns, 0.95)

	if len(benchmark) >= 2 {
		sr, br := alignReturns(snaps, benchmark)
		reg := a.Regression(sr, br)
		m.Beta, m.Alpha, m.R2 = reg.Beta, reg.Alpha, reg.R2
		m.InformationRatio, m.TrackingError = a.InformationRatio(sr, br)
	}

	return m
}

// percentile computes the p-th percentile (0..100) with linear
// interpolation between closest ranks.
func percentile(xs []float64, p float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		std += (x - mean) * (x - mean)
	}
	std = math.Sqrt(std / float64(len(xs)))
	return mean, std
}
