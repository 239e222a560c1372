package ledger

import (
	"math"

	"papertrade/cost"
	"papertrade/market"
)

const periodsPerYear = 252

// QuickStats is a lightweight in-run summary, independent of the full
// analyzer. Handy for inspecting a run while it is still going.
type QuickStats struct {
	TotalReturn  float64
	AnnualReturn float64
	Sharpe       float64
	Trades       int
	Wins         int
	Losses       int
	MaxDrawdown  float64
}

// QuickStats summarizes the run so far from the snapshot series and the
// closed-trade list.
func (l *Ledger) QuickStats() QuickStats {
	s := QuickStats{MaxDrawdown: l.maxDrawdown, Trades: len(l.trades)}

	for _, t := range l.trades {
		if t.PnL > 0 {
			s.Wins++
		} else if t.PnL < 0 {
			s.Losses++
		}
	}

	n := len(l.snapshots)
	if n == 0 || l.initialCash <= 0 {
		return s
	}

	s.TotalReturn = l.snapshots[n-1].TotalValue/l.initialCash - 1
	if n > 1 {
		s.AnnualReturn = math.Pow(1+s.TotalReturn, periodsPerYear/float64(n)) - 1
	}

	// Naive Sharpe straight off the snapshot-derived return series.
	rets := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		prev := l.snapshots[i-1].TotalValue
		if prev > 0 {
			rets = append(rets, l.snapshots[i].TotalValue/prev-1)
		}
	}
	if len(rets) > 1 {
		mean, std := meanStd(rets)
		if std > 0 {
			s.Sharpe = mean / std * math.Sqrt(periodsPerYear)
		}
	}
	return s
}

// estimatedCosts approximates the commission and slippage a fill at the
// requested price would incur, for the pre-trade cash check.
func (l *Ledger) estimatedCosts(price, shares float64, side market.Side) float64 {
	value := price * shares
	q := cost.Quote{Price: price, Shares: shares, Side: side}
	return l.commission.Commission(value) + l.slippage.Slippage(q)
}

func meanStd(xs []float64) (mean, std float64) {
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
