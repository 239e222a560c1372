package perf

import (
	"math"

	"papertrade/ledger"
)

// AnalyzeTrades partitions closed trades into winners and losers and
// summarizes them. An empty trade list yields an all-zero summary.
func (a *Analyzer) AnalyzeTrades(trades []ledger.Trade) TradeStats {
	s := TradeStats{Total: len(trades)}
	if len(trades) == 0 {
		return s
	}

	var sumWins, sumLosses, holding float64
	s.Best = trades[0].PnL
	s.Worst = trades[0].PnL

	for _, t := range trades {
		if t.PnL > 0 {
			s.Winners++
			sumWins += t.PnL
		} else if t.PnL < 0 {
			s.Losers++
			sumLosses += t.PnL
		}
		if t.PnL > s.Best {
			s.Best = t.PnL
		}
		if t.PnL < s.Worst {
			s.Worst = t.PnL
		}
		holding += float64(t.HoldingDays)
		s.TotalPnL += t.PnL
	}

	s.WinRate = float64(s.Winners) / float64(s.Total)
	if s.Winners > 0 {
		s.AvgWin = sumWins / float64(s.Winners)
	}
	if s.Losers > 0 {
		s.AvgLoss = sumLosses / float64(s.Losers)
	}
	switch {
	case sumLosses < 0:
		s.ProfitFactor = sumWins / math.Abs(sumLosses)
	case sumWins > 0:
		s.ProfitFactor = math.Inf(1)
	}
	s.AvgHoldingDays = holding / float64(s.Total)
	return s
}
