// Package journal persists a run's trades and snapshots, either to SQLite
// or to CSV files. The engine itself never touches the journal; the
// backtest runner records as it goes.
package journal

import (
	"time"

	"papertrade/ledger"
)

type Journal interface {
	RecordTrade(ledger.Trade) error
	RecordSnapshot(ledger.Snapshot) error
	Close() error
}

// Run is the summary row written once per backtest.
type Run struct {
	RunID    string
	Created  time.Time
	Strategy string
	Symbol   string
	Dataset  string

	Start time.Time
	End   time.Time

	StartCash  float64
	EndValue   float64
	Trades     int
	Wins       int
	Losses     int
	TotalRet   float64
	Sharpe     float64
	MaxDDPct   float64
	WinRatePct float64
}

// Nop discards everything. Default when no journaling is configured.
type Nop struct{}

func (Nop) RecordTrade(ledger.Trade) error       { return nil }
func (Nop) RecordSnapshot(ledger.Snapshot) error { return nil }
func (Nop) Close() error                         { return nil }
