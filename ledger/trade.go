package ledger

import "time"

// Trade is a completed round trip, emitted only when a position's shares
// return to zero. Partial reductions update cost basis and cash but never
// produce a Trade. Immutable once created.
type Trade struct {
	ID     string
	Symbol string

	EntryDate time.Time
	ExitDate  time.Time

	EntryPrice float64 // weighted-average entry
	ExitPrice  float64 // final closing fill
	Shares     float64 // total shares closed over the position's life

	PnL        float64 // realized, net of commission and slippage
	Commission float64 // total costs paid over the position's life
	ReturnRate float64 // PnL / (EntryPrice * Shares)

	HoldingDays int
}

// Snapshot is the ledger's once-per-period record of account state. The
// ordered snapshot sequence is the primary input to the analyzer.
type Snapshot struct {
	Date        time.Time
	TotalValue  float64
	Cash        float64
	MarketValue float64
}

func holdingDays(entry, exit time.Time) int {
	d := int(exit.Sub(entry).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
