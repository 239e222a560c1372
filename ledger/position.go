package ledger

import "time"

// Position is one open holding, owned exclusively by the ledger. It is
// created on the first fill that opens a symbol, mutated on every later
// fill for that symbol, and deleted when shares return to zero.
type Position struct {
	Symbol string
	Shares float64 // never negative
	// AvgPrice is the weighted-average cost per share, recomputed on
	// every buy fill. CostBasis == AvgPrice * Shares.
	AvgPrice  float64
	CostBasis float64

	// Mark-to-market state, refreshed by UpdatePortfolio.
	Price        float64
	MarketValue  float64
	UnrealizedPL float64

	// RealizedPL accumulates over partial exits; it becomes the Trade's
	// P&L when the position fully closes.
	RealizedPL float64

	// Lifetime accumulators for the eventual Trade record.
	ClosedShares float64
	Fees         float64

	EntryDate time.Time
	UpdatedAt time.Time
}

// MarkToMarket revalues the position at price.
func (p *Position) MarkToMarket(price float64, at time.Time) {
	p.Price = price
	p.MarketValue = p.Shares * price
	p.UnrealizedPL = p.MarketValue - p.CostBasis
	p.UpdatedAt = at
}
