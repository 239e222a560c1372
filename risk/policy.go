package risk

// Policy holds the risk limits the manager enforces.
type Policy struct {
	// MaxPositionPct caps a single order's value as a fraction of total
	// portfolio value. 0.2 means no order may exceed 20% of the book.
	MaxPositionPct float64

	// MaxDrawdownPct is the advisory drawdown ceiling from the running peak.
	MaxDrawdownPct float64

	// Exit thresholds, as fractional losses/gains from entry.
	StopLossPct   float64
	TakeProfitPct float64
}

// DefaultPolicy mirrors a conservative retail account.
func DefaultPolicy() Policy {
	return Policy{
		MaxPositionPct: 0.20,
		MaxDrawdownPct: 0.20,
		StopLossPct:    0.05,
		TakeProfitPct:  0.15,
	}
}
