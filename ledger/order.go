package ledger

import (
	"time"

	"papertrade/market"
)

type OrderType string

const (
	Market OrderType = "market"
	Limit  OrderType = "limit"
)

type OrderStatus string

const (
	Pending   OrderStatus = "pending"
	Filled    OrderStatus = "filled"
	Cancelled OrderStatus = "cancelled"
	Rejected  OrderStatus = "rejected"
)

// Order is created by the ledger and mutated only during execution. Once
// Filled or Rejected it must not change again; the one exception is the
// partial-fill path, which decrements Remaining in place while the status
// stays Pending.
type Order struct {
	ID     string
	Symbol string
	Side   market.Side
	Type   OrderType

	Shares    float64 // originally requested
	Remaining float64 // not yet filled
	Settled   float64 // applied to the account by the ledger
	Price     float64 // requested price; the limit for limit orders

	Status    OrderStatus
	CreatedAt time.Time
	FilledAt  time.Time // zero until filled

	// Accrued execution costs.
	Commission float64
	Slippage   float64
}

// MarkFilled stamps the order filled at t.
func (o *Order) MarkFilled(t time.Time) {
	o.Status = Filled
	o.FilledAt = t
	o.Remaining = 0
}

// MarkRejected stamps the order rejected. Rejected orders keep their
// remaining shares for post-mortem inspection.
func (o *Order) MarkRejected() {
	o.Status = Rejected
}
