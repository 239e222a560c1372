package cost

import (
	"math"

	"papertrade/market"
)

// SqrtImpact models the square-root market-impact law:
//
//	adjustment = price * factor * sqrt(shares / volume)
//
// added to the execution price for buys and subtracted for sells. A zero
// bar volume means no liquidity information, so no adjustment.
type SqrtImpact struct {
	Factor float64 // e.g. 0.1
}

func (m SqrtImpact) Impact(q Quote) float64 {
	ratio := q.VolumeRatio()
	if ratio == 0 {
		return 0
	}
	adj := q.Price * m.Factor * math.Sqrt(ratio)
	if q.Side == market.Sell {
		return -adj
	}
	return adj
}

// NoImpact disables price impact. Useful for small-order backtests and as
// the zero value of the impact slot.
type NoImpact struct{}

func (NoImpact) Impact(Quote) float64 { return 0 }

// NoSlippage and NoCommission are the free-of-cost counterparts.
type NoSlippage struct{}

func (NoSlippage) Slippage(Quote) float64 { return 0 }

type NoCommission struct{}

func (NoCommission) Commission(float64) float64 { return 0 }
