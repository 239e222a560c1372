// Package cost holds the pluggable transaction-cost policies: slippage,
// commission, and market impact. Every model is a pure function of the
// order/market context so each variant can be unit-tested in isolation from
// the ledger.
package cost

import "papertrade/market"

// Quote is the market context a cost model sees for one order against one
// bar. Volume may be zero; models must treat shares/volume as 0 in that
// case rather than dividing by zero.
type Quote struct {
	Price  float64 // reference execution price
	Shares float64
	Side   market.Side
	Volume float64 // bar volume
	Bid    float64
	Ask    float64
}

// Value is the notional of the quoted order.
func (q Quote) Value() float64 { return q.Price * q.Shares }

// VolumeRatio returns shares/volume, or 0 when volume is zero.
func (q Quote) VolumeRatio() float64 {
	if q.Volume <= 0 {
		return 0
	}
	return q.Shares / q.Volume
}

// SlippageModel maps an order quote to a cash slippage cost (>= 0).
type SlippageModel interface {
	Slippage(q Quote) float64
}

// CommissionModel maps a trade value to a cash commission (>= 0).
type CommissionModel interface {
	Commission(value float64) float64
}

// ImpactModel maps an order quote to a signed price adjustment: positive
// for buys (price pushed up), negative for sells.
type ImpactModel interface {
	Impact(q Quote) float64
}
