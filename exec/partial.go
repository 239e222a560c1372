package exec

import (
	"math"
	"time"

	"papertrade/ledger"
	"papertrade/market"
)

// ExecutePartial fills as much of the order as simulated liquidity allows.
// The fillable quantity is capped at min(10% of the order, the reference
// volume's share of bar volume) of the remaining shares; if that falls
// below MinFillRatio of the remainder the attempt is rejected for
// insufficient liquidity and the order stays pending for later bars.
// Otherwise a sub-fill runs through the normal pipeline and the order's
// remaining shares are decremented in place; the order only becomes filled
// when they reach zero.
func (e *Executor) ExecutePartial(o *ledger.Order, bar market.Bar, refVolume float64, at time.Time) (Fill, *ledger.Reject) {
	e.stats.Submitted++

	if o.Status != ledger.Pending {
		e.stats.Rejected++
		return Fill{}, ledger.Rejectf(ledger.InvalidMarketData, "order %s is %s", o.ID, o.Status)
	}

	if err := bar.Validate(); err != nil {
		o.MarkRejected()
		e.stats.Rejected++
		return Fill{}, ledger.Rejectf(ledger.InvalidMarketData, "%v", err)
	}

	capRatio := defaultMaxFillRatio
	if bar.Volume > 0 {
		if r := refVolume / bar.Volume; r < capRatio {
			capRatio = r
		}
	} else {
		capRatio = 0
	}

	fillable := math.Floor(capRatio * o.Remaining)
	if fillable <= 0 || fillable < e.minFillRatio*o.Remaining {
		e.stats.Rejected++
		return Fill{}, ledger.Rejectf(ledger.InsufficientLiquidity,
			"fillable %.0f below floor %.0f of %.0f remaining",
			fillable, e.minFillRatio*o.Remaining, o.Remaining)
	}

	// Synthesize the sub-fill and run it through the normal pipeline.
	sub := *o
	sub.Shares = fillable
	sub.Remaining = fillable

	fill, rej := e.tryFill(&sub, bar)
	if rej != nil {
		e.stats.Rejected++
		return Fill{}, rej
	}

	o.Remaining -= fillable
	o.Commission += fill.Commission
	o.Slippage += fill.Slippage
	if o.Remaining <= 0 {
		o.MarkFilled(at)
	}

	e.stats.Filled++
	e.stats.TotalSlippage += fill.Slippage
	e.stats.TotalCommission += fill.Commission
	return fill, nil
}
