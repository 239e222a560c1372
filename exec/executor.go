// Package exec simulates order execution against historical bars. The
// executor decides whether and at what price a pending order fills,
// applying the configured cost models; the ledger then applies the fill to
// the account. Failures never panic or abort a replay; they come back as a
// typed rejection and the order is stamped rejected.
package exec

import (
	"time"

	"github.com/sirupsen/logrus"

	"papertrade/cost"
	"papertrade/ledger"
	"papertrade/market"
)

// priceBandTol is the tolerance around [low, high] a final execution price
// may occupy after impact adjustment.
const priceBandTol = 0.10

// defaultMaxFillRatio caps a partial fill at this share of bar volume.
const defaultMaxFillRatio = 0.10

// Config wires an Executor. Nil models cost nothing.
type Config struct {
	Slippage   cost.SlippageModel
	Commission cost.CommissionModel
	Impact     cost.ImpactModel

	// MinFillRatio is the smallest fraction of an order the partial-fill
	// path is willing to execute in one bar.
	MinFillRatio float64

	Log *logrus.Entry
}

// Fill describes a successful (possibly partial) execution.
type Fill struct {
	Price      float64
	Shares     float64
	Commission float64
	Slippage   float64
}

// Stats accumulates execution counters across a run.
type Stats struct {
	Submitted       int
	Filled          int
	Rejected        int
	TotalSlippage   float64
	TotalCommission float64
}

type Executor struct {
	slippage     cost.SlippageModel
	commission   cost.CommissionModel
	impact       cost.ImpactModel
	minFillRatio float64
	stats        Stats
	log          *logrus.Entry
}

func New(cfg Config) *Executor {
	if cfg.Slippage == nil {
		cfg.Slippage = cost.NoSlippage{}
	}
	if cfg.Commission == nil {
		cfg.Commission = cost.NoCommission{}
	}
	if cfg.Impact == nil {
		cfg.Impact = cost.NoImpact{}
	}
	if cfg.Log == nil {
		cfg.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Executor{
		slippage:     cfg.Slippage,
		commission:   cfg.Commission,
		impact:       cfg.Impact,
		minFillRatio: cfg.MinFillRatio,
		log:          cfg.Log,
	}
}

func (e *Executor) Stats() Stats { return e.stats }

// Execute attempts to fill the order's remaining shares against one bar.
// On success the order is stamped filled; on failure it is stamped
// rejected and the reason returned.
func (e *Executor) Execute(o *ledger.Order, bar market.Bar, at time.Time) (Fill, *ledger.Reject) {
	e.stats.Submitted++

	// Terminal orders are not re-run; a second attempt would re-stamp the
	// order and double-count stats.
	if o.Status != ledger.Pending {
		e.stats.Rejected++
		return Fill{}, ledger.Rejectf(ledger.InvalidMarketData, "order %s is %s", o.ID, o.Status)
	}

	fill, rej := e.tryFill(o, bar)
	if rej != nil {
		o.MarkRejected()
		e.stats.Rejected++
		e.log.WithFields(logrus.Fields{
			"order":  o.ID,
			"reason": rej.Code,
		}).Debug(rej.Msg)
		return Fill{}, rej
	}

	o.Commission += fill.Commission
	o.Slippage += fill.Slippage
	o.MarkFilled(at)

	e.stats.Filled++
	e.stats.TotalSlippage += fill.Slippage
	e.stats.TotalCommission += fill.Commission
	return fill, nil
}

// tryFill runs the pricing pipeline without touching order state.
func (e *Executor) tryFill(o *ledger.Order, bar market.Bar) (Fill, *ledger.Reject) {
	if err := bar.Validate(); err != nil {
		return Fill{}, ledger.Rejectf(ledger.InvalidMarketData, "%v", err)
	}

	base, rej := basePrice(o, bar)
	if rej != nil {
		return Fill{}, rej
	}

	shares := o.Remaining
	q := cost.Quote{
		Price:  base,
		Shares: shares,
		Side:   o.Side,
		Volume: bar.Volume,
		Bid:    bar.Low,
		Ask:    bar.High,
	}

	slip := e.slippage.Slippage(q)
	comm := e.commission.Commission(base * shares)
	price := base + e.impact.Impact(q)

	if price < bar.Low*(1-priceBandTol) || price > bar.High*(1+priceBandTol) {
		return Fill{}, ledger.Rejectf(ledger.PriceOutOfBand,
			"price %.4f outside [%.4f, %.4f] band", price, bar.Low, bar.High)
	}

	return Fill{Price: price, Shares: shares, Commission: comm, Slippage: slip}, nil
}

// basePrice picks the pre-impact execution price. Market orders fill at the
// bar open. A limit buy fills only if the bar traded at or below the limit,
// at the better of limit and open; mirrored for sells.
func basePrice(o *ledger.Order, bar market.Bar) (float64, *ledger.Reject) {
	if o.Type != ledger.Limit {
		return bar.Open, nil
	}

	switch o.Side {
	case market.Buy:
		if bar.Low > o.Price {
			return 0, ledger.Rejectf(ledger.PriceOutOfBand,
				"limit buy %.4f never reached (low %.4f)", o.Price, bar.Low)
		}
		if bar.Open < o.Price {
			return bar.Open, nil
		}
		return o.Price, nil

	case market.Sell:
		if bar.High < o.Price {
			return 0, ledger.Rejectf(ledger.PriceOutOfBand,
				"limit sell %.4f never reached (high %.4f)", o.Price, bar.High)
		}
		if bar.Open > o.Price {
			return bar.Open, nil
		}
		return o.Price, nil
	}

	return 0, ledger.Rejectf(ledger.InvalidMarketData, "unknown side %d", o.Side)
}

// BatchResult pairs an order with its execution outcome.
type BatchResult struct {
	Order  *ledger.Order
	Fill   Fill
	Reject *ledger.Reject
}

// BatchExecute executes each order independently against its own symbol's
// bar. An order whose symbol has no bar is rejected without entering the
// pricing pipeline.
func (e *Executor) BatchExecute(orders []*ledger.Order, bars map[string]market.Bar, at time.Time) []BatchResult {
	out := make([]BatchResult, 0, len(orders))
	for _, o := range orders {
		bar, ok := bars[o.Symbol]
		if !ok {
			e.stats.Submitted++
			e.stats.Rejected++
			o.MarkRejected()
			out = append(out, BatchResult{
				Order:  o,
				Reject: ledger.Rejectf(ledger.InvalidMarketData, "no bar for %s", o.Symbol),
			})
			continue
		}
		fill, rej := e.Execute(o, bar, at)
		out = append(out, BatchResult{Order: o, Fill: fill, Reject: rej})
	}
	return out
}
