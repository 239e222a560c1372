// Package ledger owns the simulated account: cash, open positions, and the
// historical orders, trades, and snapshots of a backtest run. A Ledger is
// not safe for concurrent mutation; every run gets its own instance.
package ledger

import (
	"time"

	"github.com/sirupsen/logrus"

	"papertrade/cost"
	"papertrade/market"
	"papertrade/pkg/id"
	"papertrade/risk"
)

// closeEps treats share counts at or below this as zero, so float drift on
// repeated partial exits still closes positions.
const closeEps = 1e-9

// Config wires a Ledger. Slippage and Commission are used both to estimate
// affordability at order creation and to charge actual costs at fill time.
type Config struct {
	InitialCash float64
	Slippage    cost.SlippageModel
	Commission  cost.CommissionModel
	Risk        *risk.Manager
	Log         *logrus.Entry
}

type Ledger struct {
	cash        float64
	initialCash float64

	positions map[string]*Position
	orders    []*Order
	trades    []Trade
	snapshots []Snapshot

	peakValue   float64
	maxDrawdown float64

	slippage   cost.SlippageModel
	commission cost.CommissionModel
	risk       *risk.Manager
	log        *logrus.Entry
}

func New(cfg Config) *Ledger {
	if cfg.Slippage == nil {
		cfg.Slippage = cost.NoSlippage{}
	}
	if cfg.Commission == nil {
		cfg.Commission = cost.NoCommission{}
	}
	if cfg.Log == nil {
		cfg.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Ledger{
		cash:        cfg.InitialCash,
		initialCash: cfg.InitialCash,
		positions:   make(map[string]*Position),
		peakValue:   cfg.InitialCash,
		slippage:    cfg.Slippage,
		commission:  cfg.Commission,
		risk:        cfg.Risk,
		log:         cfg.Log,
	}
}

func (l *Ledger) Cash() float64        { return l.cash }
func (l *Ledger) InitialCash() float64 { return l.initialCash }
func (l *Ledger) MaxDrawdown() float64 { return l.maxDrawdown }
func (l *Ledger) Orders() []*Order     { return l.orders }
func (l *Ledger) Trades() []Trade      { return l.trades }
func (l *Ledger) Snapshots() []Snapshot {
	return l.snapshots
}

// Position returns the open position for symbol, or nil.
func (l *Ledger) Position(symbol string) *Position {
	return l.positions[symbol]
}

// Positions returns all open positions.
func (l *Ledger) Positions() []*Position {
	out := make([]*Position, 0, len(l.positions))
	for _, p := range l.positions {
		out = append(out, p)
	}
	return out
}

// TotalValue is cash plus the market value of all holdings at their most
// recent marks.
func (l *Ledger) TotalValue() float64 {
	total := l.cash
	for _, p := range l.positions {
		total += p.MarketValue
	}
	return total
}

// CreateOrder validates a request and, if affordable and within risk
// limits, records a pending order. Buys are checked against available cash
// including estimated commission and slippage at the requested price, then
// against the position-size gate. Sells are checked against held shares.
func (l *Ledger) CreateOrder(symbol string, side market.Side, shares, price float64, at time.Time) (*Order, *Reject) {
	if shares <= 0 || price <= 0 {
		return nil, Rejectf(InvalidMarketData, "order %s %s: non-positive shares or price", symbol, side)
	}

	value := price * shares

	switch side {
	case market.Buy:
		est := value + l.estimatedCosts(price, shares, side)
		if est > l.cash {
			rej := Rejectf(InsufficientFunds, "need %.2f, cash %.2f", est, l.cash)
			l.log.WithField("symbol", symbol).Warn(rej.Msg)
			return nil, rej
		}
		if l.risk != nil && !l.risk.CheckPositionSize(l.TotalValue(), value) {
			return nil, Rejectf(RiskLimitExceeded, "order value %.2f exceeds position size limit", value)
		}

	case market.Sell:
		pos := l.positions[symbol]
		held := 0.0
		if pos != nil {
			held = pos.Shares
		}
		if held < shares {
			rej := Rejectf(InsufficientPosition, "sell %.0f, held %.0f", shares, held)
			l.log.WithField("symbol", symbol).Warn(rej.Msg)
			return nil, rej
		}

	default:
		return nil, Rejectf(InvalidMarketData, "unknown side %d", side)
	}

	o := &Order{
		ID:        id.New(),
		Symbol:    symbol,
		Side:      side,
		Type:      Market,
		Shares:    shares,
		Remaining: shares,
		Price:     price,
		Status:    Pending,
		CreatedAt: at,
	}
	l.orders = append(l.orders, o)
	return o, nil
}

// ExecuteOrder applies a full fill to the account. Costs are recomputed at
// the actual execution price. The order may be Pending (ledger-driven
// execution) or already stamped Filled by the executor; in the latter case
// the ledger trusts the stamp and only moves cash and positions. On any
// failure the order is marked rejected and the account is left untouched.
func (l *Ledger) ExecuteOrder(o *Order, execPrice float64, at time.Time) *Reject {
	if o == nil || execPrice <= 0 {
		return Rejectf(InvalidMarketData, "bad execution price %.4f", execPrice)
	}
	if o.Status == Rejected || o.Status == Cancelled {
		return Rejectf(InvalidMarketData, "order %s is %s", o.ID, o.Status)
	}

	shares := o.Remaining
	if o.Status == Filled {
		// Executor has already stamped the order; apply whatever earlier
		// partial fills have not already settled.
		shares = o.Shares - o.Settled
	}
	if shares <= closeEps {
		return Rejectf(InvalidMarketData, "order %s already settled", o.ID)
	}
	return l.applyFill(o, shares, execPrice, at)
}

// ApplyPartialFill applies a partial execution of shares at execPrice. The
// executor owns the order's remaining-shares bookkeeping; this only moves
// cash and positions.
func (l *Ledger) ApplyPartialFill(o *Order, shares, execPrice float64, at time.Time) *Reject {
	if o == nil || execPrice <= 0 || shares <= 0 {
		return Rejectf(InvalidMarketData, "bad partial fill %.0f @ %.4f", shares, execPrice)
	}
	return l.applyFill(o, shares, execPrice, at)
}

func (l *Ledger) applyFill(o *Order, shares, execPrice float64, at time.Time) *Reject {
	value := execPrice * shares
	comm := l.commission.Commission(value)
	slip := l.slippage.Slippage(cost.Quote{Price: execPrice, Shares: shares, Side: o.Side})

	switch o.Side {
	case market.Buy:
		total := value + comm + slip
		if total > l.cash {
			o.MarkRejected()
			rej := Rejectf(InsufficientFunds, "fill needs %.2f, cash %.2f", total, l.cash)
			l.log.WithField("order", o.ID).Warn(rej.Msg)
			return rej
		}
		l.cash -= total
		l.applyBuy(o.Symbol, shares, execPrice, comm+slip, at)

	case market.Sell:
		pos := l.positions[o.Symbol]
		if pos == nil || pos.Shares < shares {
			o.MarkRejected()
			rej := Rejectf(InsufficientPosition, "sell %.0f of %s without sufficient shares", shares, o.Symbol)
			l.log.WithField("order", o.ID).Warn(rej.Msg)
			return rej
		}
		realized := (execPrice-pos.AvgPrice)*shares - comm - slip
		l.cash += value - comm - slip
		l.applySell(pos, shares, execPrice, realized, comm+slip, at)

	default:
		o.MarkRejected()
		return Rejectf(InvalidMarketData, "unknown side %d", o.Side)
	}

	o.Settled += shares

	// Orders the executor already stamped carry their own cost accruals;
	// only ledger-driven fills are stamped here.
	if o.Status == Pending && shares >= o.Remaining {
		o.Commission += comm
		o.Slippage += slip
		o.MarkFilled(at)
	}
	return nil
}

func (l *Ledger) applyBuy(symbol string, shares, price, fees float64, at time.Time) {
	pos := l.positions[symbol]
	if pos == nil {
		pos = &Position{Symbol: symbol, EntryDate: at}
		l.positions[symbol] = pos
	}

	pos.CostBasis += price * shares
	pos.Shares += shares
	pos.AvgPrice = pos.CostBasis / pos.Shares
	pos.Fees += fees
	pos.MarkToMarket(price, at)
}

func (l *Ledger) applySell(pos *Position, shares, price, realized, fees float64, at time.Time) {
	pos.Shares -= shares
	pos.CostBasis = pos.AvgPrice * pos.Shares
	pos.RealizedPL += realized
	pos.ClosedShares += shares
	pos.Fees += fees
	pos.MarkToMarket(price, at)

	if pos.Shares > closeEps {
		return
	}

	// Full close: emit exactly one Trade covering the whole entry.
	t := Trade{
		ID:          id.New(),
		Symbol:      pos.Symbol,
		EntryDate:   pos.EntryDate,
		ExitDate:    at,
		EntryPrice:  pos.AvgPrice,
		ExitPrice:   price,
		Shares:      pos.ClosedShares,
		PnL:         pos.RealizedPL,
		Commission:  pos.Fees,
		HoldingDays: holdingDays(pos.EntryDate, at),
	}
	if basis := t.EntryPrice * t.Shares; basis > 0 {
		t.ReturnRate = t.PnL / basis
	}
	l.trades = append(l.trades, t)
	delete(l.positions, pos.Symbol)

	l.log.WithFields(logrus.Fields{
		"symbol": t.Symbol,
		"pnl":    t.PnL,
	}).Debug("position closed")
}

// UpdatePortfolio revalues every open position at the given prices and
// appends a snapshot. It also maintains the running peak and maximum
// drawdown, and runs the advisory drawdown check: a breach is logged but
// does not block further trading.
func (l *Ledger) UpdatePortfolio(prices map[string]float64, at time.Time) Snapshot {
	mv := 0.0
	for sym, pos := range l.positions {
		if px, ok := prices[sym]; ok && px > 0 {
			pos.MarkToMarket(px, at)
		}
		mv += pos.MarketValue
	}

	snap := Snapshot{
		Date:        at,
		TotalValue:  l.cash + mv,
		Cash:        l.cash,
		MarketValue: mv,
	}
	l.snapshots = append(l.snapshots, snap)

	if n := len(l.snapshots); n >= 2 {
		prev := l.snapshots[n-2].TotalValue
		if prev > 0 {
			l.log.WithField("return", snap.TotalValue/prev-1).Debug("period return")
		}
	}

	if snap.TotalValue > l.peakValue {
		l.peakValue = snap.TotalValue
	}
	if l.peakValue > 0 {
		if dd := (l.peakValue - snap.TotalValue) / l.peakValue; dd > l.maxDrawdown {
			l.maxDrawdown = dd
		}
	}
	if l.risk != nil {
		// Observe-only: result intentionally discarded.
		l.risk.CheckDrawdown(snap.TotalValue, l.peakValue)
	}

	return snap
}
