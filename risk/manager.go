// Package risk implements stateless pre-trade and post-snapshot checks.
// Each check returns a boolean and logs the violation; callers decide what
// to do with a failure. The drawdown check in particular is advisory: the
// ledger reports breaches but does not halt trading on them.
package risk

import (
	"github.com/sirupsen/logrus"

	"papertrade/market"
)

type Manager struct {
	policy Policy
	log    *logrus.Entry
}

func New(p Policy, log *logrus.Entry) *Manager {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{policy: p, log: log}
}

func (m *Manager) Policy() Policy { return m.policy }

// CheckPositionSize reports whether an order of orderValue is allowed
// against a portfolio of portfolioValue. A non-positive MaxPositionPct
// disables the limit.
func (m *Manager) CheckPositionSize(portfolioValue, orderValue float64) bool {
	if m.policy.MaxPositionPct <= 0 {
		return true
	}
	if portfolioValue <= 0 {
		m.log.Warn("position size check with non-positive portfolio value")
		return false
	}
	frac := orderValue / portfolioValue
	if frac > m.policy.MaxPositionPct {
		m.log.WithFields(logrus.Fields{
			"order_pct": frac,
			"max_pct":   m.policy.MaxPositionPct,
		}).Warn("order exceeds position size limit")
		return false
	}
	return true
}

// CheckDrawdown reports whether the current drawdown from peak is within
// the policy limit. A false result is advisory; see package doc. A
// non-positive MaxDrawdownPct disables the check.
func (m *Manager) CheckDrawdown(currentValue, peakValue float64) bool {
	if m.policy.MaxDrawdownPct <= 0 {
		return true
	}
	if peakValue <= 0 {
		return true
	}
	dd := (peakValue - currentValue) / peakValue
	if dd > m.policy.MaxDrawdownPct {
		m.log.WithFields(logrus.Fields{
			"drawdown": dd,
			"max":      m.policy.MaxDrawdownPct,
		}).Warn("drawdown limit breached")
		return false
	}
	return true
}

// CheckStopLoss reports whether the position's loss from entry has reached
// the stop threshold. Long positions lose when price falls below entry,
// short positions when it rises above. A non-positive StopLossPct
// disables the trigger.
func (m *Manager) CheckStopLoss(currentPrice, entryPrice float64, side market.Side) bool {
	if m.policy.StopLossPct <= 0 {
		return false
	}
	if entryPrice <= 0 {
		return false
	}
	loss := lossPct(currentPrice, entryPrice, side)
	if loss >= m.policy.StopLossPct {
		m.log.WithFields(logrus.Fields{
			"loss_pct": loss,
			"stop_pct": m.policy.StopLossPct,
		}).Info("stop loss triggered")
		return true
	}
	return false
}

// CheckTakeProfit reports whether the position's gain from entry has
// reached the take-profit threshold. A non-positive TakeProfitPct
// disables the trigger.
func (m *Manager) CheckTakeProfit(currentPrice, entryPrice float64, side market.Side) bool {
	if m.policy.TakeProfitPct <= 0 {
		return false
	}
	if entryPrice <= 0 {
		return false
	}
	gain := -lossPct(currentPrice, entryPrice, side)
	if gain >= m.policy.TakeProfitPct {
		m.log.WithFields(logrus.Fields{
			"gain_pct": gain,
			"take_pct": m.policy.TakeProfitPct,
		}).Info("take profit triggered")
		return true
	}
	return false
}

// lossPct is the fractional loss from entry, direction-aware: positive
// means the position is under water.
func lossPct(current, entry float64, side market.Side) float64 {
	if side == market.Sell {
		return (current - entry) / entry
	}
	return (entry - current) / entry
}
