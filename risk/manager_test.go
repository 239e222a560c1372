package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"papertrade/market"
)

func newTestManager() *Manager {
	return New(Policy{
		MaxPositionPct: 0.20,
		MaxDrawdownPct: 0.10,
		StopLossPct:    0.05,
		TakeProfitPct:  0.15,
	}, nil)
}

func TestCheckPositionSize(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	assert.True(t, m.CheckPositionSize(100000, 20000))  // exactly at limit
	assert.True(t, m.CheckPositionSize(100000, 10000))  // under
	assert.False(t, m.CheckPositionSize(100000, 20001)) // over
	assert.False(t, m.CheckPositionSize(0, 1000))       // empty book
}

func TestZeroPolicyDisablesChecks(t *testing.T) {
	t.Parallel()

	// A zero-valued policy (e.g. config with no risk section) must not
	// block buys or exit positions on the first flat bar.
	m := New(Policy{}, nil)

	assert.True(t, m.CheckPositionSize(100000, 1))
	assert.True(t, m.CheckPositionSize(100000, 100000))
	assert.True(t, m.CheckDrawdown(50000, 100000))
	assert.False(t, m.CheckStopLoss(50, 100, market.Buy))
	assert.False(t, m.CheckTakeProfit(100, 100, market.Buy))
	assert.False(t, m.CheckTakeProfit(200, 100, market.Buy))
}

func TestCheckDrawdown(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	assert.True(t, m.CheckDrawdown(95000, 100000))  // 5% down, ok
	assert.True(t, m.CheckDrawdown(90000, 100000))  // exactly at limit
	assert.False(t, m.CheckDrawdown(89000, 100000)) // breached
	assert.True(t, m.CheckDrawdown(100, 0))         // no peak yet
}

func TestCheckStopLoss(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	tests := []struct {
		name      string
		current   float64
		entry     float64
		side      market.Side
		triggered bool
	}{
		{"long_above_entry", 105, 100, market.Buy, false},
		{"long_small_loss", 97, 100, market.Buy, false},
		{"long_at_threshold", 95, 100, market.Buy, true},
		{"long_deep_loss", 90, 100, market.Buy, true},
		{"short_profits_when_price_falls", 90, 100, market.Sell, false},
		{"short_loses_when_price_rises", 106, 100, market.Sell, true},
		{"zero_entry_never_triggers", 90, 0, market.Buy, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.triggered, m.CheckStopLoss(tt.current, tt.entry, tt.side))
		})
	}
}

func TestCheckTakeProfit(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	assert.False(t, m.CheckTakeProfit(110, 100, market.Buy))
	assert.True(t, m.CheckTakeProfit(115, 100, market.Buy))
	assert.True(t, m.CheckTakeProfit(85, 100, market.Sell))
	assert.False(t, m.CheckTakeProfit(115, 100, market.Sell))
}
