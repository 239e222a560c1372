package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/cost"
	"papertrade/market"
	"papertrade/risk"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.AddDate(0, 0, n) }

func freeLedger(cash float64) *Ledger {
	return New(Config{InitialCash: cash})
}

// mustFill creates and executes an order at the given price, failing the
// test on any rejection.
func mustFill(t *testing.T, l *Ledger, sym string, side market.Side, shares, price float64, at time.Time) *Order {
	t.Helper()
	o, rej := l.CreateOrder(sym, side, shares, price, at)
	require.Nil(t, rej)
	require.Nil(t, l.ExecuteOrder(o, price, at))
	return o
}

func TestRoundTripIsExact(t *testing.T) {
	t.Parallel()

	l := freeLedger(100000)

	mustFill(t, l, "ACME", market.Buy, 100, 100, day(0))
	mustFill(t, l, "ACME", market.Sell, 100, 100, day(0))

	// Zero costs: ending cash must equal starting cash exactly.
	assert.Equal(t, 100000.0, l.Cash())
	assert.Nil(t, l.Position("ACME"))
	require.Len(t, l.Trades(), 1)
	assert.Equal(t, 0.0, l.Trades()[0].PnL)
}

func TestBuyWithCommission(t *testing.T) {
	t.Parallel()

	l := New(Config{
		InitialCash: 100000,
		Commission:  cost.FixedCommission{Rate: 0.0003, Min: 0},
	})

	mustFill(t, l, "ACME", market.Buy, 100, 100, day(0))

	assert.InDelta(t, 89997.00, l.Cash(), 1e-9)

	pos := l.Position("ACME")
	require.NotNil(t, pos)
	assert.InDelta(t, 100.00, pos.AvgPrice, 1e-9)
	assert.InDelta(t, 10000.00, pos.CostBasis, 1e-9)
}

func TestWeightedAverageCost(t *testing.T) {
	t.Parallel()

	l := freeLedger(100000)

	mustFill(t, l, "ACME", market.Buy, 100, 100, day(0))
	mustFill(t, l, "ACME", market.Buy, 100, 110, day(1))

	pos := l.Position("ACME")
	require.NotNil(t, pos)
	assert.InDelta(t, 105.0, pos.AvgPrice, 1e-9)
	assert.InDelta(t, 21000.0, pos.CostBasis, 1e-9)
	assert.Equal(t, 200.0, pos.Shares)
}

func TestSellRejectsWithoutShares(t *testing.T) {
	t.Parallel()

	l := freeLedger(100000)
	mustFill(t, l, "ACME", market.Buy, 100, 100, day(0))

	cashBefore := l.Cash()
	sharesBefore := l.Position("ACME").Shares

	_, rej := l.CreateOrder("ACME", market.Sell, 150, 100, day(1))
	require.NotNil(t, rej)
	assert.Equal(t, InsufficientPosition, rej.Code)

	// Rejection leaves cash and positions untouched.
	assert.Equal(t, cashBefore, l.Cash())
	assert.Equal(t, sharesBefore, l.Position("ACME").Shares)
}

func TestBuyRejectsWithoutCash(t *testing.T) {
	t.Parallel()

	l := freeLedger(1000)

	_, rej := l.CreateOrder("ACME", market.Buy, 100, 100, day(0))
	require.NotNil(t, rej)
	assert.Equal(t, InsufficientFunds, rej.Code)
	assert.Equal(t, 1000.0, l.Cash())
	assert.Empty(t, l.Orders())
}

func TestPositionSizeGate(t *testing.T) {
	t.Parallel()

	l := New(Config{
		InitialCash: 100000,
		Risk:        risk.New(risk.Policy{MaxPositionPct: 0.10}, nil),
	})

	_, rej := l.CreateOrder("ACME", market.Buy, 200, 100, day(0))
	require.NotNil(t, rej)
	assert.Equal(t, RiskLimitExceeded, rej.Code)

	o, rej := l.CreateOrder("ACME", market.Buy, 100, 100, day(0))
	assert.Nil(t, rej)
	assert.NotNil(t, o)
}

func TestScaleOutEmitsNoTrade(t *testing.T) {
	t.Parallel()

	l := freeLedger(100000)
	mustFill(t, l, "ACME", market.Buy, 100, 100, day(0))

	// Partial reduction: basis and cash move, but no Trade.
	mustFill(t, l, "ACME", market.Sell, 40, 110, day(1))
	assert.Empty(t, l.Trades())

	pos := l.Position("ACME")
	require.NotNil(t, pos)
	assert.Equal(t, 60.0, pos.Shares)
	assert.InDelta(t, 6000.0, pos.CostBasis, 1e-9)
	assert.InDelta(t, 400.0, pos.RealizedPL, 1e-9)

	// Closing the remainder emits exactly one Trade covering the full entry.
	mustFill(t, l, "ACME", market.Sell, 60, 110, day(5))
	require.Len(t, l.Trades(), 1)
	assert.Nil(t, l.Position("ACME"))

	tr := l.Trades()[0]
	assert.Equal(t, "ACME", tr.Symbol)
	assert.Equal(t, day(0), tr.EntryDate)
	assert.Equal(t, day(5), tr.ExitDate)
	assert.InDelta(t, 100.0, tr.EntryPrice, 1e-9)
	assert.InDelta(t, 110.0, tr.ExitPrice, 1e-9)
	assert.Equal(t, 100.0, tr.Shares)
	assert.InDelta(t, 1000.0, tr.PnL, 1e-9)
	assert.InDelta(t, 0.1, tr.ReturnRate, 1e-9)
	assert.Equal(t, 5, tr.HoldingDays)
}

func TestSellRealizedPnLNetOfCosts(t *testing.T) {
	t.Parallel()

	l := New(Config{
		InitialCash: 100000,
		Commission:  cost.FixedCommission{Rate: 0.001, Min: 0},
	})

	o, rej := l.CreateOrder("ACME", market.Buy, 100, 100, day(0))
	require.Nil(t, rej)
	require.Nil(t, l.ExecuteOrder(o, 100, day(0)))

	o, rej = l.CreateOrder("ACME", market.Sell, 100, 110, day(1))
	require.Nil(t, rej)
	require.Nil(t, l.ExecuteOrder(o, 110, day(1)))

	require.Len(t, l.Trades(), 1)
	// (110-100)*100 minus the sell-side commission of 11000*0.001.
	assert.InDelta(t, 1000-11, l.Trades()[0].PnL, 1e-9)
}

func TestConservationInvariant(t *testing.T) {
	t.Parallel()

	l := New(Config{
		InitialCash: 100000,
		Commission:  cost.FixedCommission{Rate: 0.0005, Min: 1},
		Slippage:    cost.FixedSlippage{Rate: 0.0002},
	})

	mustFill(t, l, "ACME", market.Buy, 100, 100, day(0))
	mustFill(t, l, "ZORG", market.Buy, 50, 40, day(0))

	for i := 1; i <= 5; i++ {
		snap := l.UpdatePortfolio(map[string]float64{
			"ACME": 100 + float64(i),
			"ZORG": 40 - float64(i)*0.5,
		}, day(i))

		sum := snap.Cash
		for _, p := range l.Positions() {
			sum += p.MarketValue
		}
		assert.InDelta(t, snap.TotalValue, sum, 1e-9)
		assert.InDelta(t, snap.TotalValue, snap.Cash+snap.MarketValue, 1e-9)
	}
}

func TestUpdatePortfolioTracksDrawdown(t *testing.T) {
	t.Parallel()

	l := freeLedger(100000)
	mustFill(t, l, "ACME", market.Buy, 100, 100, day(0))

	l.UpdatePortfolio(map[string]float64{"ACME": 120}, day(1)) // peak 102000
	l.UpdatePortfolio(map[string]float64{"ACME": 80}, day(2))  // trough 98000

	assert.InDelta(t, 4000.0/102000.0, l.MaxDrawdown(), 1e-9)
	assert.Len(t, l.Snapshots(), 2)
}

func TestExecuteOrderRejectsBadOrder(t *testing.T) {
	t.Parallel()

	l := freeLedger(100000)

	rej := l.ExecuteOrder(nil, 100, day(0))
	require.NotNil(t, rej)
	assert.Equal(t, InvalidMarketData, rej.Code)

	o, _ := l.CreateOrder("ACME", market.Buy, 10, 100, day(0))
	o.MarkRejected()
	rej = l.ExecuteOrder(o, 100, day(0))
	require.NotNil(t, rej)
}

func TestQuickStats(t *testing.T) {
	t.Parallel()

	l := freeLedger(100000)
	mustFill(t, l, "ACME", market.Buy, 100, 100, day(0))
	l.UpdatePortfolio(map[string]float64{"ACME": 105}, day(1))
	l.UpdatePortfolio(map[string]float64{"ACME": 110}, day(2))
	mustFill(t, l, "ACME", market.Sell, 100, 110, day(2))
	l.UpdatePortfolio(map[string]float64{}, day(3))

	s := l.QuickStats()
	assert.Equal(t, 1, s.Trades)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 0, s.Losses)
	assert.InDelta(t, 0.01, s.TotalReturn, 1e-9)
	assert.Greater(t, s.Sharpe, 0.0)
}

func TestExecuteOrderSettlesMixedFillsOnce(t *testing.T) {
	t.Parallel()

	l := freeLedger(100000)

	o, rej := l.CreateOrder("ACME", market.Buy, 100, 100, day(0))
	require.Nil(t, rej)

	// 40 shares settle through the partial path first.
	require.Nil(t, l.ApplyPartialFill(o, 40, 100, day(0)))
	assert.InDelta(t, 96000.0, l.Cash(), 1e-9)
	assert.Equal(t, 40.0, o.Settled)

	// Executor completes the rest and stamps the order.
	o.MarkFilled(day(1))

	// Only the unsettled 60 shares may hit the account.
	require.Nil(t, l.ExecuteOrder(o, 100, day(1)))
	assert.InDelta(t, 90000.0, l.Cash(), 1e-9)
	assert.Equal(t, 100.0, l.Position("ACME").Shares)

	// A repeat attempt has nothing left to settle.
	rej = l.ExecuteOrder(o, 100, day(1))
	require.NotNil(t, rej)
	assert.Equal(t, InvalidMarketData, rej.Code)
	assert.InDelta(t, 90000.0, l.Cash(), 1e-9)
}
