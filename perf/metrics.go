package perf

import "time"

// Metrics is the flat record of derived performance numbers for one run.
// Zero-valued when there is not enough data to derive anything.
type Metrics struct {
	TotalReturn  float64 `json:"total_return"`
	AnnualReturn float64 `json:"annual_return"`
	Volatility   float64 `json:"volatility"`

	Sharpe  float64 `json:"sharpe"`
	Sortino float64 `json:"sortino"`
	Calmar  float64 `json:"calmar"`

	MaxDrawdown     float64   `json:"max_drawdown"`
	MaxDrawdownDate time.Time `json:"max_drawdown_date"`

	VaR95  float64 `json:"var_95"`
	CVaR95 float64 `json:"cvar_95"`

	// Benchmark-relative; zero when no benchmark was supplied.
	Beta             float64 `json:"beta"`
	Alpha            float64 `json:"alpha"`
	R2               float64 `json:"r2"`
	InformationRatio float64 `json:"information_ratio"`
	TrackingError    float64 `json:"tracking_error"`

	Trades TradeStats `json:"trades"`
}

// TradeStats summarizes the closed-trade list.
type TradeStats struct {
	Total   int     `json:"total"`
	Winners int     `json:"winners"`
	Losers  int     `json:"losers"`
	WinRate float64 `json:"win_rate"`

	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"` // negative
	ProfitFactor float64 `json:"profit_factor"`

	Best  float64 `json:"best"`
	Worst float64 `json:"worst"`

	AvgHoldingDays float64 `json:"avg_holding_days"`
	TotalPnL       float64 `json:"total_pnl"`
}
