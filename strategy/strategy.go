// Package strategy holds built-in signal sources. The engine treats the
// strategy layer as an external collaborator: anything that turns bars
// into signals can drive a backtest.
package strategy

import "papertrade/market"

// SignalSource turns one bar at a time into an optional trading signal.
// Returning nil means no action this period.
type SignalSource interface {
	Name() string
	Reset()
	OnBar(bar market.Bar) *market.Signal
}

// Noop never signals. Useful as a baseline and in tests.
type Noop struct{}

func (Noop) Name() string                    { return "noop" }
func (Noop) Reset()                          {}
func (Noop) OnBar(market.Bar) *market.Signal { return nil }
