package market

import "time"

// Side: +1 buy, -1 sell.
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// SignalType classifies a strategy signal.
type SignalType string

const (
	SignalBuy  SignalType = "buy"
	SignalSell SignalType = "sell"
	SignalHold SignalType = "hold"
)

// Signal is what the strategy layer hands the engine: an instruction to act
// on a symbol at a given date. Strength is clamped to [0, 1].
type Signal struct {
	Date     time.Time
	Symbol   string
	Type     SignalType
	Price    float64
	Strength float64
	Note     string
}

// Clamp bounds Strength to [0, 1] in place and returns the signal.
func (s Signal) Clamp() Signal {
	if s.Strength < 0 {
		s.Strength = 0
	}
	if s.Strength > 1 {
		s.Strength = 1
	}
	return s
}
