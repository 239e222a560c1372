package strategy

import (
	"fmt"
	"math"

	"github.com/cinar/indicator"

	"papertrade/market"
)

// SMACross signals a buy when the fast simple moving average crosses above
// the slow one, and a sell when it crosses below. One instance tracks any
// number of symbols independently.
type SMACross struct {
	fast, slow int

	closes map[string][]float64
	// last observed fast-vs-slow relationship per symbol: +1 above, -1
	// below, 0 unknown.
	state map[string]int
}

func NewSMACross(fast, slow int) (*SMACross, error) {
	if fast <= 0 || slow <= 0 || fast >= slow {
		return nil, fmt.Errorf("sma cross: need 0 < fast < slow, got %d/%d", fast, slow)
	}
	s := &SMACross{fast: fast, slow: slow}
	s.Reset()
	return s, nil
}

func (s *SMACross) Name() string {
	return fmt.Sprintf("sma-cross-%d-%d", s.fast, s.slow)
}

func (s *SMACross) Reset() {
	s.closes = make(map[string][]float64)
	s.state = make(map[string]int)
}

func (s *SMACross) OnBar(bar market.Bar) *market.Signal {
	closes := append(s.closes[bar.Symbol], bar.Close)
	// Only the slow window is ever needed.
	if len(closes) > s.slow {
		closes = closes[len(closes)-s.slow:]
	}
	s.closes[bar.Symbol] = closes

	if len(closes) < s.slow {
		return nil
	}

	fast := last(indicator.Sma(s.fast, closes))
	slow := last(indicator.Sma(s.slow, closes))

	rel := 0
	if fast > slow {
		rel = +1
	} else if fast < slow {
		rel = -1
	}

	prev := s.state[bar.Symbol]
	s.state[bar.Symbol] = rel

	if prev == 0 || rel == 0 || rel == prev {
		return nil
	}

	sig := market.Signal{
		Date:     bar.Date,
		Symbol:   bar.Symbol,
		Price:    bar.Close,
		Strength: crossStrength(fast, slow),
	}
	if rel > 0 {
		sig.Type = market.SignalBuy
		sig.Note = "fast SMA crossed above slow"
	} else {
		sig.Type = market.SignalSell
		sig.Note = "fast SMA crossed below slow"
	}
	sig = sig.Clamp()
	return &sig
}

// crossStrength grades the cross by the relative gap between the averages.
func crossStrength(fast, slow float64) float64 {
	if slow == 0 {
		return 0
	}
	return math.Min(1, math.Abs(fast-slow)/slow*100)
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}
