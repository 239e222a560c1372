package market

import (
	"fmt"
	"time"
)

// Bar is one period of OHLCV data for a single symbol.
type Bar struct {
	Date   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate reports whether the bar is internally consistent: all prices
// positive, volume non-negative, and open/close inside [low, high].
func (b Bar) Validate() error {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar %s %s: non-positive price", b.Symbol, b.Date.Format("2006-01-02"))
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar %s %s: negative volume", b.Symbol, b.Date.Format("2006-01-02"))
	}
	if b.Low > b.Open || b.Open > b.High {
		return fmt.Errorf("bar %s %s: open %.4f outside [low, high]", b.Symbol, b.Date.Format("2006-01-02"), b.Open)
	}
	if b.Low > b.Close || b.Close > b.High {
		return fmt.Errorf("bar %s %s: close %.4f outside [low, high]", b.Symbol, b.Date.Format("2006-01-02"), b.Close)
	}
	return nil
}

// Range is the bar's high-low spread.
func (b Bar) Range() float64 { return b.High - b.Low }
