package cost

// FixedCommission charges value*rate floored at a minimum ticket charge.
type FixedCommission struct {
	Rate float64 // e.g. 0.0003
	Min  float64 // e.g. 5.0
}

func (c FixedCommission) Commission(value float64) float64 {
	comm := value * c.Rate
	if comm < c.Min {
		comm = c.Min
	}
	return comm
}

// Tier is one commission band: the rate applies to trade values up to and
// including Threshold.
type Tier struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Rate      float64 `json:"rate" yaml:"rate"`
}

// TieredCommission picks the first tier whose threshold covers the trade
// value. Tiers must be sorted by ascending threshold; values beyond the
// last threshold pay the last tier's rate. The result is floored at Min.
type TieredCommission struct {
	Tiers []Tier
	Min   float64
}

func (c TieredCommission) Commission(value float64) float64 {
	if len(c.Tiers) == 0 {
		return c.Min
	}

	rate := c.Tiers[len(c.Tiers)-1].Rate
	for _, t := range c.Tiers {
		if value <= t.Threshold {
			rate = t.Rate
			break
		}
	}

	comm := value * rate
	if comm < c.Min {
		comm = c.Min
	}
	return comm
}
