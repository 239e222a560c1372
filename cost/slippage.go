package cost

// FixedSlippage charges a flat rate of traded value: price * shares * rate.
type FixedSlippage struct {
	Rate float64 // e.g. 0.0005
}

func (s FixedSlippage) Slippage(q Quote) float64 {
	return q.Value() * s.Rate
}

// VolumeSlippage scales the base rate linearly with the order's share of
// bar volume: big orders against thin bars slip more.
type VolumeSlippage struct {
	BaseRate     float64 // rate when the order is negligible vs volume
	VolumeFactor float64 // additional rate per unit of shares/volume
}

func (s VolumeSlippage) Slippage(q Quote) float64 {
	rate := s.BaseRate * (1 + s.VolumeFactor*q.VolumeRatio())
	return q.Value() * rate
}

// BidAskSlippage charges a fraction of the quoted spread per share. Buys pay
// up toward the ask, sells give up toward the bid; either way it is a cost,
// so the result is non-negative.
type BidAskSlippage struct {
	SpreadFactor float64 // fraction of the spread paid, e.g. 0.5
}

func (s BidAskSlippage) Slippage(q Quote) float64 {
	spread := q.Ask - q.Bid
	if spread < 0 {
		spread = 0
	}
	return spread * s.SpreadFactor * q.Shares
}
