package perf

import "papertrade/ledger"

// RegressionResult holds the OLS fit of strategy returns on benchmark
// returns.
type RegressionResult struct {
	Beta  float64
	Alpha float64 // annualized intercept
	R2    float64
}

// Regression fits strategy = alpha + beta*benchmark by ordinary least
// squares. Inputs must be date-aligned and equal length; anything
// degenerate yields zeros.
func (a *Analyzer) Regression(strategy, benchmark []float64) RegressionResult {
	n := len(strategy)
	if n < 2 || n != len(benchmark) {
		return RegressionResult{}
	}

	meanY, _ := meanStd(strategy)
	meanX, _ := meanStd(benchmark)

	var covXY, varX, varY float64
	for i := 0; i < n; i++ {
		dx := benchmark[i] - meanX
		dy := strategy[i] - meanY
		covXY += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 {
		return RegressionResult{}
	}

	beta := covXY / varX
	alpha := (meanY - beta*meanX) * periodsPerYear

	r2 := 0.0
	if varY > 0 {
		r := covXY * covXY / (varX * varY)
		r2 = r
	}

	return RegressionResult{Beta: beta, Alpha: alpha, R2: r2}
}

// alignReturns intersects two snapshot series on common dates and returns
// the paired return series.
func alignReturns(strategy, benchmark []ledger.Snapshot) ([]float64, []float64) {
	benchByDate := make(map[int64]float64, len(benchmark))
	for _, s := range benchmark {
		benchByDate[s.Date.Unix()] = s.TotalValue
	}

	type pair struct{ strat, bench float64 }
	var aligned []pair
	for _, s := range strategy {
		if bv, ok := benchByDate[s.Date.Unix()]; ok {
			aligned = append(aligned, pair{s.TotalValue, bv})
		}
	}

	var sr, br []float64
	for i := 1; i < len(aligned); i++ {
		ps, pb := aligned[i-1].strat, aligned[i-1].bench
		if ps <= 0 || pb <= 0 {
			continue
		}
		sr = append(sr, aligned[i].strat/ps-1)
		br = append(br, aligned[i].bench/pb-1)
	}
	return sr, br
}
