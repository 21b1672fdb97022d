package engine

import "math"

// MetricsSnapshot holds the risk and performance measures derived from a
// run's history. SharpeRatio is nil while realized volatility is zero.
// FinalPortfolioValue is set once, when the run completes.
type MetricsSnapshot struct {
	MaxDrawdownPct          float64  `json:"maxDrawdownPct"`
	AnnualizedVolatilityPct float64  `json:"annualizedVolatilityPct"`
	AnnualizedReturnPct     float64  `json:"annualizedReturnPct"`
	SharpeRatio             *float64 `json:"sharpeRatio"`
	FinalPortfolioValue     float64  `json:"finalPortfolioValue,omitempty"`
}

// ComputeMetrics derives drawdown, volatility, annualized return and Sharpe
// ratio from the live portfolio track. It needs at least two history records
// to have a daily return to work with; with fewer it returns an empty
// snapshot.
func ComputeMetrics(history []HistoryRecord, current, initial, riskFreePct float64) MetricsSnapshot {
	var snap MetricsSnapshot
	if len(history) < 2 {
		return snap
	}

	peak := history[0].PortfolioValue
	maxDD := 0.0
	for _, rec := range history {
		if rec.PortfolioValue > peak {
			peak = rec.PortfolioValue
		}
		if dd := (peak - rec.PortfolioValue) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	snap.MaxDrawdownPct = maxDD * 100

	returns := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		prev := history[i-1].PortfolioValue
		returns = append(returns, (history[i].PortfolioValue-prev)/prev)
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	snap.AnnualizedVolatilityPct = math.Sqrt(variance) * math.Sqrt(TradingDays) * 100

	// The compounding exponent divides by the record count including the
	// day-0 seed record, so a full 252-day run annualizes over 253 points.
	annRet := math.Pow(current/initial, TradingDays/float64(len(history))) - 1
	snap.AnnualizedReturnPct = annRet * 100

	if snap.AnnualizedVolatilityPct != 0 {
		sharpe := (snap.AnnualizedReturnPct - riskFreePct) / snap.AnnualizedVolatilityPct
		snap.SharpeRatio = &sharpe
	}
	return snap
}
