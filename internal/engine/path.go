package engine

import "math"

// DailyMarketReturn produces the fractional market return for one simulated
// day: a discretized lognormal step with daily drift and volatility derived
// from the annualized inputs.
// S(t+1) = S(t) * exp((drift/252 - vol²/2) + vol*Z)
func DailyMarketReturn(rng *RNG, annualVolPct float64) float64 {
	dailyVol := annualVolPct / math.Sqrt(TradingDays)
	dv := dailyVol / 100
	z := rng.ApproxNormal()
	return math.Exp((DriftAnnual/TradingDays-0.5*dv*dv)+dv*z) - 1
}
