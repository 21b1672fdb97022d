package engine

import "math"

// rebalanceFeeMultiplier is the transaction drag applied to the hedged track
// on each rebalancing day (0.1% of portfolio value).
const rebalanceFeeMultiplier = 0.999

// DayValuation holds both portfolio tracks after one day's update. With
// hedging disabled the two values are identical.
type DayValuation struct {
	Hedged   float64
	Unhedged float64
}

// ValuateDay advances a portfolio value by one day's market return.
//
// The unhedged track compounds the raw return. The hedged track pays the
// daily hedge cost up front, then applies an asymmetric payoff: on down days
// the hedge recovers ratio*effectiveness of the loss, on up days it forfeits
// ratio*(1-effectiveness) of the gain. Rebalancing days additionally charge
// the transaction fee.
func ValuateDay(prior, marketReturn float64, cfg SimulationConfig, isRebalanceDay bool) DayValuation {
	unhedged := prior * (1 + marketReturn)
	if !cfg.HedgeEnabled {
		return DayValuation{Hedged: unhedged, Unhedged: unhedged}
	}

	hedged := prior * (1 + dailyHedgeCost(cfg.HedgeCostAnnual))
	if marketReturn < 0 {
		protection := -marketReturn * cfg.HedgeRatio * cfg.HedgeEffectiveness
		hedged *= 1 + marketReturn + protection
	} else {
		forfeited := cfg.HedgeRatio * (1 - cfg.HedgeEffectiveness)
		hedged *= 1 + marketReturn*(1-forfeited)
	}
	if isRebalanceDay {
		hedged *= rebalanceFeeMultiplier
	}
	return DayValuation{Hedged: hedged, Unhedged: unhedged}
}

// dailyHedgeCost converts the annual hedge cost percentage into the
// per-day geometric drag, so that 252 compounded days reproduce the
// annual figure.
func dailyHedgeCost(costAnnualPct float64) float64 {
	return math.Pow(1-costAnnualPct/100, 1.0/TradingDays) - 1
}
