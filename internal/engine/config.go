package engine

import "fmt"

// Fixed model parameters. The drift is an annual fraction while the
// volatility and rate inputs are percent figures; the valuation formulas
// depend on that asymmetry.
const (
	// DriftAnnual is the annual market drift (5%).
	DriftAnnual = 0.05
	// RiskFreeRatePct is the annual risk-free rate in percent (2%).
	RiskFreeRatePct = 2.0
	// TradingDays is the number of trading days per year used for all
	// daily-to-annual scaling.
	TradingDays = 252
	// InitialMarketPrice is the market index level on day 0.
	InitialMarketPrice = 100.0
	// InitialPortfolioValue is the starting value of both portfolio tracks.
	InitialPortfolioValue = 1_000_000.0
)

// SimulationConfig holds the per-run parameters. A config is immutable
// while a run is in progress; Configure replaces it wholesale between
// runs or while paused.
type SimulationConfig struct {
	MarketVolatility         float64 `json:"marketVolatility"` // annualized, percent
	TotalDays                int     `json:"totalDays"`
	HedgeEnabled             bool    `json:"hedgeEnabled"`
	HedgeRatio               float64 `json:"hedgeRatio"`         // fraction of exposure covered
	HedgeCostAnnual          float64 `json:"hedgeCostAnnual"`    // percent per year
	HedgeEffectiveness       float64 `json:"hedgeEffectiveness"` // fraction of protection realized
	RebalancingFrequencyDays int     `json:"rebalancingFrequencyDays"`
}

// DefaultConfig returns the parameters a fresh controller starts with:
// one trading year at 15% volatility with a monthly-rebalanced full hedge.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		MarketVolatility:         15,
		TotalDays:                252,
		HedgeEnabled:             true,
		HedgeRatio:               1.0,
		HedgeCostAnnual:          2.0,
		HedgeEffectiveness:       0.8,
		RebalancingFrequencyDays: 21,
	}
}

// Validate checks every field against its allowed range.
func (c SimulationConfig) Validate() error {
	if c.MarketVolatility < 5 || c.MarketVolatility > 40 {
		return fmt.Errorf("market volatility %.2f%% outside [5, 40]", c.MarketVolatility)
	}
	if c.TotalDays < 50 || c.TotalDays > 504 {
		return fmt.Errorf("total days %d outside [50, 504]", c.TotalDays)
	}
	if c.HedgeRatio < 0 || c.HedgeRatio > 1.5 {
		return fmt.Errorf("hedge ratio %.2f outside [0, 1.5]", c.HedgeRatio)
	}
	if c.HedgeCostAnnual < 0 || c.HedgeCostAnnual > 10 {
		return fmt.Errorf("hedge cost %.2f%% outside [0, 10]", c.HedgeCostAnnual)
	}
	if c.HedgeEffectiveness < 0 || c.HedgeEffectiveness > 1 {
		return fmt.Errorf("hedge effectiveness %.2f outside [0, 1]", c.HedgeEffectiveness)
	}
	if c.RebalancingFrequencyDays < 1 || c.RebalancingFrequencyDays > 63 {
		return fmt.Errorf("rebalancing frequency %d days outside [1, 63]", c.RebalancingFrequencyDays)
	}
	return nil
}
