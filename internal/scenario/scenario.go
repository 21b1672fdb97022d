package scenario

import "github.com/ndrandal/hedge-simulator/internal/engine"

// Profile groups scenarios by the market regime they model.
type Profile string

const (
	ProfileBaseline   Profile = "baseline"
	ProfileDefensive  Profile = "defensive"
	ProfileAggressive Profile = "aggressive"
	ProfileCrisis     Profile = "crisis"
	ProfileCostly     Profile = "costly"
)

// Scenario is a named, ready-to-apply parameter set for the simulation.
type Scenario struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Profile     Profile                 `json:"profile"`
	Config      engine.SimulationConfig `json:"config"`
}

// AllScenarios returns the built-in catalog across 5 profiles.
func AllScenarios() []Scenario {
	return []Scenario{
		// Baseline — the defaults and their unhedged twin
		{"baseline", "Moderate volatility with the standard protective hedge", ProfileBaseline,
			engine.SimulationConfig{MarketVolatility: 15, TotalDays: 252, HedgeEnabled: true, HedgeRatio: 1.0, HedgeCostAnnual: 2.0, HedgeEffectiveness: 0.8, RebalancingFrequencyDays: 21}},
		{"unhedged-drift", "Moderate volatility with no hedge, pure market exposure", ProfileBaseline,
			engine.SimulationConfig{MarketVolatility: 15, TotalDays: 252, HedgeEnabled: false, HedgeRatio: 0, HedgeCostAnnual: 0, HedgeEffectiveness: 0.8, RebalancingFrequencyDays: 21}},

		// Defensive — low volatility, heavy protection
		{"defensive", "Calm market with a near-full hedge and frequent rebalancing", ProfileDefensive,
			engine.SimulationConfig{MarketVolatility: 10, TotalDays: 252, HedgeEnabled: true, HedgeRatio: 1.0, HedgeCostAnnual: 2.5, HedgeEffectiveness: 0.95, RebalancingFrequencyDays: 10}},
		{"capital-preservation", "Minimal volatility with a tight weekly rebalance", ProfileDefensive,
			engine.SimulationConfig{MarketVolatility: 8, TotalDays: 252, HedgeEnabled: true, HedgeRatio: 0.9, HedgeCostAnnual: 3.0, HedgeEffectiveness: 0.9, RebalancingFrequencyDays: 5}},

		// Aggressive — high volatility, thin or no protection
		{"aggressive", "High volatility with a thin hedge, gains run mostly open", ProfileAggressive,
			engine.SimulationConfig{MarketVolatility: 30, TotalDays: 252, HedgeEnabled: true, HedgeRatio: 0.3, HedgeCostAnnual: 1.0, HedgeEffectiveness: 0.6, RebalancingFrequencyDays: 42}},
		{"momentum", "Elevated volatility with hedging switched off", ProfileAggressive,
			engine.SimulationConfig{MarketVolatility: 25, TotalDays: 252, HedgeEnabled: false, HedgeRatio: 0, HedgeCostAnnual: 0, HedgeEffectiveness: 0.8, RebalancingFrequencyDays: 21}},

		// Crisis — stress-level volatility
		{"crisis", "Stress-level volatility with a full protective hedge", ProfileCrisis,
			engine.SimulationConfig{MarketVolatility: 40, TotalDays: 252, HedgeEnabled: true, HedgeRatio: 1.0, HedgeCostAnnual: 4.0, HedgeEffectiveness: 0.9, RebalancingFrequencyDays: 10}},
		{"drawdown-drill", "A short violent quarter for drawdown behaviour", ProfileCrisis,
			engine.SimulationConfig{MarketVolatility: 40, TotalDays: 63, HedgeEnabled: true, HedgeRatio: 1.0, HedgeCostAnnual: 3.5, HedgeEffectiveness: 0.85, RebalancingFrequencyDays: 5}},

		// Costly — the hedge itself is the drag
		{"costly-hedge", "Standard market but the hedge is expensive to carry", ProfileCostly,
			engine.SimulationConfig{MarketVolatility: 15, TotalDays: 252, HedgeEnabled: true, HedgeRatio: 1.0, HedgeCostAnnual: 5.0, HedgeEffectiveness: 0.8, RebalancingFrequencyDays: 21}},
		{"churn", "Daily rebalancing grinds fees against a moderate market", ProfileCostly,
			engine.SimulationConfig{MarketVolatility: 18, TotalDays: 252, HedgeEnabled: true, HedgeRatio: 0.8, HedgeCostAnnual: 3.0, HedgeEffectiveness: 0.75, RebalancingFrequencyDays: 1}},
	}
}

// ByName returns a map from scenario name to scenario for quick lookups.
func ByName() map[string]*Scenario {
	all := AllScenarios()
	m := make(map[string]*Scenario, len(all))
	for i := range all {
		m[all[i].Name] = &all[i]
	}
	return m
}

// Profiles returns the unique profiles in catalog order.
func Profiles() []Profile {
	return []Profile{
		ProfileBaseline, ProfileDefensive, ProfileAggressive,
		ProfileCrisis, ProfileCostly,
	}
}

// ByProfile groups scenarios by their profile.
func ByProfile() map[Profile][]Scenario {
	m := make(map[Profile][]Scenario)
	for _, s := range AllScenarios() {
		m[s.Profile] = append(m[s.Profile], s)
	}
	return m
}
