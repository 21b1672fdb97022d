package report

import (
	"sort"

	"github.com/ndrandal/hedge-simulator/internal/engine"
)

// RunResult bundles everything a finished run leaves behind.
type RunResult struct {
	Config  engine.SimulationConfig
	History []engine.HistoryRecord
	Metrics engine.MetricsSnapshot
}

// FinalValue returns the portfolio value at the end of the run, or 0 for
// an empty history.
func (r RunResult) FinalValue() float64 {
	if len(r.History) == 0 {
		return 0
	}
	return r.History[len(r.History)-1].PortfolioValue
}

// Distribution summarizes final portfolio values across repeated runs of
// the same configuration under different seeds.
type Distribution struct {
	Runs            int     `json:"runs"`
	Mean            float64 `json:"mean"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	P5              float64 `json:"p5"`
	P25             float64 `json:"p25"`
	P50             float64 `json:"p50"`
	P75             float64 `json:"p75"`
	P95             float64 `json:"p95"`
	LossProbability float64 `json:"lossProbability"`
}

// Summarize computes distribution statistics over per-run final values.
// Loss probability is the share of runs that ended below initialValue.
func Summarize(finals []float64, initialValue float64) Distribution {
	n := len(finals)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, finals)
	sort.Float64s(sorted)

	sum := 0.0
	losses := 0
	for _, v := range finals {
		sum += v
		if v < initialValue {
			losses++
		}
	}

	return Distribution{
		Runs:            n,
		Mean:            sum / float64(n),
		Min:             sorted[0],
		Max:             sorted[n-1],
		P5:              percentile(sorted, 0.05),
		P25:             percentile(sorted, 0.25),
		P50:             percentile(sorted, 0.50),
		P75:             percentile(sorted, 0.75),
		P95:             percentile(sorted, 0.95),
		LossProbability: float64(losses) / float64(n),
	}
}

// percentile uses linear interpolation over values sorted ASC.
// p is a fraction (0.05 = 5th percentile).
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
