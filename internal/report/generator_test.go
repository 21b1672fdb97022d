package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ndrandal/hedge-simulator/internal/engine"
)

var fixedClock = func() time.Time {
	return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
}

func TestSummaryHedgedRun(t *testing.T) {
	sharpe := 0.42
	res := RunResult{
		Config:  engine.DefaultConfig(),
		History: hedgedHistory(),
		Metrics: engine.MetricsSnapshot{
			MaxDrawdownPct:          3.5,
			AnnualizedVolatilityPct: 11.2,
			AnnualizedReturnPct:     4.1,
			SharpeRatio:             &sharpe,
		},
	}

	out := NewGenerator().WithClock(fixedClock).Summary(res)

	assert.Contains(t, out, "Generated: 2026-01-15T12:00:00Z")
	assert.Contains(t, out, "Configuration")
	assert.Contains(t, out, "Market volatility")
	assert.Contains(t, out, "enabled")
	assert.Contains(t, out, "Hedge ratio")
	assert.Contains(t, out, "Rebalance every")
	assert.Contains(t, out, "Hedging drag")
	assert.Contains(t, out, "Unhedged track")
	assert.Contains(t, out, "0.42")
	assert.Contains(t, out, "3.50%")
}

func TestSummaryUnhedgedRun(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.HedgeEnabled = false
	res := RunResult{
		Config: cfg,
		History: []engine.HistoryRecord{
			{Day: 0, MarketPrice: 100, PortfolioValue: 1_000_000, UnhedgedPortfolio: 1_000_000},
			{Day: 1, MarketPrice: 101, PortfolioValue: 1_010_000, UnhedgedPortfolio: 1_010_000},
		},
	}

	out := NewGenerator().WithClock(fixedClock).Summary(res)

	assert.Contains(t, out, "disabled")
	assert.NotContains(t, out, "Hedge ratio")
	assert.NotContains(t, out, "Hedging drag")
}

func TestSummaryNilSharpe(t *testing.T) {
	res := RunResult{Config: engine.DefaultConfig(), History: hedgedHistory()}

	out := NewGenerator().WithClock(fixedClock).Summary(res)

	assert.Contains(t, out, "n/a")
}

func TestSummaryEmptyHistorySkipsResults(t *testing.T) {
	res := RunResult{Config: engine.DefaultConfig()}

	out := NewGenerator().WithClock(fixedClock).Summary(res)

	assert.NotContains(t, out, "Results")
	assert.Contains(t, out, "Metrics")
}

func TestSummaryDeterministic(t *testing.T) {
	res := RunResult{Config: engine.DefaultConfig(), History: hedgedHistory()}
	gen := NewGenerator().WithClock(fixedClock)

	first := gen.Summary(res)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, gen.Summary(res))
	}
}

func TestDistributionSummary(t *testing.T) {
	cfg := engine.DefaultConfig()
	dist := Summarize([]float64{950_000, 1_020_000, 1_100_000}, engine.InitialPortfolioValue)

	out := NewGenerator().WithClock(fixedClock).DistributionSummary(cfg, dist)

	assert.Contains(t, out, "Generated: 2026-01-15T12:00:00Z")
	assert.Contains(t, out, "Runs: 3")
	assert.Contains(t, out, "Hedging: enabled")
	assert.Contains(t, out, "Median")
	assert.Contains(t, out, "Loss probability")
	assert.Contains(t, out, "33.3%")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "Portfolio Hedging Simulation (distribution)", lines[0])
}
