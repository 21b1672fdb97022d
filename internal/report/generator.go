package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndrandal/hedge-simulator/internal/engine"
)

// Generator renders simulation results as plain text.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Summary renders a fixed-width text summary of a completed run.
func (g *Generator) Summary(res RunResult) string {
	var sb strings.Builder

	sb.WriteString("Portfolio Hedging Simulation\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", g.now().Format(time.RFC3339)))

	cfg := res.Config
	sb.WriteString("Configuration\n")
	writeRow(&sb, "Market volatility", "%.1f%% annual", cfg.MarketVolatility)
	writeRow(&sb, "Horizon", "%d trading days", cfg.TotalDays)
	if cfg.HedgeEnabled {
		writeRow(&sb, "Hedging", "enabled")
		writeRow(&sb, "Hedge ratio", "%.2f", cfg.HedgeRatio)
		writeRow(&sb, "Hedge cost", "%.2f%% annual", cfg.HedgeCostAnnual)
		writeRow(&sb, "Effectiveness", "%.2f", cfg.HedgeEffectiveness)
		writeRow(&sb, "Rebalance every", "%d days", cfg.RebalancingFrequencyDays)
	} else {
		writeRow(&sb, "Hedging", "disabled")
	}
	sb.WriteString("\n")

	if len(res.History) > 0 {
		last := res.History[len(res.History)-1]
		sb.WriteString("Results\n")
		writeRow(&sb, "Final market price", "%.2f", last.MarketPrice)
		writeRow(&sb, "Final portfolio", "%.2f", last.PortfolioValue)
		writeRow(&sb, "Unhedged track", "%.2f", last.UnhedgedPortfolio)
		if cfg.HedgeEnabled {
			writeRow(&sb, "Hedging drag", "%.2f", last.UnhedgedPortfolio-last.PortfolioValue)
		}
		sb.WriteString("\n")
	}

	m := res.Metrics
	sb.WriteString("Metrics\n")
	writeRow(&sb, "Annualized return", "%.2f%%", m.AnnualizedReturnPct)
	writeRow(&sb, "Annualized volatility", "%.2f%%", m.AnnualizedVolatilityPct)
	if m.SharpeRatio != nil {
		writeRow(&sb, "Sharpe ratio", "%.2f", *m.SharpeRatio)
	} else {
		writeRow(&sb, "Sharpe ratio", "n/a")
	}
	writeRow(&sb, "Max drawdown", "%.2f%%", m.MaxDrawdownPct)

	return sb.String()
}

// DistributionSummary renders a fixed-width text summary of final values
// across repeated runs.
func (g *Generator) DistributionSummary(cfg engine.SimulationConfig, dist Distribution) string {
	var sb strings.Builder

	sb.WriteString("Portfolio Hedging Simulation (distribution)\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", g.now().Format(time.RFC3339)))

	hedging := "disabled"
	if cfg.HedgeEnabled {
		hedging = "enabled"
	}
	sb.WriteString(fmt.Sprintf("Runs: %d | Vol: %.1f%% | Days: %d | Hedging: %s\n\n",
		dist.Runs, cfg.MarketVolatility, cfg.TotalDays, hedging))

	sb.WriteString("Final portfolio value\n")
	writeRow(&sb, "Mean", "%.2f", dist.Mean)
	writeRow(&sb, "Min", "%.2f", dist.Min)
	writeRow(&sb, "P5", "%.2f", dist.P5)
	writeRow(&sb, "P25", "%.2f", dist.P25)
	writeRow(&sb, "Median", "%.2f", dist.P50)
	writeRow(&sb, "P75", "%.2f", dist.P75)
	writeRow(&sb, "P95", "%.2f", dist.P95)
	writeRow(&sb, "Max", "%.2f", dist.Max)
	writeRow(&sb, "Loss probability", "%.1f%%", dist.LossProbability*100)

	return sb.String()
}

// writeRow writes one aligned "label  value" line.
func writeRow(sb *strings.Builder, label, format string, args ...any) {
	all := append([]any{label}, args...)
	sb.WriteString(fmt.Sprintf("  %-22s "+format+"\n", all...))
}
