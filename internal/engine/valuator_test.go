package engine

import (
	"math"
	"testing"
)

func hedgedCfg() SimulationConfig {
	cfg := DefaultConfig()
	cfg.HedgeEnabled = true
	cfg.HedgeRatio = 1.0
	cfg.HedgeCostAnnual = 2.0
	cfg.HedgeEffectiveness = 0.8
	return cfg
}

func TestValuateDayHedgeDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HedgeEnabled = false
	val := ValuateDay(1_000_000, 0.01, cfg, false)
	want := 1_000_000 * 1.01
	if val.Unhedged != want {
		t.Fatalf("unhedged: got %v, want %v", val.Unhedged, want)
	}
	if val.Hedged != val.Unhedged {
		t.Fatalf("disabled hedge should leave both tracks identical: %v vs %v", val.Hedged, val.Unhedged)
	}
}

func TestValuateDayDownsideProtection(t *testing.T) {
	cfg := hedgedCfg()
	val := ValuateDay(1_000_000, -0.05, cfg, false)
	if val.Unhedged != 1_000_000*0.95 {
		t.Fatalf("unhedged: got %v", val.Unhedged)
	}
	// ratio 1.0 at effectiveness 0.8 recovers 80% of the 5% loss.
	if val.Hedged <= val.Unhedged {
		t.Fatalf("hedge should soften a large down day: hedged %v, unhedged %v", val.Hedged, val.Unhedged)
	}
	approx := 1_000_000 * (1 + dailyHedgeCost(cfg.HedgeCostAnnual)) * (1 - 0.05 + 0.05*0.8)
	if math.Abs(val.Hedged-approx) > 1e-6 {
		t.Fatalf("hedged: got %v, want %v", val.Hedged, approx)
	}
}

func TestValuateDayUpsideForfeit(t *testing.T) {
	cfg := hedgedCfg()
	val := ValuateDay(1_000_000, 0.05, cfg, false)
	if val.Hedged >= val.Unhedged {
		t.Fatalf("hedge should trail a large up day: hedged %v, unhedged %v", val.Hedged, val.Unhedged)
	}
	// ratio 1.0 at effectiveness 0.8 forfeits 20% of the gain.
	approx := 1_000_000 * (1 + dailyHedgeCost(cfg.HedgeCostAnnual)) * (1 + 0.05*0.8)
	if math.Abs(val.Hedged-approx) > 1e-6 {
		t.Fatalf("hedged: got %v, want %v", val.Hedged, approx)
	}
}

func TestValuateDayFullProtectionFlatCost(t *testing.T) {
	cfg := hedgedCfg()
	cfg.HedgeEffectiveness = 1.0
	cfg.HedgeCostAnnual = 0
	val := ValuateDay(1_000_000, -0.10, cfg, false)
	if math.Abs(val.Hedged-1_000_000) > 1e-9 {
		t.Fatalf("fully effective free hedge should hold value on a down day: got %v", val.Hedged)
	}
}

func TestValuateDayHedgedStaysPositive(t *testing.T) {
	cfg := hedgedCfg()
	v := 1_000_000.0
	for i := 0; i < 500; i++ {
		v = ValuateDay(v, -0.20, cfg, i%21 == 0).Hedged
		if v <= 0 {
			t.Fatalf("day %d: hedged track went non-positive: %v", i, v)
		}
	}
}

func TestRebalanceFeeCompounds(t *testing.T) {
	cfg := hedgedCfg()
	cfg.HedgeCostAnnual = 0
	v := 1_000_000.0
	const days = 30
	for i := 0; i < days; i++ {
		v = ValuateDay(v, 0, cfg, true).Hedged
	}
	want := 1_000_000 * math.Pow(rebalanceFeeMultiplier, days)
	if math.Abs(v-want)/want > 1e-12 {
		t.Fatalf("fee drag: got %v, want %v", v, want)
	}
}

func TestDailyHedgeCostCompoundsToAnnual(t *testing.T) {
	const annualPct = 2.0
	daily := dailyHedgeCost(annualPct)
	if daily >= 0 {
		t.Fatalf("hedge cost should be a drag, got %v", daily)
	}
	compounded := math.Pow(1+daily, TradingDays)
	want := 1 - annualPct/100
	if math.Abs(compounded-want) > 1e-12 {
		t.Fatalf("252 compounded days: got %v, want %v", compounded, want)
	}
}
