package engine

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrRunning is returned when a caller tries to reconfigure the simulation
// while it is actively ticking.
var ErrRunning = errors.New("simulation is running")

// Status is the lifecycle state of a simulation run.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// HistoryRecord is one appended day of a run. Day 0 is the seed record
// carrying the initial values. HedgedPortfolio is nil while hedging is
// disabled; UnhedgedPortfolio always carries the no-hedge counterfactual.
type HistoryRecord struct {
	Day               int      `json:"day"`
	MarketPrice       float64  `json:"marketPrice"`
	PortfolioValue    float64  `json:"portfolioValue"`
	HedgedPortfolio   *float64 `json:"hedgedPortfolio"`
	UnhedgedPortfolio float64  `json:"unhedgedPortfolio"`
}

// Snapshot is a point-in-time view of the simulation for external consumers.
type Snapshot struct {
	Status         string          `json:"status"`
	RunID          string          `json:"runId,omitempty"`
	CurrentDay     int             `json:"currentDay"`
	TotalDays      int             `json:"totalDays"`
	MarketPrice    float64         `json:"marketPrice"`
	PortfolioValue float64         `json:"portfolioValue"`
	HistoryLength  int             `json:"historyLength"`
	Latest         HistoryRecord   `json:"latest"`
	Metrics        MetricsSnapshot `json:"metrics"`
}

// Controller owns the configuration, run state and history of one
// simulation. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	cfg SimulationConfig
	rng *RNG

	// initial generator state, restored on every reset so that runs with
	// the same seed and config replay identically
	seedState uint64
	seedInc   uint64

	runID            string
	status           Status
	currentDay       int
	marketPrice      float64
	portfolioValue   float64
	lastRebalanceDay int

	history []HistoryRecord
	metrics MetricsSnapshot
}

// NewController builds a controller around an already-seeded generator.
// The config is taken as given; Configure is the validating entry point
// for external callers.
func NewController(cfg SimulationConfig, rng *RNG) *Controller {
	c := &Controller{cfg: cfg, rng: rng}
	c.seedState, c.seedInc = rng.State()
	c.resetLocked()
	return c
}

// Configure replaces the simulation parameters. It validates the new config
// and refuses while the run is actively ticking; idle, paused and completed
// runs may be reconfigured.
func (c *Controller) Configure(cfg SimulationConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusRunning {
		return ErrRunning
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// Start begins or resumes ticking. Starting a completed run resets it first
// so the next run replays from the seed state.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusCompleted {
		c.resetLocked()
	}
	if c.runID == "" {
		c.runID = uuid.NewString()
	}
	c.status = StatusRunning
}

// Pause suspends ticking without losing state. Only a running simulation
// can pause.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusRunning {
		c.status = StatusPaused
	}
}

// Reset restores the initial state and generator, clears the history down to
// the day-0 seed record and zeroes the metrics. The config is kept.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.rng.RestoreState(c.seedState, c.seedInc)
	c.runID = ""
	c.status = StatusIdle
	c.currentDay = 0
	c.marketPrice = InitialMarketPrice
	c.portfolioValue = InitialPortfolioValue
	c.lastRebalanceDay = 0

	seed := HistoryRecord{
		Day:               0,
		MarketPrice:       InitialMarketPrice,
		PortfolioValue:    InitialPortfolioValue,
		UnhedgedPortfolio: InitialPortfolioValue,
	}
	if c.cfg.HedgeEnabled {
		v := InitialPortfolioValue
		seed.HedgedPortfolio = &v
	}
	c.history = make([]HistoryRecord, 0, c.cfg.TotalDays+1)
	c.history = append(c.history, seed)
	c.metrics = MetricsSnapshot{}
}

// Tick advances the simulation by one day and returns the latest history
// record. When not running it is a no-op; when the configured horizon is
// reached it transitions to completed and freezes the final value.
func (c *Controller) Tick() HistoryRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusRunning {
		return c.latestLocked()
	}
	if c.currentDay >= c.cfg.TotalDays {
		c.status = StatusCompleted
		c.metrics.FinalPortfolioValue = c.portfolioValue
		return c.latestLocked()
	}

	day := c.currentDay + 1
	ret := DailyMarketReturn(c.rng, c.cfg.MarketVolatility)
	c.marketPrice *= 1 + ret

	isRebalanceDay := false
	if c.cfg.HedgeEnabled && day-c.lastRebalanceDay >= c.cfg.RebalancingFrequencyDays {
		isRebalanceDay = true
		c.lastRebalanceDay = day
	}

	prev := c.latestLocked()
	val := ValuateDay(c.portfolioValue, ret, c.cfg, isRebalanceDay)
	c.portfolioValue = val.Hedged

	rec := HistoryRecord{
		Day:               day,
		MarketPrice:       c.marketPrice,
		PortfolioValue:    c.portfolioValue,
		UnhedgedPortfolio: prev.UnhedgedPortfolio * (1 + ret),
	}
	if c.cfg.HedgeEnabled {
		v := val.Hedged
		rec.HedgedPortfolio = &v
	}
	c.history = append(c.history, rec)
	c.currentDay = day

	c.metrics = ComputeMetrics(c.history, c.portfolioValue, InitialPortfolioValue, RiskFreeRatePct)
	return rec
}

func (c *Controller) latestLocked() HistoryRecord {
	return c.history[len(c.history)-1]
}

// Snapshot returns a point-in-time view of the run.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Status:         c.status.String(),
		RunID:          c.runID,
		CurrentDay:     c.currentDay,
		TotalDays:      c.cfg.TotalDays,
		MarketPrice:    c.marketPrice,
		PortfolioValue: c.portfolioValue,
		HistoryLength:  len(c.history),
		Latest:         c.latestLocked(),
		Metrics:        c.metrics,
	}
}

// Config returns the active simulation parameters.
func (c *Controller) Config() SimulationConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Metrics returns the latest computed metrics.
func (c *Controller) Metrics() MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// History returns a copy of the run's history to date.
func (c *Controller) History() []HistoryRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]HistoryRecord, len(c.history))
	copy(out, c.history)
	return out
}
