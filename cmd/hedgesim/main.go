package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ndrandal/hedge-simulator/internal/api"
	"github.com/ndrandal/hedge-simulator/internal/config"
	"github.com/ndrandal/hedge-simulator/internal/engine"
	"github.com/ndrandal/hedge-simulator/internal/persist"
	"github.com/ndrandal/hedge-simulator/internal/scenario"
	"github.com/ndrandal/hedge-simulator/internal/session"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("hedge simulator starting")

	// Context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	// PRNG
	rng := engine.NewRNG(cfg.Seed)
	logger.Info("PRNG ready", zap.Int64("seed", cfg.Seed))

	// Simulation parameters: named scenario or defaults
	simCfg := engine.DefaultConfig()
	if cfg.Scenario != "" {
		sc, ok := scenario.ByName()[cfg.Scenario]
		if !ok {
			logger.Fatal("unknown scenario", zap.String("scenario", cfg.Scenario))
		}
		simCfg = sc.Config
		logger.Info("loaded scenario", zap.String("scenario", sc.Name))
	}

	ctrl := engine.NewController(simCfg, rng)

	// Preset storage: MongoDB when configured, in-memory otherwise
	var presets persist.PresetStore
	if cfg.MongoURI != "" {
		store, err := persist.NewStore(ctx, cfg.MongoURI)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer store.Close(context.Background())

		if err := store.Migrate(ctx); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		presets = persist.NewMongoPresetStore(store.DB())
	} else {
		logger.Info("no MongoDB URI, presets held in memory")
		presets = persist.NewMemPresetStore()
	}

	// Session manager
	mgr := session.NewManager(cfg.SendBufferSize, logger)

	if cfg.AutoStart {
		ctrl.Start()
		logger.Info("simulation auto-started")
	}

	// Simulation clock
	go runner(ctx, ctrl, mgr, cfg.TickInterval, logger)

	// HTTP/WebSocket server
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", session.Handler(mgr, ctrl))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		snap := ctrl.Snapshot()
		fmt.Fprintf(w, `{"status":"ok","clients":%d,"day":%d,"simStatus":%q}`,
			mgr.ClientCount(), snap.CurrentDay, snap.Status)
	})

	apiServer := api.NewServer(ctrl, presets, mgr)
	apiServer.Register(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server listening",
		zap.String("addr", addr),
		zap.String("websocket", "/ws"),
		zap.String("health", "/health"))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("hedge simulator stopped")
}

// newLogger builds the process logger. Debug mode uses the console
// encoder, production mode structured JSON.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// runner advances the simulation clock and broadcasts state changes.
// Ticks while the run is paused or idle are no-ops inside the
// controller; clients only hear from us when the day or status moved.
func runner(ctx context.Context, ctrl *engine.Controller, mgr *session.Manager, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastDay := -1
	lastStatus := ""

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ctrl.Tick()

			snap := ctrl.Snapshot()
			if snap.CurrentDay == lastDay && snap.Status == lastStatus {
				continue
			}
			if snap.Status != lastStatus && snap.Status == engine.StatusCompleted.String() {
				logger.Info("run completed",
					zap.String("runId", snap.RunID),
					zap.Int("days", snap.CurrentDay),
					zap.Float64("finalValue", snap.PortfolioValue))
			}
			lastDay = snap.CurrentDay
			lastStatus = snap.Status
			mgr.BroadcastSnapshot(snap)
		}
	}
}
