package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ndrandal/hedge-simulator/internal/chart"
	"github.com/ndrandal/hedge-simulator/internal/engine"
	"github.com/ndrandal/hedge-simulator/internal/persist"
	"github.com/ndrandal/hedge-simulator/internal/scenario"
)

// handleStatus returns the current simulation snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

type configResponse struct {
	Config                engine.SimulationConfig `json:"config"`
	DriftAnnual           float64                 `json:"driftAnnual"`
	RiskFreeRatePct       float64                 `json:"riskFreeRatePct"`
	InitialMarketPrice    float64                 `json:"initialMarketPrice"`
	InitialPortfolioValue float64                 `json:"initialPortfolioValue"`
}

// handleConfig returns the active parameters plus the fixed model constants.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		Config:                s.ctrl.Config(),
		DriftAnnual:           engine.DriftAnnual,
		RiskFreeRatePct:       engine.RiskFreeRatePct,
		InitialMarketPrice:    engine.InitialMarketPrice,
		InitialPortfolioValue: engine.InitialPortfolioValue,
	})
}

// handleConfigure replaces the simulation parameters.
func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var cfg engine.SimulationConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid config body: "+err.Error())
		return
	}

	if err := s.ctrl.Configure(cfg); err != nil {
		if errors.Is(err, engine.ErrRunning) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.ctrl.Config())
}

// handleStart begins or resumes the simulation.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Start()
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

// handlePause suspends the simulation.
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Pause()
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

// handleReset returns the simulation to its seed state.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Reset()
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

// handleStep advances the simulation by one day and returns the new record.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if s.ctrl.Snapshot().Status != engine.StatusRunning.String() {
		writeError(w, http.StatusConflict, "simulation is not running")
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Tick())
}

// handleHistory returns a window of the run history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	hist := s.ctrl.History()

	offset := parseIntParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	if offset > len(hist) {
		offset = len(hist)
	}
	end := len(hist)
	if limit := parseIntParam(r, "limit", 0); limit > 0 && offset+limit < end {
		end = offset + limit
	}

	writeJSON(w, http.StatusOK, hist[offset:end])
}

// handleMetrics returns the latest computed metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Metrics())
}

// handleScenarios returns the built-in scenario catalog.
func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenario.AllScenarios())
}

// handleScenarioApply configures the simulation from a catalog entry.
func (s *Server) handleScenarioApply(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	sc, ok := s.catalog[name]
	if !ok {
		writeError(w, http.StatusNotFound, "scenario not found: "+name)
		return
	}

	if err := s.ctrl.Configure(sc.Config); err != nil {
		if errors.Is(err, engine.ErrRunning) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sc)
}

// handlePresetList returns all saved presets.
func (s *Server) handlePresetList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	presets, err := s.presets.ListPresets(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, presets)
}

// handlePresetSave stores a named preset.
func (s *Server) handlePresetSave(w http.ResponseWriter, r *http.Request) {
	var p persist.Preset
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid preset body: "+err.Error())
		return
	}
	if p.Name == "" {
		writeError(w, http.StatusBadRequest, "preset name required")
		return
	}
	if err := p.Config.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.presets.SavePreset(ctx, p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	saved, err := s.presets.GetPreset(ctx, p.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// handlePresetGet returns a single preset by name.
func (s *Server) handlePresetGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := s.presets.GetPreset(ctx, name)
	if errors.Is(err, persist.ErrNotFound) {
		writeError(w, http.StatusNotFound, "preset not found: "+name)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handlePresetDelete removes a preset by name.
func (s *Server) handlePresetDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := s.presets.DeletePreset(ctx, name)
	if errors.Is(err, persist.ErrNotFound) {
		writeError(w, http.StatusNotFound, "preset not found: "+name)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChart renders the current history as a PNG.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	png, err := chart.Render(s.ctrl.History(), s.ctrl.Metrics(), chart.Options{
		Width:  parseIntParam(r, "width", chart.DefaultWidth),
		Height: parseIntParam(r, "height", chart.DefaultHeight),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

type statsResponse struct {
	Uptime        string `json:"uptime"`
	Clients       int    `json:"clients"`
	Status        string `json:"status"`
	CurrentDay    int    `json:"currentDay"`
	HistoryLength int    `json:"historyLength"`
	Scenarios     int    `json:"scenarios"`
}

// handleStats returns runtime statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.ctrl.Snapshot()
	writeJSON(w, http.StatusOK, statsResponse{
		Uptime:        time.Since(s.startAt).Truncate(time.Second).String(),
		Clients:       s.mgr.ClientCount(),
		Status:        snap.Status,
		CurrentDay:    snap.CurrentDay,
		HistoryLength: snap.HistoryLength,
		Scenarios:     len(s.catalog),
	})
}
