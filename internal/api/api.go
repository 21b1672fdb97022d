package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ndrandal/hedge-simulator/internal/engine"
	"github.com/ndrandal/hedge-simulator/internal/persist"
	"github.com/ndrandal/hedge-simulator/internal/scenario"
	"github.com/ndrandal/hedge-simulator/internal/session"
)

// Server provides REST API endpoints for the simulator.
type Server struct {
	ctrl    *engine.Controller
	presets persist.PresetStore
	mgr     *session.Manager
	catalog map[string]*scenario.Scenario
	startAt time.Time
}

// NewServer creates a new API server.
func NewServer(ctrl *engine.Controller, presets persist.PresetStore, mgr *session.Manager) *Server {
	return &Server{
		ctrl:    ctrl,
		presets: presets,
		mgr:     mgr,
		catalog: scenario.ByName(),
		startAt: time.Now(),
	}
}

// Register attaches API routes to the given mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("POST /api/configure", s.handleConfigure)
	mux.HandleFunc("POST /api/start", s.handleStart)
	mux.HandleFunc("POST /api/pause", s.handlePause)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/step", s.handleStep)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	mux.HandleFunc("GET /api/scenarios", s.handleScenarios)
	mux.HandleFunc("POST /api/scenarios/{name}/apply", s.handleScenarioApply)
	mux.HandleFunc("GET /api/presets", s.handlePresetList)
	mux.HandleFunc("POST /api/presets", s.handlePresetSave)
	mux.HandleFunc("GET /api/presets/{name}", s.handlePresetGet)
	mux.HandleFunc("DELETE /api/presets/{name}", s.handlePresetDelete)
	mux.HandleFunc("GET /api/chart.png", s.handleChart)
	mux.HandleFunc("GET /api/stats", s.handleStats)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
