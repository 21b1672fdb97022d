package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ndrandal/hedge-simulator/internal/engine"
	"github.com/ndrandal/hedge-simulator/internal/persist"
	"github.com/ndrandal/hedge-simulator/internal/scenario"
	"github.com/ndrandal/hedge-simulator/internal/session"
)

// errorPresetStore fails every operation, for 500-path tests.
type errorPresetStore struct{ err error }

func (s errorPresetStore) SavePreset(context.Context, persist.Preset) error { return s.err }
func (s errorPresetStore) GetPreset(context.Context, string) (persist.Preset, error) {
	return persist.Preset{}, s.err
}
func (s errorPresetStore) ListPresets(context.Context) ([]persist.Preset, error) {
	return nil, s.err
}
func (s errorPresetStore) DeletePreset(context.Context, string) error { return s.err }

// --- test helpers ---

func newTestServer(store persist.PresetStore) (*Server, *http.ServeMux) {
	ctrl := engine.NewController(engine.DefaultConfig(), engine.NewRNG(42))
	mgr := session.NewManager(64, zap.NewNop())
	srv := NewServer(ctrl, store, mgr)

	mux := http.NewServeMux()
	srv.Register(mux)
	return srv, mux
}

func mustDecodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	return bytes.NewReader(data)
}

// --- tests ---

func TestHandleStatus(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())
	req := httptest.NewRequest("GET", "/api/status", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out map[string]any
	mustDecodeJSON(t, w.Result(), &out)

	if out["status"] != "idle" {
		t.Errorf("expected status idle, got %v", out["status"])
	}
	if out["currentDay"] != float64(0) {
		t.Errorf("expected currentDay 0, got %v", out["currentDay"])
	}
	if out["historyLength"] != float64(1) {
		t.Errorf("expected historyLength 1, got %v", out["historyLength"])
	}
	if _, ok := out["metrics"]; !ok {
		t.Error("missing metrics field")
	}
}

func TestHandleConfig(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())
	req := httptest.NewRequest("GET", "/api/config", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out struct {
		Config          engine.SimulationConfig `json:"config"`
		DriftAnnual     float64                 `json:"driftAnnual"`
		RiskFreeRatePct float64                 `json:"riskFreeRatePct"`
	}
	mustDecodeJSON(t, w.Result(), &out)

	if out.Config.MarketVolatility != 15 {
		t.Errorf("expected volatility 15, got %v", out.Config.MarketVolatility)
	}
	if out.DriftAnnual != engine.DriftAnnual {
		t.Errorf("expected driftAnnual %v, got %v", engine.DriftAnnual, out.DriftAnnual)
	}
	if out.RiskFreeRatePct != engine.RiskFreeRatePct {
		t.Errorf("expected riskFreeRatePct %v, got %v", engine.RiskFreeRatePct, out.RiskFreeRatePct)
	}
}

func TestHandleConfigure(t *testing.T) {
	srv, mux := newTestServer(persist.NewMemPresetStore())

	cfg := engine.DefaultConfig()
	cfg.MarketVolatility = 25
	cfg.HedgeEnabled = false

	req := httptest.NewRequest("POST", "/api/configure", jsonBody(t, cfg))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got := srv.ctrl.Config()
	if got.MarketVolatility != 25 || got.HedgeEnabled {
		t.Errorf("config not applied: %+v", got)
	}
}

func TestHandleConfigureValidation(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())

	cfg := engine.DefaultConfig()
	cfg.MarketVolatility = 50

	req := httptest.NewRequest("POST", "/api/configure", jsonBody(t, cfg))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var out map[string]string
	mustDecodeJSON(t, w.Result(), &out)
	if out["error"] == "" {
		t.Error("expected error message in response")
	}
}

func TestHandleConfigureWhileRunning(t *testing.T) {
	srv, mux := newTestServer(persist.NewMemPresetStore())
	srv.ctrl.Start()

	req := httptest.NewRequest("POST", "/api/configure", jsonBody(t, engine.DefaultConfig()))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestHandleConfigureBadJSON(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())

	req := httptest.NewRequest("POST", "/api/configure", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleLifecycleEndpoints(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())

	post := func(path string) map[string]any {
		req := httptest.NewRequest("POST", path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		var out map[string]any
		mustDecodeJSON(t, w.Result(), &out)
		return out
	}

	if out := post("/api/start"); out["status"] != "running" {
		t.Errorf("after start: %v", out["status"])
	}
	if out := post("/api/pause"); out["status"] != "paused" {
		t.Errorf("after pause: %v", out["status"])
	}
	if out := post("/api/reset"); out["status"] != "idle" {
		t.Errorf("after reset: %v", out["status"])
	}
}

func TestHandleStepNotRunning(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())

	req := httptest.NewRequest("POST", "/api/step", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestHandleStep(t *testing.T) {
	srv, mux := newTestServer(persist.NewMemPresetStore())
	srv.ctrl.Start()

	for wantDay := 1; wantDay <= 3; wantDay++ {
		req := httptest.NewRequest("POST", "/api/step", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var rec engine.HistoryRecord
		mustDecodeJSON(t, w.Result(), &rec)
		if rec.Day != wantDay {
			t.Fatalf("step returned day %d, want %d", rec.Day, wantDay)
		}
	}
}

func TestHandleHistoryWindow(t *testing.T) {
	srv, mux := newTestServer(persist.NewMemPresetStore())
	srv.ctrl.Start()
	for i := 0; i < 5; i++ {
		srv.ctrl.Tick()
	}

	req := httptest.NewRequest("GET", "/api/history?offset=1&limit=2", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out []engine.HistoryRecord
	mustDecodeJSON(t, w.Result(), &out)

	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].Day != 1 || out[1].Day != 2 {
		t.Errorf("window days %d,%d, want 1,2", out[0].Day, out[1].Day)
	}

	req = httptest.NewRequest("GET", "/api/history", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	mustDecodeJSON(t, w.Result(), &out)
	if len(out) != 6 {
		t.Fatalf("expected full history of 6 records, got %d", len(out))
	}
}

func TestHandleMetrics(t *testing.T) {
	srv, mux := newTestServer(persist.NewMemPresetStore())
	srv.ctrl.Start()
	for i := 0; i < 10; i++ {
		srv.ctrl.Tick()
	}

	req := httptest.NewRequest("GET", "/api/metrics", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out map[string]any
	mustDecodeJSON(t, w.Result(), &out)

	for _, key := range []string{"maxDrawdownPct", "annualizedVolatilityPct", "annualizedReturnPct", "sharpeRatio"} {
		if _, ok := out[key]; !ok {
			t.Errorf("missing key %q in metrics JSON", key)
		}
	}
}

func TestHandleScenarios(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())
	req := httptest.NewRequest("GET", "/api/scenarios", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out []map[string]any
	mustDecodeJSON(t, w.Result(), &out)

	if len(out) != len(scenario.AllScenarios()) {
		t.Fatalf("expected %d scenarios, got %d", len(scenario.AllScenarios()), len(out))
	}
	for _, key := range []string{"name", "description", "profile", "config"} {
		if _, ok := out[0][key]; !ok {
			t.Errorf("missing key %q in scenario JSON", key)
		}
	}
}

func TestHandleScenarioApply(t *testing.T) {
	srv, mux := newTestServer(persist.NewMemPresetStore())

	req := httptest.NewRequest("POST", "/api/scenarios/crisis/apply", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := srv.ctrl.Config().MarketVolatility; got != 40 {
		t.Errorf("crisis volatility not applied: %v", got)
	}
}

func TestHandleScenarioApplyNotFound(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())

	req := httptest.NewRequest("POST", "/api/scenarios/nope/apply", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleScenarioApplyWhileRunning(t *testing.T) {
	srv, mux := newTestServer(persist.NewMemPresetStore())
	srv.ctrl.Start()

	req := httptest.NewRequest("POST", "/api/scenarios/crisis/apply", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestHandlePresetCRUD(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())

	p := persist.Preset{Name: "my-setup", Description: "weekend tinkering", Config: engine.DefaultConfig()}
	req := httptest.NewRequest("POST", "/api/presets", jsonBody(t, p))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("save: expected 201, got %d", w.Code)
	}
	var saved persist.Preset
	mustDecodeJSON(t, w.Result(), &saved)
	if saved.UpdatedAt.IsZero() {
		t.Error("saved preset missing update time")
	}

	req = httptest.NewRequest("GET", "/api/presets", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	var list []persist.Preset
	mustDecodeJSON(t, w.Result(), &list)
	if len(list) != 1 || list[0].Name != "my-setup" {
		t.Fatalf("list: %+v", list)
	}

	req = httptest.NewRequest("GET", "/api/presets/my-setup", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest("DELETE", "/api/presets/my-setup", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/presets/my-setup", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestHandlePresetSaveInvalid(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())

	// missing name
	p := persist.Preset{Config: engine.DefaultConfig()}
	req := httptest.NewRequest("POST", "/api/presets", jsonBody(t, p))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("nameless preset: expected 400, got %d", w.Code)
	}

	// out-of-range config
	p = persist.Preset{Name: "broken", Config: engine.DefaultConfig()}
	p.Config.TotalDays = 10_000
	req = httptest.NewRequest("POST", "/api/presets", jsonBody(t, p))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid config: expected 400, got %d", w.Code)
	}
}

func TestHandlePresetStoreError(t *testing.T) {
	_, mux := newTestServer(errorPresetStore{err: errors.New("db connection lost")})

	req := httptest.NewRequest("GET", "/api/presets", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestHandleChart(t *testing.T) {
	srv, mux := newTestServer(persist.NewMemPresetStore())
	srv.ctrl.Start()
	for i := 0; i < 5; i++ {
		srv.ctrl.Tick()
	}

	req := httptest.NewRequest("GET", "/api/chart.png", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
	body := w.Body.Bytes()
	if !bytes.HasPrefix(body, []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("response is not a PNG")
	}
}

func TestHandleChartTooShort(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())

	req := httptest.NewRequest("GET", "/api/chart.png", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleStats(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())
	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out map[string]any
	mustDecodeJSON(t, w.Result(), &out)

	for _, key := range []string{"uptime", "clients", "status", "currentDay", "historyLength", "scenarios"} {
		if _, ok := out[key]; !ok {
			t.Errorf("missing key %q in stats response", key)
		}
	}
	if out["clients"] != float64(0) {
		t.Errorf("expected 0 clients, got %v", out["clients"])
	}
}

func TestContentTypeJSON(t *testing.T) {
	_, mux := newTestServer(persist.NewMemPresetStore())

	endpoints := []string{
		"/api/status",
		"/api/config",
		"/api/metrics",
		"/api/scenarios",
		"/api/stats",
	}

	for _, ep := range endpoints {
		req := httptest.NewRequest("GET", ep, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		ct := w.Header().Get("Content-Type")
		if ct != "application/json" {
			t.Errorf("%s: expected Content-Type application/json, got %q", ep, ct)
		}
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		url  string
		key  string
		def  int
		want int
	}{
		{"/test", "limit", 100, 100},           // missing → default
		{"/test?limit=50", "limit", 100, 50},   // valid int
		{"/test?limit=abc", "limit", 100, 100}, // invalid → default
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.url, nil)
		got := parseIntParam(req, tt.key, tt.def)
		if got != tt.want {
			t.Errorf("parseIntParam(%q, %q, %d) = %d, want %d", tt.url, tt.key, tt.def, got, tt.want)
		}
	}
}
