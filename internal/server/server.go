// Package server exposes the staffing engine's functional surface as a thin
// JSON API. It holds no business logic of its own.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/planwise/staffing-forecast/internal/config"
	"github.com/planwise/staffing-forecast/internal/metrics"
	"github.com/planwise/staffing-forecast/internal/simulation"
	"github.com/planwise/staffing-forecast/internal/tracker"
	"github.com/planwise/staffing-forecast/pkg/compare"
	"github.com/planwise/staffing-forecast/pkg/growth"
	"github.com/planwise/staffing-forecast/pkg/params"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type handler struct {
	logger  *zap.Logger
	cfg     *Config
	tracker *tracker.Tracker
	version string

	mu      sync.Mutex
	results map[string]*simulation.ScenarioResult
}

// NewHandler constructs the HTTP handler serving the planning API.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:  logger,
		cfg:     cfg,
		tracker: tracker.New(logger),
		version: trimmedVersion,
		results: make(map[string]*simulation.ScenarioResult),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/simulate", h.handleSimulate)
	mux.HandleFunc("POST /api/compare", h.handleCompare)
	mux.HandleFunc("POST /api/runs", h.handleSubmitRun)
	mux.HandleFunc("POST /api/runs/{id}/transition", h.handleTransitionRun)
	mux.HandleFunc("GET /api/runs", h.handleListRuns)
	mux.HandleFunc("GET /api/version", h.handleVersion)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return mux
}

type simulateRequest struct {
	Name      string                              `json:"name"`
	Overrides map[string]interface{}              `json:"overrides,omitempty"`
	Growth    *growth.Config                      `json:"growth,omitempty"`
	Seed      int64                               `json:"seed,omitempty"`
	Skills    *simulation.ResourceAllocationModel `json:"skills,omitempty"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !h.decode(w, r, &req) {
		return
	}

	scenario := config.Scenario{Name: req.Name, Active: true, Overrides: req.Overrides, Growth: req.Growth}
	set, err := scenario.ParameterSet()
	if err != nil {
		var verr *params.ValidationError
		if errors.As(err, &verr) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conf := &config.Configuration{Simulation: h.cfg.Simulation}
	conf.Simulation.Seed = req.Seed
	opts, err := conf.SimulatorOptions(scenario, nil)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sim := simulation.New(h.logger, opts)
	result, err := sim.Simulate(scenario.Name, set, req.Skills)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.mu.Lock()
	h.results[result.ID] = result
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, result)
}

type compareRequest struct {
	BaselineID  string `json:"baselineId"`
	CandidateID string `json:"candidateId"`
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	baseline, okA := h.results[req.BaselineID]
	candidate, okB := h.results[req.CandidateID]
	h.mu.Unlock()
	if !okA || !okB {
		h.writeError(w, http.StatusNotFound, "unknown scenario result id")
		return
	}

	h.writeJSON(w, http.StatusOK, compare.Compare(*baseline, *candidate))
}

type submitRunRequest struct {
	ScenarioResultID string `json:"scenarioResultId"`
}

func (h *handler) handleSubmitRun(w http.ResponseWriter, r *http.Request) {
	var req submitRunRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	_, known := h.results[req.ScenarioResultID]
	h.mu.Unlock()
	if !known {
		h.writeError(w, http.StatusNotFound, "unknown scenario result id")
		return
	}

	run, err := h.tracker.Submit(req.ScenarioResultID)
	if err != nil {
		if errors.Is(err, tracker.ErrScenarioBusy) {
			h.writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, run)
}

type transitionRequest struct {
	Event  string          `json:"event"`
	Scores *tracker.Scores `json:"scores,omitempty"`
}

func (h *handler) handleTransitionRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	var req transitionRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		run tracker.Run
		err error
	)
	if tracker.Event(req.Event) == tracker.EventComplete && req.Scores != nil {
		run, err = h.tracker.Complete(runID, *req.Scores)
	} else {
		run, err = h.tracker.Transition(runID, tracker.Event(req.Event))
	}
	if err != nil {
		var invalid *tracker.InvalidTransitionError
		switch {
		case errors.As(err, &invalid):
			h.writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, tracker.ErrRunNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if scenarioID := r.URL.Query().Get("scenarioResultId"); scenarioID != "" {
		h.writeJSON(w, http.StatusOK, h.tracker.ListByScenario(scenarioID))
		return
	}
	h.writeJSON(w, http.StatusOK, h.tracker.List())
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	maxBody := h.cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
