// Package tracker owns the optimization run registry: a strict run lifecycle
// with per-scenario exclusivity and an append-only run log exposed only
// through query methods.
package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/planwise/staffing-forecast/internal/metrics"
	"go.uber.org/zap"
)

// Status is the lifecycle state of an optimization run.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusValidated Status = "validated"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusFailed    Status = "failed"
)

// Terminal reports whether a status ends the lifecycle.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusFailed
}

// Event names a requested lifecycle transition.
type Event string

const (
	EventComplete Event = "complete"
	EventFail     Event = "fail"
	EventValidate Event = "validate"
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
)

// Scores carries the quality measurements recorded when a run completes.
type Scores struct {
	Coverage              float64 `json:"coverageScore"`
	Satisfaction          float64 `json:"satisfactionScore"`
	CostEfficiency        float64 `json:"costEfficiencyScore"`
	PreferenceFulfillment float64 `json:"preferenceFulfillmentRate"`
	ExecutionTimeMs       int64   `json:"executionTimeMs"`
}

// Run is one tracked execution of a scenario through to an approval decision.
type Run struct {
	ID               string    `json:"id"`
	ScenarioResultID string    `json:"scenarioResultId"`
	Status           Status    `json:"status"`
	Scores           Scores    `json:"scores"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

var (
	// ErrRunNotFound is returned for unknown run IDs.
	ErrRunNotFound = errors.New("optimization run not found")
	// ErrScenarioBusy is returned when a scenario already has a run that has
	// not reached completed or a terminal state.
	ErrScenarioBusy = errors.New("scenario already has a run in flight")
)

// InvalidTransitionError reports state machine misuse. It is a programming
// error and is always surfaced, never swallowed.
type InvalidTransitionError struct {
	RunID string
	From  Status
	Event Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("run %s: cannot %s from status %s", e.RunID, e.Event, e.From)
}

// Tracker is the only shared mutable resource in the engine. All access goes
// through the mutex; reads return copies so callers never observe a torn run
// record.
type Tracker struct {
	mu     sync.Mutex
	logger *zap.Logger
	runs   map[string]*Run
	order  []string          // append-only submission log
	active map[string]string // scenarioResultID -> in-flight run ID
}

// New constructs an empty Tracker.
func New(logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		logger: logger,
		runs:   make(map[string]*Run),
		active: make(map[string]string),
	}
}

// Submit registers a new run for a scenario result and moves it straight to
// running. The per-scenario lock is acquired here and held until the run
// reaches completed or a terminal state; a second submit for the same
// scenario fails with ErrScenarioBusy until then.
func (t *Tracker) Submit(scenarioResultID string) (Run, error) {
	if scenarioResultID == "" {
		return Run{}, fmt.Errorf("scenario result id cannot be empty")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if runID, busy := t.active[scenarioResultID]; busy {
		return Run{}, fmt.Errorf("%w: scenario %s is held by run %s", ErrScenarioBusy, scenarioResultID, runID)
	}

	now := time.Now()
	run := &Run{
		ID:               uuid.NewString(),
		ScenarioResultID: scenarioResultID,
		Status:           StatusQueued,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	t.runs[run.ID] = run
	t.order = append(t.order, run.ID)
	t.active[scenarioResultID] = run.ID
	metrics.RunTransitionsTotal.WithLabelValues(string(StatusQueued)).Inc()
	metrics.RunsInFlight.Inc()

	run.Status = StatusRunning
	run.UpdatedAt = time.Now()
	metrics.RunTransitionsTotal.WithLabelValues(string(StatusRunning)).Inc()

	t.logger.Info("optimization run submitted",
		zap.String("op", "tracker.Submit"),
		zap.String("runId", run.ID),
		zap.String("scenarioResultId", scenarioResultID),
	)
	return *run, nil
}

// Complete moves a running run to completed and records its quality scores.
// Completing releases the scenario for new submissions.
func (t *Tracker) Complete(runID string, scores Scores) (Run, error) {
	return t.transition(runID, EventComplete, func(run *Run) {
		run.Scores = scores
	})
}

// Fail moves a running run to the failed terminal state, e.g. when the
// underlying simulation raised a non-convergence condition.
func (t *Tracker) Fail(runID string) (Run, error) {
	return t.transition(runID, EventFail, nil)
}

// Validate moves a completed run to validated.
func (t *Tracker) Validate(runID string) (Run, error) {
	return t.transition(runID, EventValidate, nil)
}

// Approve moves a validated run to the approved terminal state.
func (t *Tracker) Approve(runID string) (Run, error) {
	return t.transition(runID, EventApprove, nil)
}

// Reject moves a validated run to the rejected terminal state.
func (t *Tracker) Reject(runID string) (Run, error) {
	return t.transition(runID, EventReject, nil)
}

// Transition applies a named lifecycle event, for boundary layers that carry
// events as data.
func (t *Tracker) Transition(runID string, event Event) (Run, error) {
	switch event {
	case EventComplete, EventFail, EventValidate, EventApprove, EventReject:
		return t.transition(runID, event, nil)
	default:
		return Run{}, fmt.Errorf("unknown run event %q", event)
	}
}

// nextStatus maps (from, event) to the target status of the strict machine.
func nextStatus(from Status, event Event) (Status, bool) {
	switch event {
	case EventComplete:
		if from == StatusRunning {
			return StatusCompleted, true
		}
	case EventFail:
		if from == StatusRunning {
			return StatusFailed, true
		}
	case EventValidate:
		if from == StatusCompleted {
			return StatusValidated, true
		}
	case EventApprove:
		if from == StatusValidated {
			return StatusApproved, true
		}
	case EventReject:
		if from == StatusValidated {
			return StatusRejected, true
		}
	}
	return from, false
}

func (t *Tracker) transition(runID string, event Event, mutate func(*Run)) (Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	run, ok := t.runs[runID]
	if !ok {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	target, valid := nextStatus(run.Status, event)
	if !valid {
		metrics.InvalidTransitionsTotal.Inc()
		return Run{}, &InvalidTransitionError{RunID: runID, From: run.Status, Event: event}
	}

	previous := run.Status
	run.Status = target
	run.UpdatedAt = time.Now()
	if mutate != nil {
		mutate(run)
	}

	// The scenario lock is released once the run reaches completed or any
	// terminal state.
	if target == StatusCompleted || target.Terminal() {
		if t.active[run.ScenarioResultID] == run.ID {
			delete(t.active, run.ScenarioResultID)
		}
		if previous == StatusRunning {
			metrics.RunsInFlight.Dec()
		}
	}
	metrics.RunTransitionsTotal.WithLabelValues(string(target)).Inc()

	t.logger.Info("optimization run transitioned",
		zap.String("op", "tracker.transition"),
		zap.String("runId", run.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
	)
	return *run, nil
}

// Get returns a snapshot of one run.
func (t *Tracker) Get(runID string) (Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	run, ok := t.runs[runID]
	if !ok {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return *run, nil
}

// List returns snapshots of all runs in submission order.
func (t *Tracker) List() []Run {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Run, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.runs[id])
	}
	return out
}

// ListByScenario returns snapshots of all runs for one scenario result in
// submission order.
func (t *Tracker) ListByScenario(scenarioResultID string) []Run {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Run
	for _, id := range t.order {
		if t.runs[id].ScenarioResultID == scenarioResultID {
			out = append(out, *t.runs[id])
		}
	}
	return out
}
