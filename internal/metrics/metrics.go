// Package metrics provides Prometheus observability metrics for the staffing
// forecast engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the application.
var Registry = prometheus.NewRegistry()

// factory registers metrics to our custom Registry directly.
var factory = promauto.With(Registry)

// SimulationsTotal counts completed scenario simulations.
var SimulationsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "simulations_total",
	Help:      "Count of scenario simulations completed successfully",
})

// SimulationFailuresTotal counts simulations rejected by validation or
// aborted by non-convergence.
var SimulationFailuresTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "simulation_failures_total",
	Help:      "Count of scenario simulations that failed, by reason",
}, []string{"reason"})

// NonConvergenceTotal counts staffing searches that hit the iteration bound.
var NonConvergenceTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "nonconvergence_total",
	Help:      "Count of staffing fixed-point searches that did not converge",
})

// BucketsComputedTotal counts forecast buckets staffed across all simulations.
var BucketsComputedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "buckets_computed_total",
	Help:      "Count of forecast buckets staffed across all simulations",
})

// RunTransitionsTotal counts optimization run transitions by target status.
var RunTransitionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "run_transitions_total",
	Help:      "Count of optimization run lifecycle transitions by target status",
}, []string{"status"})

// RunsInFlight tracks runs currently in a non-terminal state.
var RunsInFlight = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "staffing",
	Name:      "runs_in_flight",
	Help:      "Number of optimization runs in a non-terminal state",
})

// InvalidTransitionsTotal counts rejected run transitions.
var InvalidTransitionsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "invalid_transitions_total",
	Help:      "Count of run transitions rejected by the state machine",
})
