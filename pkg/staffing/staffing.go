// Package staffing converts forecasted volume into required agent counts via
// an iterative queueing approximation.
package staffing

import (
	"fmt"
	"math"

	"github.com/planwise/staffing-forecast/pkg/constants"
	"github.com/planwise/staffing-forecast/pkg/mathutil"
)

// Input carries one bucket's staffing question.
type Input struct {
	Volume             float64 // contacts per hour
	HandleTimeSeconds  float64 // average handle time
	TargetWaitSeconds  float64 // answer-within threshold
	TargetServiceLevel float64 // fraction of contacts answered within threshold, in (0,1)
	Shrinkage          float64 // fraction of paid time unavailable, in [0,1)
}

// Result reports the converged staffing answer for one bucket.
type Result struct {
	Agents       float64 // raw agents before shrinkage inflation
	Required     int     // shrinkage-inflated, rounded up
	Utilization  float64 // offered load / raw agents
	ServiceLevel float64 // estimated service level at the converged count
	Iterations   int
}

// NonConvergenceError reports that the fixed-point search hit its iteration
// bound. The attached values are the last computed state; the caller may
// accept them as an approximate answer or relax the target.
type NonConvergenceError struct {
	Agents      int
	Utilization float64
	Iterations  int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("staffing search did not converge after %d iterations (last agents %d, utilization %.3f)",
		e.Iterations, e.Agents, e.Utilization)
}

// Calculator performs the agent fixed-point search. The zero value uses the
// default iteration bound.
type Calculator struct {
	MaxIterations int
}

func (c Calculator) maxIterations() int {
	if c.MaxIterations > 0 {
		return c.MaxIterations
	}
	return constants.MaxStaffingIterations
}

// RequiredAgents computes the agent count needed to hit the service-level
// target. Counts always round up; rounding must never understaff.
//
// The wait probability here is a deliberately simplified Erlang-C stand-in:
// it rises steeply as utilization approaches 1 and falls with pool size,
// which preserves the shape of the real formula without the factorial
// recursion.
func (c Calculator) RequiredAgents(in Input) (Result, error) {
	if err := validateInput(in); err != nil {
		return Result{}, err
	}
	if in.Volume == 0 {
		return Result{Required: 0}, nil
	}

	load := in.Volume * in.HandleTimeSeconds / constants.SecondsPerHour
	agents := math.Ceil(load)
	if agents < 1 {
		agents = 1
	}

	var (
		utilization  float64
		serviceLevel float64
		iterations   int
	)
	converged := false
	for iterations = 0; iterations < c.maxIterations(); iterations++ {
		utilization = load / agents
		if utilization >= 1 {
			// No queueing formula is valid at or above full utilization.
			agents++
			continue
		}
		serviceLevel = estimateServiceLevel(agents, utilization, in)
		if serviceLevel >= in.TargetServiceLevel {
			converged = true
			break
		}
		agents++
	}

	required := mathutil.CeilInt(agents / (1 - in.Shrinkage))
	result := Result{
		Agents:       agents,
		Required:     required,
		Utilization:  utilization,
		ServiceLevel: serviceLevel,
		Iterations:   iterations,
	}
	if !converged {
		return result, &NonConvergenceError{
			Agents:      required,
			Utilization: utilization,
			Iterations:  iterations,
		}
	}
	return result, nil
}

// estimateServiceLevel approximates the fraction of contacts answered within
// the target wait at the given pool size.
func estimateServiceLevel(agents, utilization float64, in Input) float64 {
	// Simplified wait probability: utilization raised to a power growing
	// superlinearly with pool size. Larger pools absorb bursts better at the
	// same utilization, and the probability still explodes as utilization
	// approaches 1.
	waitProb := math.Pow(utilization, math.Pow(agents, 1.5))

	// Average wait for the delayed fraction, Erlang-C shaped.
	avgWait := waitProb * in.HandleTimeSeconds / (agents * (1 - utilization))
	if avgWait <= 0 {
		return 1
	}
	sl := 1 - waitProb*math.Exp(-in.TargetWaitSeconds/avgWait)
	return mathutil.Clamp(sl, 0, 1)
}

func validateInput(in Input) error {
	if in.Volume < 0 {
		return fmt.Errorf("volume %.2f cannot be negative", in.Volume)
	}
	if in.HandleTimeSeconds <= 0 {
		return fmt.Errorf("average handle time %.2fs must be positive", in.HandleTimeSeconds)
	}
	if in.TargetWaitSeconds <= 0 {
		return fmt.Errorf("target wait %.2fs must be positive", in.TargetWaitSeconds)
	}
	if in.TargetServiceLevel <= 0 || in.TargetServiceLevel >= 1 {
		return fmt.Errorf("target service level %.2f must be in (0,1)", in.TargetServiceLevel)
	}
	if in.Shrinkage < 0 || in.Shrinkage >= 1 {
		// Shrinkage of 1 would divide the staffing requirement by zero.
		return fmt.Errorf("shrinkage %.2f must be in [0,1)", in.Shrinkage)
	}
	return nil
}
