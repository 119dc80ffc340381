package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFullLifecycle(t *testing.T) {
	tr := New(zap.NewNop())

	run, err := tr.Submit("scenario-1")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, run.Status)
	assert.NotEmpty(t, run.ID)

	scores := Scores{
		Coverage:              0.92,
		Satisfaction:          0.88,
		CostEfficiency:        0.75,
		PreferenceFulfillment: 0.81,
		ExecutionTimeMs:       420,
	}
	run, err = tr.Complete(run.ID, scores)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, run.Status)
	assert.Equal(t, scores, run.Scores)

	run, err = tr.Validate(run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusValidated, run.Status)

	run, err = tr.Approve(run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, run.Status)
	assert.True(t, run.Status.Terminal())
}

func TestRejectPath(t *testing.T) {
	tr := New(zap.NewNop())

	run, err := tr.Submit("scenario-1")
	require.NoError(t, err)
	_, err = tr.Complete(run.ID, Scores{})
	require.NoError(t, err)
	_, err = tr.Validate(run.ID)
	require.NoError(t, err)

	run, err = tr.Reject(run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, run.Status)
}

func TestFailFromRunning(t *testing.T) {
	tr := New(zap.NewNop())

	run, err := tr.Submit("scenario-1")
	require.NoError(t, err)

	run, err = tr.Fail(run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, run.Status)

	// A failed run releases the scenario for a fresh submission.
	_, err = tr.Submit("scenario-1")
	assert.NoError(t, err)
}

func TestSkippingStatesIsInvalid(t *testing.T) {
	tr := New(zap.NewNop())

	run, err := tr.Submit("scenario-1")
	require.NoError(t, err)

	_, err = tr.Approve(run.ID)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, StatusRunning, invalid.From)
	assert.Equal(t, EventApprove, invalid.Event)

	_, err = tr.Validate(run.ID)
	assert.ErrorAs(t, err, &invalid)

	// Completing twice is just as invalid.
	_, err = tr.Complete(run.ID, Scores{})
	require.NoError(t, err)
	_, err = tr.Complete(run.ID, Scores{})
	assert.ErrorAs(t, err, &invalid)
}

func TestScenarioExclusivity(t *testing.T) {
	tr := New(zap.NewNop())

	first, err := tr.Submit("scenario-1")
	require.NoError(t, err)

	_, err = tr.Submit("scenario-1")
	require.ErrorIs(t, err, ErrScenarioBusy)

	// A different scenario is unaffected.
	_, err = tr.Submit("scenario-2")
	require.NoError(t, err)

	// Completion releases the lock.
	_, err = tr.Complete(first.ID, Scores{})
	require.NoError(t, err)
	_, err = tr.Submit("scenario-1")
	assert.NoError(t, err)
}

func TestConcurrentSubmitsSingleWinner(t *testing.T) {
	tr := New(zap.NewNop())

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = tr.Submit("contended")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrScenarioBusy)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent submit may win")

	running := 0
	for _, run := range tr.List() {
		if run.Status == StatusRunning {
			running++
		}
	}
	assert.Equal(t, 1, running, "no scenario may ever have two running runs")
}

func TestUnknownRunAndEvent(t *testing.T) {
	tr := New(zap.NewNop())

	_, err := tr.Get("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = tr.Transition("missing", EventComplete)
	assert.ErrorIs(t, err, ErrRunNotFound)

	run, err := tr.Submit("scenario-1")
	require.NoError(t, err)
	_, err = tr.Transition(run.ID, Event("promote"))
	assert.Error(t, err)
}

func TestListPreservesSubmissionOrder(t *testing.T) {
	tr := New(zap.NewNop())

	a, err := tr.Submit("scenario-a")
	require.NoError(t, err)
	b, err := tr.Submit("scenario-b")
	require.NoError(t, err)
	c, err := tr.Submit("scenario-c")
	require.NoError(t, err)

	runs := tr.List()
	require.Len(t, runs, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

	byScenario := tr.ListByScenario("scenario-b")
	require.Len(t, byScenario, 1)
	assert.Equal(t, b.ID, byScenario[0].ID)
}

func TestSnapshotsAreCopies(t *testing.T) {
	tr := New(zap.NewNop())

	run, err := tr.Submit("scenario-1")
	require.NoError(t, err)

	snapshot, err := tr.Get(run.ID)
	require.NoError(t, err)
	snapshot.Status = StatusApproved

	fresh, err := tr.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, fresh.Status, "mutating a snapshot must not touch the registry")
}
