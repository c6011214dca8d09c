package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-dataset-processor/internal/models"
	"event-dataset-processor/internal/pipeline"
)

func TestSchedulerRestart(t *testing.T) {
	sched := NewScheduler("@every 1h", func() (*pipeline.Result, error) { return &pipeline.Result{}, nil })

	if err := sched.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if !sched.IsRunning() {
		t.Fatalf("scheduler should be running after Start")
	}
	if err := sched.Start(); err == nil {
		t.Fatalf("second start while running should fail")
	}
	if err := sched.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if sched.IsRunning() {
		t.Fatalf("scheduler should not be running after Stop")
	}
	if err := sched.Start(); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if !sched.IsRunning() {
		t.Fatalf("scheduler should be running after second Start")
	}
	if len(sched.cron.Entries()) != 1 {
		t.Fatalf("expected exactly one cron entry after restart, got %d", len(sched.cron.Entries()))
	}
	assert.False(t, sched.GetNextRun().IsZero())
	sched.Stop()
	assert.True(t, sched.GetNextRun().IsZero())
}

func TestSchedulerInvalidSpec(t *testing.T) {
	sched := NewScheduler("not a schedule", func() (*pipeline.Result, error) { return nil, nil })
	assert.Error(t, sched.Start())
	assert.False(t, sched.IsRunning())
}

func TestRunOnceKeepsLastGoodResult(t *testing.T) {
	calls := 0
	good := &pipeline.Result{Summary: models.Summary{Total: 2, Approved: 1, ApprovalRate: 0.5}}
	failure := errors.New("dataset vanished")

	sched := NewScheduler("@every 1h", func() (*pipeline.Result, error) {
		calls++
		if calls == 1 {
			return good, nil
		}
		return nil, failure
	})

	latest, err := sched.Latest()
	assert.Nil(t, latest)
	assert.NoError(t, err)

	require.NoError(t, sched.RunOnce())
	latest, err = sched.Latest()
	assert.NoError(t, err)
	assert.Same(t, good, latest)
	assert.False(t, sched.GetLastRun().IsZero())

	assert.ErrorIs(t, sched.RunOnce(), failure)
	latest, err = sched.Latest()
	assert.ErrorIs(t, err, failure)
	assert.Same(t, good, latest)

	sched.Wait()
}

func TestWithInitialSkipsFirstRun(t *testing.T) {
	finished := time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)
	initial := &pipeline.Result{Source: "dataset.json", FinishedAt: finished}
	calls := 0

	sched := NewScheduler("@every 1h", func() (*pipeline.Result, error) {
		calls++
		return &pipeline.Result{}, nil
	}, WithInitial(initial))

	latest, err := sched.Latest()
	require.NoError(t, err)
	assert.Same(t, initial, latest)
	assert.Equal(t, finished, sched.GetLastRun())
	assert.Equal(t, 0, calls)

	require.NoError(t, sched.Start())
	require.NoError(t, sched.Stop())
	assert.Equal(t, 0, calls)
}

func TestRunOnceAfterStop(t *testing.T) {
	calls := 0
	sched := NewScheduler("@every 1h", func() (*pipeline.Result, error) {
		calls++
		return &pipeline.Result{}, nil
	})

	require.NoError(t, sched.Start())
	require.NoError(t, sched.RunOnce())
	require.NoError(t, sched.Stop())

	assert.ErrorIs(t, sched.RunOnce(), ErrStopped)
	sched.Wait()
	assert.Equal(t, 1, calls)

	// a restart accepts refreshes again
	require.NoError(t, sched.Start())
	require.NoError(t, sched.RunOnce())
	require.NoError(t, sched.Stop())
	assert.Equal(t, 2, calls)
}
