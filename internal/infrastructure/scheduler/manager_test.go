package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusdesk/internal/shared/logger"
)

func TestSchedulerManager_RegistersJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)
	defer m.Stop()

	noop := BatchJobFunc(func(context.Context) (int, error) { return 0, nil })
	require.NoError(t, m.RegisterOutboxRelay(noop, time.Minute))
	require.NoError(t, m.RegisterCounterReconcile(noop, "30 3 * * *"))

	names := make([]string, 0, 2)
	for _, j := range m.Jobs() {
		names = append(names, j.Name())
	}
	assert.ElementsMatch(t, []string{"notification-relay", "issue-counter-reconcile"}, names)
}

func TestSchedulerManager_RejectsBadCron(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)
	defer m.Stop()

	noop := BatchJobFunc(func(context.Context) (int, error) { return 0, nil })
	assert.Error(t, m.RegisterCounterReconcile(noop, "not a cron"))
}

func TestSchedulerManager_RelayRunsImmediately(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	var calls atomic.Int32
	job := BatchJobFunc(func(context.Context) (int, error) {
		calls.Add(1)
		return 1, nil
	})
	require.NoError(t, m.RegisterOutboxRelay(job, time.Hour))

	m.Start()
	assert.True(t, m.IsStarted())
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
}
