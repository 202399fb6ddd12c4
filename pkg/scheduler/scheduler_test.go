package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/scheduler"
)

func newScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()

	s, err := scheduler.NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })

	s.Start()

	return s
}

// TestRunNow_RecordsStatus 手动执行后记录成功与失败状态.
func TestRunNow_RecordsStatus(t *testing.T) {
	s := newScheduler(t)

	fail := true
	require.NoError(t, s.AddCron("audit", "0 0 1 1 *", func(context.Context) error {
		if fail {
			return errors.New("bucket unreachable")
		}

		return nil
	}))

	require.NoError(t, s.RunNow("audit"))
	require.Eventually(t, func() bool {
		jobs := s.Jobs()
		return len(jobs) == 1 && jobs[0].Status == scheduler.StatusError
	}, 2*time.Second, 10*time.Millisecond)

	info := s.Jobs()[0]
	assert.Equal(t, "bucket unreachable", info.Error)
	assert.True(t, info.LastSuccess.IsZero())
	assert.False(t, info.NextRun.IsZero())

	fail = false

	require.NoError(t, s.RunNow(info.ID))
	require.Eventually(t, func() bool {
		return s.Jobs()[0].Runs == 2
	}, 2*time.Second, 10*time.Millisecond)

	info = s.Jobs()[0]
	assert.Equal(t, scheduler.StatusScheduled, info.Status)
	assert.Empty(t, info.Error)
	assert.False(t, info.LastSuccess.IsZero())
}

// TestPanicIsRecorded panic 记为失败而不是终止进程.
func TestPanicIsRecorded(t *testing.T) {
	s := newScheduler(t)

	require.NoError(t, s.AddCron("boom", "0 0 1 1 *", func(context.Context) error { panic("nil bucket") }))
	require.NoError(t, s.RunNow("boom"))

	require.Eventually(t, func() bool {
		return s.Jobs()[0].Status == scheduler.StatusError
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, s.Jobs()[0].Error, "nil bucket")
}

// TestRegistry 重名、查找与删除.
func TestRegistry(t *testing.T) {
	s := newScheduler(t)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.AddCron("b", "0 0 1 1 *", noop))
	require.NoError(t, s.AddCron("a", "0 0 1 1 *", noop))
	require.ErrorIs(t, s.AddCron("a", "0 0 1 1 *", noop), scheduler.ErrJobExists)

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].Name)

	require.ErrorIs(t, s.RunNow("missing"), scheduler.ErrJobNotFound)
	require.NoError(t, s.Remove(jobs[1].ID))
	require.NoError(t, s.Remove("a"))
	require.ErrorIs(t, s.Remove("a"), scheduler.ErrJobNotFound)
	assert.Empty(t, s.Jobs())
}
