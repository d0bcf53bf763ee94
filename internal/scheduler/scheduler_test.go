package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()

	s, err := New(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Stop() })
	return s
}

func TestScheduler_RegisterTask(t *testing.T) {
	s := newTestScheduler(t)

	cfg := TaskConfig{ID: "b", Name: "B", Cron: "0 * * * *", Func: func(context.Context) error { return nil }}
	require.NoError(t, s.RegisterTask(cfg))
	require.NoError(t, s.RegisterTask(TaskConfig{ID: "a", Name: "A", Cron: "*/5 * * * *", Func: cfg.Func}))

	err := s.RegisterTask(cfg)
	assert.ErrorIs(t, err, ErrTaskRegistered)

	err = s.RegisterTask(TaskConfig{ID: "bad", Cron: "not a cron", Func: cfg.Func})
	assert.Error(t, err)

	tasks := s.ListTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
}

func TestScheduler_RunNow(t *testing.T) {
	s := newTestScheduler(t)

	release := make(chan struct{})
	var runs atomic.Int32
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "refresh",
		Name: "Refresh",
		Cron: "0 0 1 1 *",
		Func: func(ctx context.Context) error {
			runs.Add(1)
			<-release
			return errors.New("boom")
		},
	}))
	require.NoError(t, s.Start())

	require.NoError(t, s.RunNow("refresh"))
	assert.ErrorIs(t, s.RunNow("refresh"), ErrTaskRunning)
	assert.ErrorIs(t, s.RunNow("missing"), ErrTaskNotFound)

	info, err := s.GetTask("refresh")
	require.NoError(t, err)
	assert.True(t, info.Running)

	close(release)
	require.Eventually(t, func() bool {
		info, _ := s.GetTask("refresh")
		return !info.Running && info.LastRun != nil
	}, 2*time.Second, 10*time.Millisecond)

	info, err = s.GetTask("refresh")
	require.NoError(t, err)
	assert.Equal(t, "boom", info.LastError)
	assert.NotNil(t, info.NextRun)
	assert.EqualValues(t, 1, runs.Load())
}

func TestScheduler_RunOnStart(t *testing.T) {
	s := newTestScheduler(t)

	ran := make(chan struct{}, 1)
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:         "startup",
		Name:       "Startup",
		Cron:       "0 0 1 1 *",
		RunOnStart: true,
		Func: func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		},
	}))
	require.NoError(t, s.Start())

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("RunOnStart task did not run")
	}
}

func TestScheduler_StopCancelsTasks(t *testing.T) {
	s, err := New(zerolog.Nop())
	require.NoError(t, err)

	started := make(chan struct{})
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "long",
		Name: "Long",
		Cron: "0 0 1 1 *",
		Func: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	}))
	require.NoError(t, s.Start())
	require.NoError(t, s.RunNow("long"))
	<-started

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}

	_, err = s.GetTask("nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
