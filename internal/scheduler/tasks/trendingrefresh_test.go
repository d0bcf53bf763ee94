package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetrack/cinetrack/internal/scheduler"
)

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) RefreshTrending(ctx context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestTrendingRefreshTask_Run(t *testing.T) {
	ok := &fakeRefresher{}
	require.NoError(t, NewTrendingRefreshTask(ok, zerolog.Nop()).Run(context.Background()))
	assert.EqualValues(t, 1, ok.calls.Load())

	failing := &fakeRefresher{err: errors.New("tmdb down")}
	err := NewTrendingRefreshTask(failing, zerolog.Nop()).Run(context.Background())
	assert.EqualError(t, err, "tmdb down")
}

func TestRegisterTrendingRefreshTask(t *testing.T) {
	sched, err := scheduler.New(zerolog.Nop())
	require.NoError(t, err)
	defer sched.Stop()

	refresher := &fakeRefresher{}
	require.NoError(t, RegisterTrendingRefreshTask(sched, refresher, "", zerolog.Nop()))

	info, err := sched.GetTask(TrendingRefreshTaskID)
	require.NoError(t, err)
	assert.Equal(t, DefaultTrendingRefreshCron, info.Cron)

	require.NoError(t, sched.Start())
	assert.Eventually(t, func() bool { return refresher.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}
