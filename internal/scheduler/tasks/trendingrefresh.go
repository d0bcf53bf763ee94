package tasks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cinetrack/cinetrack/internal/scheduler"
)

// TrendingRefreshTaskID identifies the trending refresh task.
const TrendingRefreshTaskID = "trending-refresh"

// DefaultTrendingRefreshCron runs the refresh at the top of every hour.
const DefaultTrendingRefreshCron = "0 * * * *"

// TrendingRefresher reloads the cached trending lists.
type TrendingRefresher interface {
	RefreshTrending(ctx context.Context) error
}

// TrendingRefreshTask keeps the index page's trending lists warm.
type TrendingRefreshTask struct {
	refresher TrendingRefresher
	logger    zerolog.Logger
}

// NewTrendingRefreshTask creates a new trending refresh task.
func NewTrendingRefreshTask(refresher TrendingRefresher, logger zerolog.Logger) *TrendingRefreshTask {
	return &TrendingRefreshTask{
		refresher: refresher,
		logger:    logger.With().Str("task", TrendingRefreshTaskID).Logger(),
	}
}

// Run reloads both trending lists.
func (t *TrendingRefreshTask) Run(ctx context.Context) error {
	t.logger.Debug().Msg("Refreshing trending lists")
	if err := t.refresher.RefreshTrending(ctx); err != nil {
		t.logger.Warn().Err(err).Msg("Trending refresh incomplete")
		return err
	}
	return nil
}

// RegisterTrendingRefreshTask registers the trending refresh task with the scheduler.
// An empty cron falls back to DefaultTrendingRefreshCron.
func RegisterTrendingRefreshTask(sched *scheduler.Scheduler, refresher TrendingRefresher, cron string, logger zerolog.Logger) error {
	if cron == "" {
		cron = DefaultTrendingRefreshCron
	}
	task := NewTrendingRefreshTask(refresher, logger)

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          TrendingRefreshTaskID,
		Name:        "Trending Refresh",
		Description: "Reloads the trending movie and TV lists shown on the home page",
		Cron:        cron,
		RunOnStart:  true,
		Func:        task.Run,
	})
}
