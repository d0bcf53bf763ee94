package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetrack/cinetrack/internal/scheduler"
)

func TestSchedulerHandler(t *testing.T) {
	sched, err := scheduler.New(zerolog.Nop())
	require.NoError(t, err)
	defer sched.Stop()

	block := make(chan struct{})
	defer close(block)
	require.NoError(t, sched.RegisterTask(scheduler.TaskConfig{
		ID:   "trending-refresh",
		Name: "Trending Refresh",
		Cron: "0 * * * *",
		Func: func(ctx context.Context) error {
			select {
			case <-block:
			case <-ctx.Done():
			}
			return nil
		},
	}))

	e := echo.New()
	NewSchedulerHandler(sched).RegisterRoutes(e.Group("/api/v1/scheduler"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scheduler/tasks", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []scheduler.TaskInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "trending-refresh", tasks[0].ID)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scheduler/tasks/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/tasks/trending-refresh/run", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/scheduler/tasks/trending-refresh/run", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
