package tasks_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"github.com/hewitt/pool-pilot/internal/schedule"
	"github.com/hewitt/pool-pilot/internal/tasks"
	"github.com/hewitt/pool-pilot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrecomputeTask(t *testing.T) {
	companyID := uuid.New()
	propertyID := uuid.New()

	date, err := schedule.ParseDate("2025-01-06")
	require.NoError(t, err)

	task, err := tasks.NewPrecomputeTask(companyID, propertyID, date)
	require.NoError(t, err)
	assert.Equal(t, tasks.TypeSchedulePrecompute, task.Type())
	assert.Contains(t, string(task.Payload()), `"2025-01-06"`)
}

func TestNewTickTask(t *testing.T) {
	task := tasks.NewTickTask()
	assert.Equal(t, tasks.TypeScheduleTick, task.Type())
	assert.Empty(t, task.Payload())
}

func TestHandlePrecompute_ComputesSchedule(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	ctx := testutil.TestContext(t)

	property := testutil.CreateTestProperty(t, ts.DB, ts.Company.ID, "Cache Warm")
	testutil.CreateTestAsset(t, ts.DB, ts.Company.ID, property.ID, "Main Pool", models.AssetTypeUnit)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := schedule.NewService(ts.DB, nil, logger, schedule.DefaultServiceTime, 0)
	handler := tasks.NewHandler(ts.DB, logger, svc, nil)

	date, err := schedule.ParseDate("2025-01-06")
	require.NoError(t, err)
	task, err := tasks.NewPrecomputeTask(ts.Company.ID, property.ID, date)
	require.NoError(t, err)

	require.NoError(t, handler.HandlePrecompute(ctx, task))
}

func TestHandlePrecompute_BadPayload(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	ctx := testutil.TestContext(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := schedule.NewService(ts.DB, nil, logger, schedule.DefaultServiceTime, 0)
	handler := tasks.NewHandler(ts.DB, logger, svc, nil)

	task := tasks.NewTickTask() // wrong type, empty payload
	err := handler.HandlePrecompute(ctx, task)
	assert.Error(t, err)
}
