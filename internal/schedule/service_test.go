package schedule_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/hewitt/pool-pilot/internal/database/models"
	"github.com/hewitt/pool-pilot/internal/schedule"
	"github.com/hewitt/pool-pilot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestService(t *testing.T, ts *testutil.TestSetup) *schedule.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return schedule.NewService(ts.DB, nil, logger, schedule.DefaultServiceTime, 0)
}

func TestService_ComputeForDate_CustomScheduleEndToEnd(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	ctx := testutil.TestContext(t)

	property := testutil.CreateTestProperty(t, ts.DB, ts.Company.ID, "Sunset Apartments")
	unit := testutil.CreateTestAsset(t, ts.DB, ts.Company.ID, property.ID, "Main Pool", models.AssetTypeUnit)
	testutil.CreateTestCustomSchedule(t, ts.DB, ts.Company.ID, unit.ID,
		`{"frequency":"daily","time_preference":"09:00"}`,
		`{"daily":["full_service"]}`)

	svc := newTestService(t, ts)

	monday, err := schedule.ParseDate("2025-01-06")
	require.NoError(t, err)

	result, err := svc.ComputeForDate(ctx, ts.Company.ID, property.ID, monday)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	require.Len(t, result.Tasks, 1)
	task := result.Tasks[0]
	assert.Equal(t, unit.ID, task.AssetID)
	assert.Equal(t, "full_service", task.ServiceType)
	assert.Equal(t, schedule.TimeOfDay("09:00"), task.Time)
	assert.Equal(t, schedule.SourceCustomSchedule, task.Source)
}

func TestService_ComputeForDate_BaseFrequencyOnly(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	ctx := testutil.TestContext(t)

	property := testutil.CreateTestProperty(t, ts.DB, ts.Company.ID, "Lone Pool")
	unit := testutil.CreateTestAsset(t, ts.DB, ts.Company.ID, property.ID, "Lap Pool", models.AssetTypeUnit)

	svc := newTestService(t, ts)

	date, err := schedule.ParseDate("2025-01-08")
	require.NoError(t, err)

	result, err := svc.ComputeForDate(ctx, ts.Company.ID, property.ID, date)
	require.NoError(t, err)
	require.Len(t, result.Tasks, 1)
	assert.Equal(t, unit.ID, result.Tasks[0].AssetID)
	assert.Equal(t, schedule.DefaultServiceType, result.Tasks[0].ServiceType)
	assert.Equal(t, schedule.SourceBaseFrequency, result.Tasks[0].Source)
}

func TestService_ComputeForDate_InactiveAssetsExcluded(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	ctx := testutil.TestContext(t)

	property := testutil.CreateTestProperty(t, ts.DB, ts.Company.ID, "Winter Closure")
	unit := testutil.CreateTestAsset(t, ts.DB, ts.Company.ID, property.ID, "Outdoor Pool", models.AssetTypeUnit)
	require.NoError(t, ts.DB.Model(unit).Update("is_active", false).Error)

	svc := newTestService(t, ts)

	date, err := schedule.ParseDate("2025-01-08")
	require.NoError(t, err)

	result, err := svc.ComputeForDate(ctx, ts.Company.ID, property.ID, date)
	require.NoError(t, err)
	assert.Empty(t, result.Tasks)
}

func TestService_ComputeForDate_MalformedConfigDegrades(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	ctx := testutil.TestContext(t)

	property := testutil.CreateTestProperty(t, ts.DB, ts.Company.ID, "Broken Config")
	unit := testutil.CreateTestAsset(t, ts.DB, ts.Company.ID, property.ID, "Spa", models.AssetTypeUnit)
	testutil.CreateTestCustomSchedule(t, ts.DB, ts.Company.ID, unit.ID,
		`{"frequency":"sometimes"}`,
		`{"daily":["full_service"]}`)

	svc := newTestService(t, ts)

	date, err := schedule.ParseDate("2025-01-08")
	require.NoError(t, err)

	result, err := svc.ComputeForDate(ctx, ts.Company.ID, property.ID, date)
	require.NoError(t, err, "malformed config degrades, it does not fail the request")

	// The invalid override still supersedes the base frequency: no tasks,
	// and a data-integrity warning pointing at the asset.
	assert.Empty(t, result.Tasks)
	require.NotEmpty(t, result.Warnings)
	assert.Equal(t, schedule.WarnUnknownFrequency, result.Warnings[0].Code)
	assert.Equal(t, unit.ID, result.Warnings[0].AssetID)
}

func TestService_ComputeForDate_DuplicateActiveKeepsMostRecent(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	ctx := testutil.TestContext(t)

	property := testutil.CreateTestProperty(t, ts.DB, ts.Company.ID, "Dup Schedules")
	unit := testutil.CreateTestAsset(t, ts.DB, ts.Company.ID, property.ID, "Main Pool", models.AssetTypeUnit)

	older := testutil.CreateTestCustomSchedule(t, ts.DB, ts.Company.ID, unit.ID,
		`{"frequency":"daily","time_preference":"07:00"}`,
		`{"daily":["old_service"]}`)
	// Make the recency ordering unambiguous.
	require.NoError(t, ts.DB.Model(older).Update("updated_at", "2020-01-01 00:00:00").Error)
	testutil.CreateTestCustomSchedule(t, ts.DB, ts.Company.ID, unit.ID,
		`{"frequency":"daily","time_preference":"09:00"}`,
		`{"daily":["new_service"]}`)

	svc := newTestService(t, ts)

	date, err := schedule.ParseDate("2025-01-08")
	require.NoError(t, err)

	result, err := svc.ComputeForDate(ctx, ts.Company.ID, property.ID, date)
	require.NoError(t, err)

	require.Len(t, result.Tasks, 1)
	assert.Equal(t, "new_service", result.Tasks[0].ServiceType)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, schedule.WarnDuplicateActive, result.Warnings[0].Code)
}

func TestService_ComputeForDate_TemplateFallback(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	ctx := testutil.TestContext(t)

	property := testutil.CreateTestProperty(t, ts.DB, ts.Company.ID, "Templated")
	unit := testutil.CreateTestAsset(t, ts.DB, ts.Company.ID, property.ID, "Main Pool", models.AssetTypeUnit)
	// Quiet base so only the template can produce tasks on a Wednesday.
	require.NoError(t, ts.DB.Model(unit).Updates(map[string]interface{}{
		"frequency": "specific_days",
		"days":      datatypes.JSON(`[6]`),
	}).Error)

	testutil.CreateTestTemplate(t, ts.DB, ts.Company.ID, "Weekly Filter Clean",
		`{"frequency":"weekly","days":[3],"time_preference":"08:30"}`,
		`{"weekly":["filter_clean"]}`,
		`["unit"]`)

	svc := newTestService(t, ts)

	wednesday, err := schedule.ParseDate("2025-01-08")
	require.NoError(t, err)

	result, err := svc.ComputeForDate(ctx, ts.Company.ID, property.ID, wednesday)
	require.NoError(t, err)
	require.Len(t, result.Tasks, 1)
	assert.Equal(t, schedule.SourceTemplate, result.Tasks[0].Source)
	assert.Equal(t, "filter_clean", result.Tasks[0].ServiceType)
}

func TestService_ComputeForDate_RotationRule(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	ctx := testutil.TestContext(t)

	property := testutil.CreateTestProperty(t, ts.DB, ts.Company.ID, "Rotation Estate")
	for _, name := range []string{"Pool A", "Pool B", "Pool C", "Pool D"} {
		unit := testutil.CreateTestAsset(t, ts.DB, ts.Company.ID, property.ID, name, models.AssetTypeUnit)
		require.NoError(t, ts.DB.Model(unit).Updates(map[string]interface{}{
			"frequency": "specific_days",
			"days":      datatypes.JSON(`[6]`),
		}).Error)
	}
	testutil.CreateTestSchedulingRule(t, ts.DB, ts.Company.ID, property.ID,
		`{"selection_count":2,"asset_type":"unit","service_types":["rotation_service"],"time_preference":"10:00"}`)

	svc := newTestService(t, ts)

	date, err := schedule.ParseDate("2025-01-08")
	require.NoError(t, err)

	first, err := svc.ComputeForDate(ctx, ts.Company.ID, property.ID, date)
	require.NoError(t, err)
	require.Len(t, first.Tasks, 2)

	// Deterministic across loads, not just within one snapshot.
	second, err := svc.ComputeForDate(ctx, ts.Company.ID, property.ID, date)
	require.NoError(t, err)
	require.Len(t, second.Tasks, 2)
	assert.Equal(t, first.Tasks[0].AssetID, second.Tasks[0].AssetID)
	assert.Equal(t, first.Tasks[1].AssetID, second.Tasks[1].AssetID)
}

func TestService_ComputeForDate_CrossCompanyTemplateIsolation(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	ctx := testutil.TestContext(t)

	other := testutil.CreateTestCompany(t, ts.DB)
	// Another company's private template must never resolve our assets.
	testutil.CreateTestTemplate(t, ts.DB, other.ID, "Their Plan",
		`{"frequency":"daily","time_preference":"08:00"}`,
		`{"daily":["their_service"]}`,
		`["unit"]`)

	property := testutil.CreateTestProperty(t, ts.DB, ts.Company.ID, "Ours")
	unit := testutil.CreateTestAsset(t, ts.DB, ts.Company.ID, property.ID, "Main Pool", models.AssetTypeUnit)
	require.NoError(t, ts.DB.Model(unit).Updates(map[string]interface{}{
		"frequency": "specific_days",
		"days":      datatypes.JSON(`[6]`),
	}).Error)

	svc := newTestService(t, ts)

	date, err := schedule.ParseDate("2025-01-08")
	require.NoError(t, err)

	result, err := svc.ComputeForDate(ctx, ts.Company.ID, property.ID, date)
	require.NoError(t, err)
	assert.Empty(t, result.Tasks)
}
