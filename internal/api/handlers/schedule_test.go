package handlers_test

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/api/handlers"
	"github.com/hewitt/pool-pilot/internal/api/middleware"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"github.com/hewitt/pool-pilot/internal/schedule"
	"github.com/hewitt/pool-pilot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduleTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := schedule.NewService(tc.DB, nil, logger, schedule.DefaultServiceTime, 0)

	r := chi.NewRouter()
	r.Use(middleware.Auth(tc.JWTService))

	handler := handlers.NewScheduleHandler(tc.DB, service)
	r.Get("/api/v1/schedule", handler.Compute)

	return r, tc
}

func TestScheduleHandler_Compute(t *testing.T) {
	router, tc := setupScheduleTestRouter(t)
	defer tc.Cleanup()

	property := testutil.CreateTestProperty(t, tc.DB, tc.Company.ID, "Sunset Apartments")
	unit := testutil.CreateTestAsset(t, tc.DB, tc.Company.ID, property.ID, "Main Pool", models.AssetTypeUnit)
	testutil.CreateTestCustomSchedule(t, tc.DB, tc.Company.ID, unit.ID,
		`{"frequency":"daily","time_preference":"09:00"}`,
		`{"daily":["full_service"]}`)

	req := testutil.AuthenticatedRequest(t, "GET",
		"/api/v1/schedule?property_id="+property.ID.String()+"&date=2025-01-06", nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, 200)

	var result schedule.Result
	testutil.ParseJSONResponse(t, rr, &result)
	require.Len(t, result.Tasks, 1)
	assert.Equal(t, unit.ID, result.Tasks[0].AssetID)
	assert.Equal(t, "full_service", result.Tasks[0].ServiceType)
	assert.Equal(t, schedule.TimeOfDay("09:00"), result.Tasks[0].Time)
}

func TestScheduleHandler_Compute_BadRequest(t *testing.T) {
	router, tc := setupScheduleTestRouter(t)
	defer tc.Cleanup()

	property := testutil.CreateTestProperty(t, tc.DB, tc.Company.ID, "Bad Params")

	t.Run("missing property_id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/schedule?date=2025-01-06", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, 400)
	})

	t.Run("missing date", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET",
			"/api/v1/schedule?property_id="+property.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, 400)
	})

	t.Run("malformed date", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET",
			"/api/v1/schedule?property_id="+property.ID.String()+"&date=Jan-6", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, 400)
	})
}

func TestScheduleHandler_Compute_TenancyEnforced(t *testing.T) {
	router, tc := setupScheduleTestRouter(t)
	defer tc.Cleanup()

	t.Run("unknown property", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET",
			"/api/v1/schedule?property_id="+uuid.New().String()+"&date=2025-01-06", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, 404)
	})

	t.Run("another company's property", func(t *testing.T) {
		other := testutil.CreateTestCompany(t, tc.DB)
		theirs := testutil.CreateTestProperty(t, tc.DB, other.ID, "Not Ours")

		req := testutil.AuthenticatedRequest(t, "GET",
			"/api/v1/schedule?property_id="+theirs.ID.String()+"&date=2025-01-06", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, 404)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/schedule?property_id=x&date=2025-01-06", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, 401)
	})
}
