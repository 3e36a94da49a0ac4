package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/api/middleware"
	"github.com/hewitt/pool-pilot/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedHandler(t *testing.T, wantUser, wantCompany uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantUser, middleware.GetUserID(r.Context()))
		assert.Equal(t, wantCompany, middleware.GetCompanyID(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	userID := uuid.New()
	companyID := uuid.New()

	token, err := jwtService.GenerateToken(userID, companyID, "tech@example.com", "technician")
	require.NoError(t, err)

	mw := middleware.Auth(jwtService)

	t.Run("accepts bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/properties", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		mw(authedHandler(t, userID, companyID)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("accepts cookie token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/properties", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		rr := httptest.NewRecorder()

		mw(authedHandler(t, userID, companyID)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/properties", nil)
		rr := httptest.NewRecorder()

		mw(authedHandler(t, userID, companyID)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/properties", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rr := httptest.NewRecorder()

		mw(authedHandler(t, userID, companyID)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireRole(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	token, err := jwtService.GenerateToken(uuid.New(), uuid.New(), "tech@example.com", "technician")
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Auth(jwtService)(middleware.RequireRole("owner", "admin")(ok))

	req := httptest.NewRequest("DELETE", "/api/v1/properties/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	handler = middleware.Auth(jwtService)(middleware.RequireRole("technician")(ok))
	req = httptest.NewRequest("GET", "/api/v1/properties", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
