package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/api/dto"
	"github.com/hewitt/pool-pilot/internal/api/middleware"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"github.com/hewitt/pool-pilot/internal/schedule"
	"gorm.io/gorm"
)

type ScheduleHandler struct {
	db      *gorm.DB
	service *schedule.Service
}

func NewScheduleHandler(db *gorm.DB, service *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{db: db, service: service}
}

// Compute handles GET /api/v1/schedule?property_id=...&date=YYYY-MM-DD.
// The due-set is computed on demand (or served from the precompute cache)
// and never persisted.
func (h *ScheduleHandler) Compute(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	propertyID, err := uuid.Parse(r.URL.Query().Get("property_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid or missing property_id"})
		return
	}

	date, err := schedule.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid or missing date, expected YYYY-MM-DD"})
		return
	}

	// Tenancy check before any computation.
	var property models.Property
	if err := h.db.Where("id = ? AND company_id = ?", propertyID, companyID).First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Property not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to look up property"})
		return
	}

	result, err := h.service.ComputeForDate(r.Context(), companyID, propertyID, date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute schedule"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
