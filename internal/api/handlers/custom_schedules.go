package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/api/dto"
	"github.com/hewitt/pool-pilot/internal/api/middleware"
	"github.com/hewitt/pool-pilot/internal/api/validation"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CustomScheduleHandler struct {
	db *gorm.DB
}

func NewCustomScheduleHandler(db *gorm.DB) *CustomScheduleHandler {
	return &CustomScheduleHandler{db: db}
}

// CreateCustomScheduleRequest represents the request to create a custom schedule
type CreateCustomScheduleRequest struct {
	AssetID        string          `json:"asset_id"`
	ScheduleType   string          `json:"schedule_type"`
	ScheduleConfig json.RawMessage `json:"schedule_config"`
	ServiceTypes   json.RawMessage `json:"service_types"`
}

func (r CreateCustomScheduleRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.AssetID == "" {
		errors["asset_id"] = "Asset ID is required"
	} else if !validation.IsValidUUID(r.AssetID) {
		errors["asset_id"] = "Invalid asset ID format"
	}
	if r.ScheduleType != "simple" && r.ScheduleType != "complex" {
		errors["schedule_type"] = "Schedule type must be simple or complex"
	}
	if len(r.ScheduleConfig) == 0 {
		errors["schedule_config"] = "Schedule config is required"
	}
	return errors
}

// List handles GET /api/v1/custom-schedules?asset_id=...
func (h *CustomScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	query := h.db.Model(&models.CustomSchedule{}).Where("company_id = ?", companyID)
	if assetID := r.URL.Query().Get("asset_id"); assetID != "" {
		query = query.Where("asset_id = ?", assetID)
	}
	if isActive := r.URL.Query().Get("is_active"); isActive != "" {
		query = query.Where("is_active = ?", isActive == "true")
	}

	var schedules []models.CustomSchedule
	if err := query.Order("updated_at DESC").Find(&schedules).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list custom schedules"})
		return
	}

	writeJSON(w, http.StatusOK, schedules)
}

// Create handles POST /api/v1/custom-schedules. Creating an active schedule
// deactivates any prior active schedule on the same asset, keeping the
// at-most-one-active invariant.
func (h *CustomScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	var req CreateCustomScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	assetID, _ := uuid.Parse(req.AssetID)
	var asset models.Asset
	if err := h.db.Where("id = ? AND company_id = ?", assetID, companyID).First(&asset).Error; err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Asset not found"})
		return
	}

	schedule := models.CustomSchedule{
		CompanyID:      companyID,
		AssetID:        assetID,
		ScheduleType:   models.ScheduleType(req.ScheduleType),
		ScheduleConfig: datatypes.JSON(req.ScheduleConfig),
		ServiceTypes:   datatypes.JSON(req.ServiceTypes),
		IsActive:       true,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CustomSchedule{}).
			Where("asset_id = ? AND is_active = ?", assetID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&schedule).Error
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create custom schedule"})
		return
	}

	writeJSON(w, http.StatusCreated, schedule)
}

// Get handles GET /api/v1/custom-schedules/:id
func (h *CustomScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	var schedule models.CustomSchedule
	if err := h.db.Where("id = ? AND company_id = ?", scheduleID, companyID).First(&schedule).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Custom schedule not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get custom schedule"})
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

// Deactivate handles POST /api/v1/custom-schedules/:id/deactivate. The asset
// falls back to its template or base frequency on the next computation.
func (h *CustomScheduleHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	result := h.db.Model(&models.CustomSchedule{}).
		Where("id = ? AND company_id = ?", scheduleID, companyID).
		Update("is_active", false)

	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to deactivate custom schedule"})
		return
	}

	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Custom schedule not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Custom schedule deactivated"})
}
