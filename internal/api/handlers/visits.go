package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/api/dto"
	"github.com/hewitt/pool-pilot/internal/api/middleware"
	"github.com/hewitt/pool-pilot/internal/api/validation"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"gorm.io/gorm"
)

type VisitHandler struct {
	db *gorm.DB
}

func NewVisitHandler(db *gorm.DB) *VisitHandler {
	return &VisitHandler{db: db}
}

// CreateVisitRequest records the completion of one scheduled task
type CreateVisitRequest struct {
	AssetID       string `json:"asset_id"`
	ServiceType   string `json:"service_type"`
	VisitDate     string `json:"visit_date"` // YYYY-MM-DD
	ScheduledTime string `json:"scheduled_time,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

func (r CreateVisitRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.AssetID == "" {
		errors["asset_id"] = "Asset ID is required"
	} else if !validation.IsValidUUID(r.AssetID) {
		errors["asset_id"] = "Invalid asset ID format"
	}
	if r.ServiceType == "" {
		errors["service_type"] = "Service type is required"
	}
	if r.VisitDate == "" {
		errors["visit_date"] = "Visit date is required"
	} else if !validation.IsValidDate(r.VisitDate) {
		errors["visit_date"] = "Visit date must be YYYY-MM-DD"
	}
	if r.ScheduledTime != "" && !validation.IsValidTimeOfDay(r.ScheduledTime) {
		errors["scheduled_time"] = "Scheduled time must be HH:MM in 24-hour format"
	}
	return errors
}

// List handles GET /api/v1/visits
func (h *VisitHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	query := h.db.Model(&models.ServiceVisit{}).Where("company_id = ?", companyID)

	if propertyID := r.URL.Query().Get("property_id"); propertyID != "" {
		query = query.Where("property_id = ?", propertyID)
	}
	if assetID := r.URL.Query().Get("asset_id"); assetID != "" {
		query = query.Where("asset_id = ?", assetID)
	}
	if date := r.URL.Query().Get("date"); date != "" {
		if !validation.IsValidDate(date) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Date must be YYYY-MM-DD"})
			return
		}
		query = query.Where("visit_date = ?", date)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to count visits"})
		return
	}

	var visits []models.ServiceVisit
	if err := query.
		Order("visit_date DESC, created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.PerPage).
		Find(&visits).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list visits"})
		return
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       visits,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: dto.TotalPages(total, pagination.PerPage),
	})
}

// Create handles POST /api/v1/visits
func (h *VisitHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())
	userID := middleware.GetUserID(r.Context())

	var req CreateVisitRequest
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

	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid visit date"})
		return
	}

	visit := models.ServiceVisit{
		CompanyID:     companyID,
		PropertyID:    asset.PropertyID,
		AssetID:       assetID,
		TechnicianID:  &userID,
		ServiceType:   req.ServiceType,
		VisitDate:     visitDate,
		ScheduledTime: req.ScheduledTime,
		CompletedAt:   time.Now().Unix(),
		Notes:         req.Notes,
	}

	if err := h.db.Create(&visit).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to record visit"})
		return
	}

	writeJSON(w, http.StatusCreated, visit)
}
