package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/api/dto"
	"github.com/hewitt/pool-pilot/internal/api/middleware"
	"github.com/hewitt/pool-pilot/internal/api/validation"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssetHandler struct {
	db *gorm.DB
}

func NewAssetHandler(db *gorm.DB) *AssetHandler {
	return &AssetHandler{db: db}
}

// CreateAssetRequest represents the request to create an asset
type CreateAssetRequest struct {
	PropertyID string   `json:"property_id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	WaterType  string   `json:"water_type,omitempty"`
	Frequency  string   `json:"frequency,omitempty"`
	Times      []string `json:"times,omitempty"`
	Days       []int    `json:"days,omitempty"`
	AnchorDate string   `json:"anchor_date,omitempty"`
}

func (r CreateAssetRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.PropertyID == "" {
		errors["property_id"] = "Property ID is required"
	} else if !validation.IsValidUUID(r.PropertyID) {
		errors["property_id"] = "Invalid property ID format"
	}
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	validTypes := map[string]bool{"unit": true, "equipment": true, "plant_room": true}
	if !validTypes[r.Type] {
		errors["type"] = "Invalid asset type"
	}
	if r.WaterType != "" {
		validWater := map[string]bool{"chlorine": true, "saltwater": true, "bromine": true, "freshwater": true}
		if !validWater[r.WaterType] {
			errors["water_type"] = "Invalid water type"
		}
	}
	if r.Frequency != "" && !validation.IsValidFrequency(r.Frequency) {
		errors["frequency"] = "Invalid frequency"
	}
	for _, t := range r.Times {
		if !validation.IsValidTimeOfDay(t) {
			errors["times"] = "Times must be HH:MM in 24-hour format"
			break
		}
	}
	for _, d := range r.Days {
		if d < 0 || d > 6 {
			errors["days"] = "Days must be weekday numbers 0-6"
			break
		}
	}
	if r.AnchorDate != "" && !validation.IsValidDate(r.AnchorDate) {
		errors["anchor_date"] = "Anchor date must be YYYY-MM-DD"
	}
	return errors
}

// List handles GET /api/v1/assets
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	query := h.db.Model(&models.Asset{}).Where("company_id = ?", companyID)

	if propertyID := r.URL.Query().Get("property_id"); propertyID != "" {
		query = query.Where("property_id = ?", propertyID)
	}
	if assetType := r.URL.Query().Get("type"); assetType != "" {
		query = query.Where("type = ?", assetType)
	}
	if isActive := r.URL.Query().Get("is_active"); isActive != "" {
		query = query.Where("is_active = ?", isActive == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to count assets"})
		return
	}

	var assets []models.Asset
	if err := query.
		Order("name ASC").
		Offset(pagination.Offset()).
		Limit(pagination.PerPage).
		Find(&assets).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list assets"})
		return
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       assets,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: dto.TotalPages(total, pagination.PerPage),
	})
}

// Create handles POST /api/v1/assets
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	propertyID, _ := uuid.Parse(req.PropertyID)
	var property models.Property
	if err := h.db.Where("id = ? AND company_id = ?", propertyID, companyID).First(&property).Error; err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Property not found"})
		return
	}

	frequency := req.Frequency
	if frequency == "" {
		frequency = "daily"
	}

	asset := models.Asset{
		CompanyID:  companyID,
		PropertyID: propertyID,
		Name:       req.Name,
		Type:       models.AssetType(req.Type),
		WaterType:  models.WaterType(req.WaterType),
		Frequency:  frequency,
		IsActive:   true,
	}

	if len(req.Times) > 0 {
		data, _ := json.Marshal(req.Times)
		asset.Times = datatypes.JSON(data)
	}
	if len(req.Days) > 0 {
		data, _ := json.Marshal(req.Days)
		asset.Days = datatypes.JSON(data)
	}
	if req.AnchorDate != "" {
		anchor, err := time.Parse("2006-01-02", req.AnchorDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid anchor date"})
			return
		}
		asset.AnchorDate = &anchor
	}

	if err := h.db.Create(&asset).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create asset"})
		return
	}

	writeJSON(w, http.StatusCreated, asset)
}

// Get handles GET /api/v1/assets/:id
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	assetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid asset ID"})
		return
	}

	var asset models.Asset
	if err := h.db.Where("id = ? AND company_id = ?", assetID, companyID).First(&asset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Asset not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get asset"})
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

// Delete handles DELETE /api/v1/assets/:id
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	assetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid asset ID"})
		return
	}

	// Soft delete by setting is_active to false
	result := h.db.Model(&models.Asset{}).
		Where("id = ? AND company_id = ?", assetID, companyID).
		Update("is_active", false)

	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete asset"})
		return
	}

	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Asset not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Asset deleted"})
}
