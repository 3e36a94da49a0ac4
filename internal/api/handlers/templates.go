package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/api/dto"
	"github.com/hewitt/pool-pilot/internal/api/middleware"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TemplateHandler struct {
	db *gorm.DB
}

func NewTemplateHandler(db *gorm.DB) *TemplateHandler {
	return &TemplateHandler{db: db}
}

// CreateTemplateRequest represents the request to create a schedule template
type CreateTemplateRequest struct {
	Name                 string          `json:"name"`
	TemplateType         string          `json:"template_type,omitempty"`
	TemplateConfig       json.RawMessage `json:"template_config"`
	ServiceTypes         json.RawMessage `json:"service_types"`
	ApplicableAssetTypes json.RawMessage `json:"applicable_asset_types"`
	ApplicableWaterTypes json.RawMessage `json:"applicable_water_types,omitempty"`
	IsPublic             bool            `json:"is_public,omitempty"`
}

func (r CreateTemplateRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if len(r.TemplateConfig) == 0 {
		errors["template_config"] = "Template config is required"
	}
	if len(r.ApplicableAssetTypes) == 0 {
		errors["applicable_asset_types"] = "Applicable asset types are required"
	}
	return errors
}

// List handles GET /api/v1/templates. Includes public templates from other
// companies, since those participate in resolution.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	var templates []models.ScheduleTemplate
	if err := h.db.
		Where("company_id = ? OR is_public = ?", companyID, true).
		Order("name ASC").
		Find(&templates).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list templates"})
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

// Create handles POST /api/v1/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	templateType := req.TemplateType
	if templateType == "" {
		templateType = "maintenance"
	}

	template := models.ScheduleTemplate{
		CompanyID:            companyID,
		Name:                 req.Name,
		TemplateType:         templateType,
		TemplateConfig:       datatypes.JSON(req.TemplateConfig),
		ServiceTypes:         datatypes.JSON(req.ServiceTypes),
		ApplicableAssetTypes: datatypes.JSON(req.ApplicableAssetTypes),
		ApplicableWaterTypes: datatypes.JSON(req.ApplicableWaterTypes),
		IsPublic:             req.IsPublic,
		IsActive:             true,
	}

	if err := h.db.Create(&template).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create template"})
		return
	}

	writeJSON(w, http.StatusCreated, template)
}

// Get handles GET /api/v1/templates/:id
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	templateID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid template ID"})
		return
	}

	var template models.ScheduleTemplate
	if err := h.db.
		Where("id = ? AND (company_id = ? OR is_public = ?)", templateID, companyID, true).
		First(&template).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Template not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get template"})
		return
	}

	writeJSON(w, http.StatusOK, template)
}

// Delete handles DELETE /api/v1/templates/:id. Only a company's own
// templates can be removed.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	templateID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid template ID"})
		return
	}

	result := h.db.
		Where("id = ? AND company_id = ?", templateID, companyID).
		Delete(&models.ScheduleTemplate{})

	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete template"})
		return
	}

	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Template not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Template deleted"})
}
