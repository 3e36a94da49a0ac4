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

type SchedulingRuleHandler struct {
	db *gorm.DB
}

func NewSchedulingRuleHandler(db *gorm.DB) *SchedulingRuleHandler {
	return &SchedulingRuleHandler{db: db}
}

// CreateSchedulingRuleRequest represents the request to create a property rule
type CreateSchedulingRuleRequest struct {
	PropertyID string          `json:"property_id"`
	RuleType   string          `json:"rule_type"`
	RuleConfig json.RawMessage `json:"rule_config"`
}

func (r CreateSchedulingRuleRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.PropertyID == "" {
		errors["property_id"] = "Property ID is required"
	} else if !validation.IsValidUUID(r.PropertyID) {
		errors["property_id"] = "Invalid property ID format"
	}
	if r.RuleType != string(models.RuleTypeRandomSelection) {
		errors["rule_type"] = "Unsupported rule type"
	}
	if len(r.RuleConfig) == 0 {
		errors["rule_config"] = "Rule config is required"
	}
	return errors
}

// List handles GET /api/v1/scheduling-rules?property_id=...
func (h *SchedulingRuleHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	query := h.db.Model(&models.PropertySchedulingRule{}).Where("company_id = ?", companyID)
	if propertyID := r.URL.Query().Get("property_id"); propertyID != "" {
		query = query.Where("property_id = ?", propertyID)
	}

	var rules []models.PropertySchedulingRule
	if err := query.Order("created_at ASC").Find(&rules).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list scheduling rules"})
		return
	}

	writeJSON(w, http.StatusOK, rules)
}

// Create handles POST /api/v1/scheduling-rules
func (h *SchedulingRuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	var req CreateSchedulingRuleRequest
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

	rule := models.PropertySchedulingRule{
		CompanyID:  companyID,
		PropertyID: propertyID,
		RuleType:   models.RuleType(req.RuleType),
		RuleConfig: datatypes.JSON(req.RuleConfig),
		IsActive:   true,
	}

	if err := h.db.Create(&rule).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create scheduling rule"})
		return
	}

	writeJSON(w, http.StatusCreated, rule)
}

// Delete handles DELETE /api/v1/scheduling-rules/:id
func (h *SchedulingRuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	ruleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid rule ID"})
		return
	}

	result := h.db.Model(&models.PropertySchedulingRule{}).
		Where("id = ? AND company_id = ?", ruleID, companyID).
		Update("is_active", false)

	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete scheduling rule"})
		return
	}

	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Scheduling rule not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Scheduling rule deleted"})
}
