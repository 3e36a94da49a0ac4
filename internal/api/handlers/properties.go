package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/api/dto"
	"github.com/hewitt/pool-pilot/internal/api/middleware"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"github.com/hewitt/pool-pilot/pkg/crypto"
	"gorm.io/gorm"
)

type PropertyHandler struct {
	db        *gorm.DB
	encryptor *crypto.Encryptor
}

func NewPropertyHandler(db *gorm.DB, encryptor *crypto.Encryptor) *PropertyHandler {
	return &PropertyHandler{db: db, encryptor: encryptor}
}

// CreatePropertyRequest represents the request to create a property
type CreatePropertyRequest struct {
	Name       string  `json:"name"`
	CustomerID *string `json:"customer_id,omitempty"`
	Address    string  `json:"address,omitempty"`
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	ZipCode    string  `json:"zip_code,omitempty"`
	TimeZone   string  `json:"timezone,omitempty"`
	AccessCode string  `json:"access_code,omitempty"`
}

func (r CreatePropertyRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.CustomerID != nil && *r.CustomerID != "" {
		if _, err := uuid.Parse(*r.CustomerID); err != nil {
			errors["customer_id"] = "Invalid customer ID format"
		}
	}
	return errors
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	CustomerID *string `json:"customer_id,omitempty"`
	Address    string  `json:"address,omitempty"`
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	ZipCode    string  `json:"zip_code,omitempty"`
	TimeZone   string  `json:"timezone"`
	IsActive   bool    `json:"is_active"`
	HasCode    bool    `json:"has_access_code"`
}

func propertyToResponse(p *models.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Address:  p.Address,
		City:     p.City,
		State:    p.State,
		ZipCode:  p.ZipCode,
		TimeZone: p.TimeZone,
		IsActive: p.IsActive,
		HasCode:  len(p.EncryptedAccessCode) > 0,
	}
	if p.CustomerID != nil {
		s := p.CustomerID.String()
		resp.CustomerID = &s
	}
	return resp
}

// List handles GET /api/v1/properties
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	query := h.db.Model(&models.Property{}).Where("company_id = ?", companyID)

	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if isActive := r.URL.Query().Get("is_active"); isActive != "" {
		query = query.Where("is_active = ?", isActive == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to count properties"})
		return
	}

	var properties []models.Property
	if err := query.
		Order("name ASC").
		Offset(pagination.Offset()).
		Limit(pagination.PerPage).
		Find(&properties).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list properties"})
		return
	}

	response := make([]PropertyResponse, len(properties))
	for i, p := range properties {
		response[i] = propertyToResponse(&p)
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       response,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: dto.TotalPages(total, pagination.PerPage),
	})
}

// Create handles POST /api/v1/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	timeZone := req.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}

	property := models.Property{
		CompanyID: companyID,
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		TimeZone:  timeZone,
		IsActive:  true,
	}

	if req.CustomerID != nil && *req.CustomerID != "" {
		customerID, _ := uuid.Parse(*req.CustomerID)
		var customer models.Customer
		if err := h.db.Where("id = ? AND company_id = ?", customerID, companyID).First(&customer).Error; err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Customer not found"})
			return
		}
		property.CustomerID = &customerID
	}

	if req.AccessCode != "" {
		encrypted, err := h.encryptor.Encrypt([]byte(req.AccessCode))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to store access code"})
			return
		}
		property.EncryptedAccessCode = encrypted
	}

	if err := h.db.Create(&property).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create property"})
		return
	}

	writeJSON(w, http.StatusCreated, propertyToResponse(&property))
}

// Get handles GET /api/v1/properties/:id
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	property, ok := h.findProperty(w, r, companyID)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, propertyToResponse(property))
}

// AccessCode handles GET /api/v1/properties/:id/access-code. The code is
// decrypted on demand and never included in list/get responses.
func (h *PropertyHandler) AccessCode(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	property, ok := h.findProperty(w, r, companyID)
	if !ok {
		return
	}

	if len(property.EncryptedAccessCode) == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "No access code on file"})
		return
	}

	code, err := h.encryptor.Decrypt(property.EncryptedAccessCode)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to read access code"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_code": string(code)})
}

// Delete handles DELETE /api/v1/properties/:id
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())

	propertyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid property ID"})
		return
	}

	// Soft delete by setting is_active to false
	result := h.db.Model(&models.Property{}).
		Where("id = ? AND company_id = ?", propertyID, companyID).
		Update("is_active", false)

	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete property"})
		return
	}

	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Property not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Property deleted"})
}

func (h *PropertyHandler) findProperty(w http.ResponseWriter, r *http.Request, companyID uuid.UUID) (*models.Property, bool) {
	propertyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid property ID"})
		return nil, false
	}

	var property models.Property
	if err := h.db.Where("id = ? AND company_id = ?", propertyID, companyID).First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Property not found"})
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get property"})
		return nil, false
	}
	return &property, true
}
