package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/auth"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Customer{},
		&models.Property{},
		&models.Asset{},
		&models.CustomSchedule{},
		&models.PropertySchedulingRule{},
		&models.ScheduleTemplate{},
		&models.ServiceVisit{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestCompany creates a test company
func CreateTestCompany(t *testing.T, db *gorm.DB) *models.Company {
	t.Helper()

	company := &models.Company{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name: "Test Pool Co",
		Slug: "test-co-" + uuid.New().String()[:8],
		Plan: "free",
	}

	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create test company: %v", err)
	}

	return company
}

// CreateTestUser creates a test user with the given company
func CreateTestUser(t *testing.T, db *gorm.DB, company *models.Company) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test User",
		CompanyID:    company.ID,
		Role:         "owner",
		IsActive:     true,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	user.Company = company
	return user
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.CompanyID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// CreateTestCustomer creates a test customer
func CreateTestCustomer(t *testing.T, db *gorm.DB, companyID uuid.UUID) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		Base:      models.Base{ID: uuid.New()},
		CompanyID: companyID,
		Name:      "Test Customer",
		Email:     "customer-" + uuid.New().String()[:8] + "@example.com",
		IsActive:  true,
	}

	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("failed to create test customer: %v", err)
	}

	return customer
}

// CreateTestProperty creates a test property
func CreateTestProperty(t *testing.T, db *gorm.DB, companyID uuid.UUID, name string) *models.Property {
	t.Helper()

	property := &models.Property{
		Base:      models.Base{ID: uuid.New()},
		CompanyID: companyID,
		Name:      name,
		TimeZone:  "UTC",
		IsActive:  true,
	}

	if err := db.Create(property).Error; err != nil {
		t.Fatalf("failed to create test property: %v", err)
	}

	return property
}

// CreateTestAsset creates a test asset with a daily base frequency
func CreateTestAsset(t *testing.T, db *gorm.DB, companyID, propertyID uuid.UUID, name string, assetType models.AssetType) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Base:       models.Base{ID: uuid.New()},
		CompanyID:  companyID,
		PropertyID: propertyID,
		Name:       name,
		Type:       assetType,
		WaterType:  models.WaterTypeChlorine,
		Frequency:  "daily",
		Times:      datatypes.JSON(`["09:00"]`),
		IsActive:   true,
	}

	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}

	return asset
}

// CreateTestCustomSchedule creates an active custom schedule for an asset
func CreateTestCustomSchedule(t *testing.T, db *gorm.DB, companyID, assetID uuid.UUID, scheduleConfig, serviceTypes string) *models.CustomSchedule {
	t.Helper()

	cs := &models.CustomSchedule{
		Base:           models.Base{ID: uuid.New()},
		CompanyID:      companyID,
		AssetID:        assetID,
		ScheduleType:   models.ScheduleTypeSimple,
		ScheduleConfig: datatypes.JSON(scheduleConfig),
		ServiceTypes:   datatypes.JSON(serviceTypes),
		IsActive:       true,
	}

	if err := db.Create(cs).Error; err != nil {
		t.Fatalf("failed to create test custom schedule: %v", err)
	}

	return cs
}

// CreateTestSchedulingRule creates an active scheduling rule for a property
func CreateTestSchedulingRule(t *testing.T, db *gorm.DB, companyID, propertyID uuid.UUID, ruleConfig string) *models.PropertySchedulingRule {
	t.Helper()

	rule := &models.PropertySchedulingRule{
		Base:       models.Base{ID: uuid.New()},
		CompanyID:  companyID,
		PropertyID: propertyID,
		RuleType:   models.RuleTypeRandomSelection,
		RuleConfig: datatypes.JSON(ruleConfig),
		IsActive:   true,
	}

	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test scheduling rule: %v", err)
	}

	return rule
}

// CreateTestTemplate creates a schedule template
func CreateTestTemplate(t *testing.T, db *gorm.DB, companyID uuid.UUID, name, templateConfig, serviceTypes, assetTypes string) *models.ScheduleTemplate {
	t.Helper()

	tmpl := &models.ScheduleTemplate{
		Base:                 models.Base{ID: uuid.New()},
		CompanyID:            companyID,
		Name:                 name,
		TemplateConfig:       datatypes.JSON(templateConfig),
		ServiceTypes:         datatypes.JSON(serviceTypes),
		ApplicableAssetTypes: datatypes.JSON(assetTypes),
	}

	if err := db.Create(tmpl).Error; err != nil {
		t.Fatalf("failed to create test template: %v", err)
	}

	return tmpl
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Company    *models.Company
	User       *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, company, user, and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	company := CreateTestCompany(t, db)
	user := CreateTestUser(t, db, company)
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Company:    company,
		User:       user,
		Token:      token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
