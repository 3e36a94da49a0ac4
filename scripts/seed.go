//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hewitt/pool-pilot/internal/auth"
	"github.com/hewitt/pool-pilot/internal/database"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"github.com/hewitt/pool-pilot/pkg/config"
	"github.com/hewitt/pool-pilot/pkg/util"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create owner user and company
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin123!"
	}
	if name == "" {
		name = "Admin"
	}

	resp, err := authService.Register(context.Background(), auth.RegisterInput{
		Email:       email,
		Password:    password,
		Name:        name,
		CompanyName: "Demo Pool Services",
	})

	if err != nil {
		if err == auth.ErrUserExists {
			fmt.Printf("Admin user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create admin user: %v", err)
	}

	companyID := resp.User.CompanyID

	// Demo customer and property
	customer := models.Customer{
		CompanyID: companyID,
		Name:      "Sunset Holdings",
		Email:     "owner@sunset.example.com",
		IsActive:  true,
	}
	if err := db.Create(&customer).Error; err != nil {
		log.Fatalf("failed to seed customer: %v", err)
	}

	property := models.Property{
		CompanyID:  companyID,
		CustomerID: &customer.ID,
		Name:       "Sunset Apartments",
		City:       "Phoenix",
		TimeZone:   "America/Phoenix",
		IsActive:   true,
	}
	if err := db.Create(&property).Error; err != nil {
		log.Fatalf("failed to seed property: %v", err)
	}

	// A handful of pools plus a plant room
	assets := []models.Asset{
		{CompanyID: companyID, PropertyID: property.ID, Name: "Main Pool", Type: models.AssetTypeUnit, WaterType: "chlorine", Frequency: "daily", Times: datatypes.JSON(`["09:00"]`), IsActive: true},
		{CompanyID: companyID, PropertyID: property.ID, Name: "Lap Pool", Type: models.AssetTypeUnit, WaterType: "saltwater", Frequency: "specific_days", Times: datatypes.JSON(`["07:30"]`), Days: datatypes.JSON(`[1,3,5]`), IsActive: true},
		{CompanyID: companyID, PropertyID: property.ID, Name: "Spa", Type: models.AssetTypeUnit, WaterType: "chlorine", Frequency: "every_other_day", Times: datatypes.JSON(`["10:00"]`), IsActive: true},
		{CompanyID: companyID, PropertyID: property.ID, Name: "Pump Room A", Type: models.AssetTypePlantRoom, Frequency: "weekly", Times: datatypes.JSON(`["08:00"]`), Days: datatypes.JSON(`[2]`), IsActive: true},
	}
	for i := range assets {
		if err := db.Create(&assets[i]).Error; err != nil {
			log.Fatalf("failed to seed asset: %v", err)
		}
	}

	// Custom schedule overriding the main pool's base frequency
	custom := models.CustomSchedule{
		CompanyID:      companyID,
		AssetID:        assets[0].ID,
		ScheduleType:   models.ScheduleTypeSimple,
		ScheduleConfig: datatypes.JSON(`{"frequency":"2x_daily","times":["08:00","16:00"]}`),
		ServiceTypes:   datatypes.JSON(`{"2x_daily":["water_test","skim"]}`),
		IsActive:       true,
	}
	if err := db.Create(&custom).Error; err != nil {
		log.Fatalf("failed to seed custom schedule: %v", err)
	}

	// Public template for weekly filter maintenance
	template := models.ScheduleTemplate{
		CompanyID:            companyID,
		Name:                 "Weekly Filter Clean",
		TemplateType:         "maintenance",
		TemplateConfig:       datatypes.JSON(`{"frequency":"weekly","days":[4],"time_preference":"11:00"}`),
		ServiceTypes:         datatypes.JSON(`{"weekly":["filter_clean"]}`),
		ApplicableAssetTypes: datatypes.JSON(`["unit"]`),
		IsPublic:             true,
		IsActive:             true,
	}
	if err := db.Create(&template).Error; err != nil {
		log.Fatalf("failed to seed template: %v", err)
	}

	// Rotation rule sampling two pools a day for a water test
	rule := models.PropertySchedulingRule{
		CompanyID:  companyID,
		PropertyID: property.ID,
		RuleType:   models.RuleTypeRandomSelection,
		RuleConfig: datatypes.JSON(`{"selection_count":2,"service_types":["water_test"],"time_preference":"13:00"}`),
		IsActive:   true,
	}
	if err := db.Create(&rule).Error; err != nil {
		log.Fatalf("failed to seed scheduling rule: %v", err)
	}

	fmt.Printf("Seed complete!\n")
	fmt.Printf("Email: %s\n", resp.User.Email)
	fmt.Printf("Company: %s\n", resp.User.Company.Name)
	fmt.Printf("Property: %s (%d assets)\n", property.Name, len(assets))
	fmt.Printf("Token: %s\n", resp.Token)
}
