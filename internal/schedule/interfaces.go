package schedule

import (
	"context"

	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/database/models"
)

// AssetRepository lists the assets the compiler schedules.
type AssetRepository interface {
	ListAssetsForProperty(ctx context.Context, propertyID uuid.UUID) ([]models.Asset, error)
}

// CustomScheduleRepository reads per-asset override schedules.
type CustomScheduleRepository interface {
	GetActiveForAsset(ctx context.Context, assetID uuid.UUID) (*models.CustomSchedule, error)
	// ListActiveForProperty returns every active schedule for the property's
	// assets in one query; the loader prefers it over per-asset lookups.
	ListActiveForProperty(ctx context.Context, propertyID uuid.UUID) ([]models.CustomSchedule, error)
}

// PropertySchedulingRuleRepository reads property-wide rotation policies.
type PropertySchedulingRuleRepository interface {
	ListActiveForProperty(ctx context.Context, propertyID uuid.UUID) ([]models.PropertySchedulingRule, error)
}

// ScheduleTemplateRepository reads company templates, including public ones
// shared by other companies.
type ScheduleTemplateRepository interface {
	ListApplicable(ctx context.Context, companyID uuid.UUID) ([]models.ScheduleTemplate, error)
}

// Compile-time interface satisfaction checks
var (
	_ AssetRepository                  = (*gormAssetRepository)(nil)
	_ CustomScheduleRepository         = (*gormCustomScheduleRepository)(nil)
	_ PropertySchedulingRuleRepository = (*gormRuleRepository)(nil)
	_ ScheduleTemplateRepository       = (*gormTemplateRepository)(nil)
)
