package schedule

import (
	"context"

	"github.com/google/uuid"
	"github.com/hewitt/pool-pilot/internal/database/models"
	"gorm.io/gorm"
)

type gormAssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &gormAssetRepository{db: db}
}

func (r *gormAssetRepository) ListAssetsForProperty(ctx context.Context, propertyID uuid.UUID) ([]models.Asset, error) {
	var assets []models.Asset
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Order("name ASC").
		Find(&assets).Error
	return assets, err
}

type gormCustomScheduleRepository struct {
	db *gorm.DB
}

func NewCustomScheduleRepository(db *gorm.DB) CustomScheduleRepository {
	return &gormCustomScheduleRepository{db: db}
}

func (r *gormCustomScheduleRepository) GetActiveForAsset(ctx context.Context, assetID uuid.UUID) (*models.CustomSchedule, error) {
	var cs models.CustomSchedule
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND is_active = ?", assetID, true).
		Order("updated_at DESC").
		First(&cs).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cs, nil
}

func (r *gormCustomScheduleRepository) ListActiveForProperty(ctx context.Context, propertyID uuid.UUID) ([]models.CustomSchedule, error) {
	var schedules []models.CustomSchedule
	err := r.db.WithContext(ctx).
		Joins("JOIN assets ON assets.id = custom_schedules.asset_id").
		Where("assets.property_id = ? AND custom_schedules.is_active = ?", propertyID, true).
		Order("custom_schedules.updated_at DESC").
		Find(&schedules).Error
	return schedules, err
}

type gormRuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) PropertySchedulingRuleRepository {
	return &gormRuleRepository{db: db}
}

func (r *gormRuleRepository) ListActiveForProperty(ctx context.Context, propertyID uuid.UUID) ([]models.PropertySchedulingRule, error) {
	var rules []models.PropertySchedulingRule
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Order("created_at ASC").
		Find(&rules).Error
	return rules, err
}

type gormTemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) ScheduleTemplateRepository {
	return &gormTemplateRepository{db: db}
}

func (r *gormTemplateRepository) ListApplicable(ctx context.Context, companyID uuid.UUID) ([]models.ScheduleTemplate, error) {
	var templates []models.ScheduleTemplate
	err := r.db.WithContext(ctx).
		Where("company_id = ? OR is_public = ?", companyID, true).
		Order("name ASC").
		Find(&templates).Error
	return templates, err
}
