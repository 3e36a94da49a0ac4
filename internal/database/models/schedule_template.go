package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ScheduleTemplate is a reusable, company-level recurrence definition. It is a
// fallback source for assets with no custom schedule, bound purely by the
// applicability filters below.
type ScheduleTemplate struct {
	Base
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`

	Name         string `gorm:"not null" json:"name"`
	TemplateType string `gorm:"default:'maintenance'" json:"template_type"`

	// TemplateConfig has the same shape as CustomSchedule.ScheduleConfig.
	TemplateConfig datatypes.JSON `gorm:"type:jsonb" json:"template_config"`
	ServiceTypes   datatypes.JSON `gorm:"type:jsonb" json:"service_types"`

	// Applicability filters: JSON arrays of asset types / water types.
	// An empty water type list means "any water type".
	ApplicableAssetTypes datatypes.JSON `gorm:"type:jsonb" json:"applicable_asset_types"`
	ApplicableWaterTypes datatypes.JSON `gorm:"type:jsonb" json:"applicable_water_types,omitempty"`

	IsPublic bool `gorm:"default:false;index" json:"is_public"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
}

func (ScheduleTemplate) TableName() string {
	return "schedule_templates"
}
