package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ScheduleType string

const (
	ScheduleTypeSimple  ScheduleType = "simple"
	ScheduleTypeComplex ScheduleType = "complex"
)

// CustomSchedule is a per-asset override recurrence. While active it replaces
// the asset's base frequency entirely. At most one active schedule per asset;
// the snapshot loader tolerates violations by keeping the most recent one.
type CustomSchedule struct {
	Base
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	AssetID   uuid.UUID `gorm:"type:uuid;index;not null" json:"asset_id"`

	ScheduleType ScheduleType `gorm:"not null;default:'simple'" json:"schedule_type"`

	// ScheduleConfig carries frequency/time/day preferences in the same shape
	// as the asset's base fields, e.g.
	//   {"frequency":"weekly","time_preference":"09:00","anchor_date":"2025-01-06"}
	// For complex schedules: {"dates":["2025-02-14","2025-03-01"],"time_preference":"10:00"}
	ScheduleConfig datatypes.JSON `gorm:"type:jsonb" json:"schedule_config"`

	// ServiceTypes maps a trigger key to an ordered list of service type tags,
	// e.g. {"daily":["full_service"],"weekly":["filter_clean"]}
	ServiceTypes datatypes.JSON `gorm:"type:jsonb" json:"service_types"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
	Asset   *Asset   `gorm:"foreignKey:AssetID" json:"-"`
}

func (CustomSchedule) TableName() string {
	return "custom_schedules"
}
