package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AssetType string

const (
	AssetTypeUnit      AssetType = "unit" // pool or spa
	AssetTypeEquipment AssetType = "equipment"
	AssetTypePlantRoom AssetType = "plant_room"
)

type WaterType string

const (
	WaterTypeChlorine   WaterType = "chlorine"
	WaterTypeSaltwater  WaterType = "saltwater"
	WaterTypeBromine    WaterType = "bromine"
	WaterTypeFreshwater WaterType = "freshwater"
)

// Asset is a unit, item of equipment, or plant room subject to scheduled
// service actions. The base recurrence fields apply when no custom schedule,
// template, or rotation rule resolves the asset.
type Asset struct {
	Base
	CompanyID  uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	PropertyID uuid.UUID `gorm:"type:uuid;index;not null" json:"property_id"`

	Name      string    `gorm:"not null" json:"name"`
	Type      AssetType `gorm:"not null;index" json:"type"`
	WaterType WaterType `json:"water_type,omitempty"` // only meaningful for units

	// Base recurrence. Times is a JSON array of "HH:MM" strings; Days a JSON
	// array of weekday integers 0-6 (only meaningful for specific_days).
	Frequency  string         `gorm:"not null;default:'daily'" json:"frequency"`
	Times      datatypes.JSON `gorm:"type:jsonb" json:"times,omitempty"`
	Days       datatypes.JSON `gorm:"type:jsonb" json:"days,omitempty"`
	AnchorDate *time.Time     `json:"anchor_date,omitempty"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`

	// Relationships
	Company         *Company         `gorm:"foreignKey:CompanyID" json:"-"`
	Property        *Property        `gorm:"foreignKey:PropertyID" json:"-"`
	CustomSchedules []CustomSchedule `gorm:"foreignKey:AssetID" json:"-"`
}

func (Asset) TableName() string {
	return "assets"
}
