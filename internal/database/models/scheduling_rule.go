package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RuleType string

const (
	RuleTypeRandomSelection RuleType = "random_selection"
)

// PropertySchedulingRule is a property-wide policy, e.g. "service 2 of the
// property's pools each day, rotating". It applies only to assets not already
// resolved by a custom schedule or template.
type PropertySchedulingRule struct {
	Base
	CompanyID  uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	PropertyID uuid.UUID `gorm:"type:uuid;index;not null" json:"property_id"`

	RuleType RuleType `gorm:"not null;default:'random_selection'" json:"rule_type"`

	// RuleConfig, e.g.
	//   {"selection_count":2,"asset_type":"unit",
	//    "service_types":["rotation_service"],"time_preference":"10:00"}
	RuleConfig datatypes.JSON `gorm:"type:jsonb" json:"rule_config"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`

	// Relationships
	Company  *Company  `gorm:"foreignKey:CompanyID" json:"-"`
	Property *Property `gorm:"foreignKey:PropertyID" json:"-"`
}

func (PropertySchedulingRule) TableName() string {
	return "property_scheduling_rules"
}
