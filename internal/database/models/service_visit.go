package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceVisit records a completed scheduled task. Written by technicians via
// the API, never by the schedule engine itself.
type ServiceVisit struct {
	Base
	CompanyID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"company_id"`
	PropertyID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"property_id"`
	AssetID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"asset_id"`
	TechnicianID *uuid.UUID `gorm:"type:uuid;index" json:"technician_id,omitempty"`

	ServiceType   string    `gorm:"not null" json:"service_type"`
	VisitDate     time.Time `gorm:"index;not null" json:"visit_date"` // UTC midnight of the service day
	ScheduledTime string    `json:"scheduled_time,omitempty"`         // "HH:MM" from the due-set
	CompletedAt   int64     `json:"completed_at"`                     // Unix timestamp
	Notes         string    `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Company    *Company  `gorm:"foreignKey:CompanyID" json:"-"`
	Property   *Property `gorm:"foreignKey:PropertyID" json:"-"`
	Asset      *Asset    `gorm:"foreignKey:AssetID" json:"-"`
	Technician *User     `gorm:"foreignKey:TechnicianID" json:"-"`
}

func (ServiceVisit) TableName() string {
	return "service_visits"
}
