package models

import "github.com/google/uuid"

type Customer struct {
	Base
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"index" json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`

	// Relationships
	Company    *Company   `gorm:"foreignKey:CompanyID" json:"-"`
	Properties []Property `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}
