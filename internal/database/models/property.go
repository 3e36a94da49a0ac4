package models

import "github.com/google/uuid"

type Property struct {
	Base
	CompanyID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"company_id"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`

	Name     string `gorm:"not null" json:"name"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zip_code,omitempty"`
	TimeZone string `gorm:"default:'UTC'" json:"timezone"`

	// Gate/access code, encrypted with age before storage (pkg/crypto)
	EncryptedAccessCode []byte `gorm:"type:bytea" json:"-"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`

	// Relationships
	Company  *Company                 `gorm:"foreignKey:CompanyID" json:"-"`
	Customer *Customer                `gorm:"foreignKey:CustomerID" json:"-"`
	Assets   []Asset                  `gorm:"foreignKey:PropertyID" json:"-"`
	Rules    []PropertySchedulingRule `gorm:"foreignKey:PropertyID" json:"-"`
}

func (Property) TableName() string {
	return "properties"
}
