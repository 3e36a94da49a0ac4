package models

import "github.com/google/uuid"

type User struct {
	Base
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `json:"name"`
	CompanyID    uuid.UUID `gorm:"type:uuid;index" json:"company_id"`
	Role         string    `gorm:"default:'technician'" json:"role"` // owner, admin, technician
	IsActive     bool      `gorm:"default:true" json:"is_active"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (User) TableName() string {
	return "users"
}
