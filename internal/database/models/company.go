package models

type Company struct {
	Base
	Name          string `gorm:"not null" json:"name"`
	Slug          string `gorm:"uniqueIndex;not null" json:"slug"`
	Plan          string `gorm:"default:'free'" json:"plan"` // free, pro, enterprise
	MaxUsers      int    `gorm:"default:5" json:"max_users"`
	MaxProperties int    `gorm:"default:25" json:"max_properties"`

	// Relationships
	Users      []User             `gorm:"foreignKey:CompanyID" json:"-"`
	Customers  []Customer         `gorm:"foreignKey:CompanyID" json:"-"`
	Properties []Property         `gorm:"foreignKey:CompanyID" json:"-"`
	Templates  []ScheduleTemplate `gorm:"foreignKey:CompanyID" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}
