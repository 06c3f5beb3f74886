package models

import (
	"time"

	"gorm.io/gorm"
)

// Company is a tenant. Every tenant-owned record references it through company_id.
type Company struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Address     string         `gorm:"type:varchar(500)" json:"address"`
	CreatedBy   uint64         `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members []CompanyMember `gorm:"foreignKey:CompanyID" json:"members,omitempty"`
}
