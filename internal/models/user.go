package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	Username         string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email            string         `gorm:"type:varchar(255)" json:"email"`
	Name             string         `gorm:"type:varchar(255)" json:"name"`
	PasswordHash     string         `gorm:"type:varchar(255);not null" json:"-"`
	Role             Role           `gorm:"type:varchar(20);not null;default:'worker'" json:"role"`
	CurrentCompanyID *uint64        `gorm:"index" json:"current_company_id"`
	LastLogin        *time.Time     `json:"last_login"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships []CompanyMember `gorm:"foreignKey:UserID" json:"-"`
}
