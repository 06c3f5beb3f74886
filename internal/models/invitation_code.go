package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// InvitationStatus is the derived lifecycle state of an invitation code.
type InvitationStatus string

const (
	InvitationActive      InvitationStatus = "active"
	InvitationExhausted   InvitationStatus = "exhausted"
	InvitationExpired     InvitationStatus = "expired"
	InvitationDeactivated InvitationStatus = "deactivated"
)

var (
	ErrInvitationDeactivated = errors.New("invitation code is no longer active")
	ErrInvitationExpired     = errors.New("invitation code has expired")
	ErrInvitationExhausted   = errors.New("invitation code has reached its maximum number of uses")
)

type InvitationCode struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Code        string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	CompanyID   uint64         `gorm:"not null;index" json:"company_id"`
	Role        Role           `gorm:"type:varchar(20);not null" json:"role"`
	Permissions Permissions    `gorm:"type:integer;not null;default:0" json:"permissions"`
	MaxUses     int            `gorm:"not null;default:1" json:"max_uses"`
	CurrentUses int            `gorm:"not null;default:0" json:"current_uses"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedBy   uint64         `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
}

// Status derives the lifecycle state at now. Deactivation wins over expiry,
// expiry wins over exhaustion.
func (c *InvitationCode) Status(now time.Time) InvitationStatus {
	switch {
	case !c.IsActive:
		return InvitationDeactivated
	case c.ExpiresAt != nil && !now.Before(*c.ExpiresAt):
		return InvitationExpired
	case c.CurrentUses >= c.MaxUses:
		return InvitationExhausted
	default:
		return InvitationActive
	}
}

// Redeemable returns nil when the code may be redeemed at now.
func (c *InvitationCode) Redeemable(now time.Time) error {
	switch c.Status(now) {
	case InvitationDeactivated:
		return ErrInvitationDeactivated
	case InvitationExpired:
		return ErrInvitationExpired
	case InvitationExhausted:
		return ErrInvitationExhausted
	}
	return nil
}

// RemainingUses is never negative.
func (c *InvitationCode) RemainingUses() int {
	if c.CurrentUses >= c.MaxUses {
		return 0
	}
	return c.MaxUses - c.CurrentUses
}
