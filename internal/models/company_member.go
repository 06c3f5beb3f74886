package models

import "time"

type CompanyMember struct {
	CompanyID   uint64      `gorm:"primarykey" json:"company_id"`
	UserID      uint64      `gorm:"primarykey" json:"user_id"`
	Role        Role        `gorm:"type:varchar(20);not null" json:"role"`
	Permissions Permissions `gorm:"type:integer;not null;default:0" json:"permissions"`
	JoinedAt    time.Time   `json:"joined_at"`

	// Relations
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Can reports whether the member holds perm. Company admins hold every permission.
func (m CompanyMember) Can(perm Permission) bool {
	if m.Role == RoleAdmin {
		return true
	}
	return m.Permissions.Has(perm)
}
