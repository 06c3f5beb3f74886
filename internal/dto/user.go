package dto

import (
	"time"

	"github.com/yukikurage/farm-management-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID               uint64      `json:"id"`
	Username         string      `json:"username"`
	Email            string      `json:"email"`
	Name             string      `json:"name"`
	Role             models.Role `json:"role"`
	CurrentCompanyID *uint64     `json:"current_company_id"`
	LastLogin        *time.Time  `json:"last_login"`
	CreatedAt        time.Time   `json:"created_at"`
}

// CurrentUserDTO adds the membership in the current company
type CurrentUserDTO struct {
	UserDTO
	CompanyRole *models.Role        `json:"company_role,omitempty"`
	Permissions *models.Permissions `json:"permissions,omitempty"`
}

func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Name:             user.Name,
		Role:             user.Role,
		CurrentCompanyID: user.CurrentCompanyID,
		LastLogin:        user.LastLogin,
		CreatedAt:        user.CreatedAt,
	}
}

// ToCurrentUserDTO converts a user and, when known, their current membership.
func ToCurrentUserDTO(user models.User, member *models.CompanyMember) CurrentUserDTO {
	out := CurrentUserDTO{UserDTO: ToUserDTO(user)}
	if member != nil {
		role := member.Role
		perms := member.Permissions
		out.CompanyRole = &role
		out.Permissions = &perms
	}
	return out
}
