package dto

import (
	"time"

	"github.com/yukikurage/farm-management-api/internal/models"
)

// InvitationDTO represents an invitation code in API responses
type InvitationDTO struct {
	ID            uint64                  `json:"id"`
	Code          string                  `json:"code"`
	Role          models.Role             `json:"role"`
	Permissions   models.Permissions      `json:"permissions"`
	MaxUses       int                     `json:"max_uses"`
	CurrentUses   int                     `json:"current_uses"`
	RemainingUses int                     `json:"remaining_uses"`
	ExpiresAt     *time.Time              `json:"expires_at"`
	IsActive      bool                    `json:"is_active"`
	Status        models.InvitationStatus `json:"status"`
	CreatedBy     uint64                  `json:"created_by"`
	CreatedAt     time.Time               `json:"created_at"`
}

// InvitationPreviewDTO is what the public validation endpoint reveals
type InvitationPreviewDTO struct {
	Valid         bool                    `json:"valid"`
	CompanyName   string                  `json:"company_name"`
	Role          models.Role             `json:"role"`
	Permissions   models.Permissions      `json:"permissions"`
	Status        models.InvitationStatus `json:"status"`
	ExpiresAt     *time.Time              `json:"expires_at"`
	RemainingUses int                     `json:"remaining_uses"`
}

func ToInvitationDTO(code models.InvitationCode, now time.Time) InvitationDTO {
	return InvitationDTO{
		ID:            code.ID,
		Code:          code.Code,
		Role:          code.Role,
		Permissions:   code.Permissions,
		MaxUses:       code.MaxUses,
		CurrentUses:   code.CurrentUses,
		RemainingUses: code.RemainingUses(),
		ExpiresAt:     code.ExpiresAt,
		IsActive:      code.IsActive,
		Status:        code.Status(now),
		CreatedBy:     code.CreatedBy,
		CreatedAt:     code.CreatedAt,
	}
}

func ToInvitationDTOs(codes []models.InvitationCode, now time.Time) []InvitationDTO {
	out := make([]InvitationDTO, len(codes))
	for i, c := range codes {
		out[i] = ToInvitationDTO(c, now)
	}
	return out
}
