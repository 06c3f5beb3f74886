package dto

import (
	"time"

	"github.com/yukikurage/farm-management-api/internal/models"
)

// CompanyDTO represents a company in API responses
type CompanyDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CompanyWithRoleDTO represents a company with the user's role in it
type CompanyWithRoleDTO struct {
	CompanyDTO
	Role        models.Role        `json:"role"`
	Permissions models.Permissions `json:"permissions"`
	IsCurrent   bool               `json:"is_current"`
}

// MemberDTO represents a member of a company
type MemberDTO struct {
	User        UserDTO            `json:"user"`
	Role        models.Role        `json:"role"`
	Permissions models.Permissions `json:"permissions"`
	JoinedAt    time.Time          `json:"joined_at"`
}

// CompanyDetailDTO represents a company with its members
type CompanyDetailDTO struct {
	CompanyDTO
	Members []MemberDTO `json:"members"`
}

func ToCompanyDTO(company models.Company) CompanyDTO {
	return CompanyDTO{
		ID:          company.ID,
		Name:        company.Name,
		Description: company.Description,
		Address:     company.Address,
		CreatedBy:   company.CreatedBy,
		CreatedAt:   company.CreatedAt,
	}
}

// ToCompanyWithRoleDTO converts a membership (with its company preloaded).
func ToCompanyWithRoleDTO(member models.CompanyMember, currentCompanyID *uint64) CompanyWithRoleDTO {
	return CompanyWithRoleDTO{
		CompanyDTO:  ToCompanyDTO(member.Company),
		Role:        member.Role,
		Permissions: member.Permissions,
		IsCurrent:   currentCompanyID != nil && *currentCompanyID == member.CompanyID,
	}
}

// ToMemberDTO converts a membership (with its user preloaded).
func ToMemberDTO(member models.CompanyMember) MemberDTO {
	return MemberDTO{
		User:        ToUserDTO(member.User),
		Role:        member.Role,
		Permissions: member.Permissions,
		JoinedAt:    member.JoinedAt,
	}
}

func ToMemberDTOs(members []models.CompanyMember) []MemberDTO {
	out := make([]MemberDTO, len(members))
	for i, m := range members {
		out[i] = ToMemberDTO(m)
	}
	return out
}

func ToCompanyDetailDTO(company models.Company, members []models.CompanyMember) CompanyDetailDTO {
	return CompanyDetailDTO{
		CompanyDTO: ToCompanyDTO(company),
		Members:    ToMemberDTOs(members),
	}
}
