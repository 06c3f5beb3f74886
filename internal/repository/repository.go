package repository

import (
	"context"
	"time"

	"github.com/yukikurage/farm-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// RegisterWithCompany creates a user, the company they found and their
	// admin membership within a single transaction.
	RegisterWithCompany(ctx context.Context, user *models.User, company *models.Company, member *models.CompanyMember) error

	// RegisterWithInvitation redeems code and creates the user with the
	// membership the code grants, within a single transaction.
	RegisterWithInvitation(ctx context.Context, user *models.User, code *models.InvitationCode, now time.Time) (*models.CompanyMember, error)

	// UpdateLastLogin records a successful login
	UpdateLastLogin(ctx context.Context, userID uint64, at time.Time) error

	// SetCurrentCompany changes the active tenant of a user
	SetCurrentCompany(ctx context.Context, userID uint64, companyID *uint64) error
}

// CompanyRepository defines the interface for company and membership data access
type CompanyRepository interface {
	// Create creates a company with its founding admin membership
	Create(ctx context.Context, company *models.Company, member *models.CompanyMember) error

	// FindByID finds a company by ID
	FindByID(ctx context.Context, id uint64) (*models.Company, error)

	// Update updates a company
	Update(ctx context.Context, company *models.Company) error

	// Delete deletes a company and all data it owns
	Delete(ctx context.Context, id uint64) error

	// FindMember finds a specific company member
	FindMember(ctx context.Context, companyID, userID uint64) (*models.CompanyMember, error)

	// UpdateMember updates the role and permissions of a member
	UpdateMember(ctx context.Context, member *models.CompanyMember) error

	// RemoveMember removes a member and clears their current company if it pointed here
	RemoveMember(ctx context.Context, companyID, userID uint64) error

	// ListMembersByUserID lists all companies a user is a member of
	ListMembersByUserID(ctx context.Context, userID uint64) ([]models.CompanyMember, error)

	// ListMembers lists all members of a company
	ListMembers(ctx context.Context, companyID uint64) ([]models.CompanyMember, error)
}

// InvitationRepository defines the interface for invitation code data access
type InvitationRepository interface {
	// Create creates a new invitation code
	Create(ctx context.Context, code *models.InvitationCode) error

	// FindByID finds an invitation code by ID
	FindByID(ctx context.Context, id uint64) (*models.InvitationCode, error)

	// FindByCode finds an invitation code by its code string
	FindByCode(ctx context.Context, code string) (*models.InvitationCode, error)

	// ListByCompany lists the codes issued by a company, newest first
	ListByCompany(ctx context.Context, companyID uint64) ([]models.InvitationCode, error)

	// Deactivate marks a code inactive
	Deactivate(ctx context.Context, id uint64) error

	// Delete soft deletes a code
	Delete(ctx context.Context, id uint64) error

	// DeactivateStale deactivates every active code that is expired or exhausted at now
	DeactivateStale(ctx context.Context, now time.Time) (int64, error)
}
