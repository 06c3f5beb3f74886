package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"gorm.io/gorm"
)

// CompanyService provides business logic for companies and their members.
type CompanyService struct {
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
	onDelete    []WriteHook
	now         func() time.Time
}

// NewCompanyService creates a new CompanyService. onDelete hooks run after a
// company has been deleted.
func NewCompanyService(companyRepo repository.CompanyRepository, userRepo repository.UserRepository, onDelete ...WriteHook) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		onDelete:    onDelete,
		now:         time.Now,
	}
}

// CompanyInput carries the editable company attributes.
type CompanyInput struct {
	Name        string
	Description string
	Address     string
}

// ListForUser returns the memberships of a user with their companies.
func (s *CompanyService) ListForUser(ctx context.Context, userID uint64) ([]models.CompanyMember, error) {
	memberships, err := s.companyRepo.ListMembersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return memberships, nil
}

// Create creates a company administered by userID. It becomes the user's
// current company when they had none.
func (s *CompanyService) Create(ctx context.Context, userID uint64, input CompanyInput) (*models.Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidCompanyName
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	company := &models.Company{
		Name:        name,
		Description: input.Description,
		Address:     input.Address,
		CreatedBy:   userID,
	}
	member := &models.CompanyMember{
		UserID:      userID,
		Role:        models.RoleAdmin,
		Permissions: models.RoleAdmin.DefaultPermissions(),
		JoinedAt:    s.now(),
	}
	if err := s.companyRepo.Create(ctx, company, member); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	if user.CurrentCompanyID == nil {
		if err := s.userRepo.SetCurrentCompany(ctx, userID, &company.ID); err != nil {
			return nil, fmt.Errorf("failed to set current company: %w", err)
		}
	}
	return company, nil
}

// Get returns a company and its members to one of its members.
func (s *CompanyService) Get(ctx context.Context, userID, companyID uint64) (*models.Company, []models.CompanyMember, error) {
	if _, err := s.membership(ctx, companyID, userID); err != nil {
		return nil, nil, err
	}
	company, err := s.findCompany(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.companyRepo.ListMembers(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list company members: %w", err)
	}
	return company, members, nil
}

// Update changes the company attributes. Only company admins may do so.
func (s *CompanyService) Update(ctx context.Context, userID, companyID uint64, input CompanyInput) (*models.Company, error) {
	if err := s.requireAdmin(ctx, companyID, userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidCompanyName
	}

	company, err := s.findCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	company.Name = name
	company.Description = input.Description
	company.Address = input.Address
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

// Delete removes the company and everything it owns. Only company admins may do so.
func (s *CompanyService) Delete(ctx context.Context, userID, companyID uint64) error {
	if err := s.requireAdmin(ctx, companyID, userID); err != nil {
		return err
	}
	if _, err := s.findCompany(ctx, companyID); err != nil {
		return err
	}
	if err := s.companyRepo.Delete(ctx, companyID); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	for _, hook := range s.onDelete {
		hook(ctx, companyID)
	}
	return nil
}

// Switch makes companyID the current company of userID.
func (s *CompanyService) Switch(ctx context.Context, userID, companyID uint64) (*models.Company, error) {
	if _, err := s.membership(ctx, companyID, userID); err != nil {
		return nil, err
	}
	company, err := s.findCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetCurrentCompany(ctx, userID, &companyID); err != nil {
		return nil, fmt.Errorf("failed to switch company: %w", err)
	}
	return company, nil
}

// ListMembers lists the members of a company.
func (s *CompanyService) ListMembers(ctx context.Context, companyID uint64) ([]models.CompanyMember, error) {
	members, err := s.companyRepo.ListMembers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company members: %w", err)
	}
	return members, nil
}

// MemberUpdate changes the role and permissions of a member. A nil field is
// left unchanged; a new role without permissions grants the role defaults.
type MemberUpdate struct {
	Role        *models.Role
	Permissions *models.Permissions
}

// UpdateMember applies update to targetID inside companyID on behalf of actorID.
// Only admins may touch an admin membership or hand out the admin role.
func (s *CompanyService) UpdateMember(ctx context.Context, companyID, actorID, targetID uint64, update MemberUpdate) (*models.CompanyMember, error) {
	if actorID == targetID {
		return nil, ErrCannotModifySelf
	}
	actor, err := s.membership(ctx, companyID, actorID)
	if err != nil {
		return nil, err
	}
	member, err := s.target(ctx, companyID, targetID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin &&
		(member.Role == models.RoleAdmin || (update.Role != nil && *update.Role == models.RoleAdmin)) {
		return nil, ErrNotCompanyAdmin
	}

	if update.Role != nil {
		member.Role = *update.Role
		member.Permissions = update.Role.DefaultPermissions()
	}
	if update.Permissions != nil {
		member.Permissions = *update.Permissions
	}
	if err := s.companyRepo.UpdateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}

// RemoveMember removes targetID from companyID on behalf of actorID. Admins
// can only be removed by another admin.
func (s *CompanyService) RemoveMember(ctx context.Context, companyID, actorID, targetID uint64) error {
	if actorID == targetID {
		return ErrCannotModifySelf
	}
	actor, err := s.membership(ctx, companyID, actorID)
	if err != nil {
		return err
	}
	member, err := s.target(ctx, companyID, targetID)
	if err != nil {
		return err
	}
	if member.Role == models.RoleAdmin && actor.Role != models.RoleAdmin {
		return ErrNotCompanyAdmin
	}
	if err := s.companyRepo.RemoveMember(ctx, companyID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

func (s *CompanyService) findCompany(ctx context.Context, companyID uint64) (*models.Company, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return company, nil
}

func (s *CompanyService) membership(ctx context.Context, companyID, userID uint64) (*models.CompanyMember, error) {
	member, err := s.companyRepo.FindMember(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCompanyMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return member, nil
}

func (s *CompanyService) target(ctx context.Context, companyID, userID uint64) (*models.CompanyMember, error) {
	member, err := s.membership(ctx, companyID, userID)
	if errors.Is(err, ErrNotCompanyMember) {
		return nil, ErrMemberNotFound
	}
	return member, err
}

func (s *CompanyService) requireAdmin(ctx context.Context, companyID, userID uint64) error {
	member, err := s.membership(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if member.Role != models.RoleAdmin {
		return ErrNotCompanyAdmin
	}
	return nil
}
