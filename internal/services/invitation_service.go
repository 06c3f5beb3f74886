package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/farm-management-api/internal/constants"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"github.com/yukikurage/farm-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvitationNotFound         = errors.New("invitation code not found")
	ErrInvalidInvitationRole      = errors.New("invalid role for invitation code")
	ErrInvalidInvitationMaxUses   = errors.New("max uses out of range")
	ErrInvalidInvitationExpiry    = errors.New("expiry must be in the future")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
)

// InvitationService manages the invitation codes of a company.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	now            func() time.Time
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(invitationRepo repository.InvitationRepository) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		now:            time.Now,
	}
}

// CreateInvitationInput describes a new code. Permissions default to the
// role defaults, MaxUses to one. ExpiresInHours wins over ExpiresAt.
type CreateInvitationInput struct {
	// CreatorRole is the role of the member issuing the code. Only admins may
	// issue admin codes.
	CreatorRole    models.Role
	Role           models.Role
	Permissions    *models.Permissions
	MaxUses        int
	ExpiresInHours *int
	ExpiresAt      *time.Time
}

func (s *InvitationService) List(ctx context.Context, companyID uint64) ([]models.InvitationCode, error) {
	codes, err := s.invitationRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitation codes: %w", err)
	}
	return codes, nil
}

// Create issues a new code for companyID.
func (s *InvitationService) Create(ctx context.Context, companyID, creatorID uint64, input CreateInvitationInput) (*models.InvitationCode, error) {
	if input.Role == "" {
		input.Role = models.RoleWorker
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidInvitationRole
	}
	if input.Role == models.RoleAdmin && input.CreatorRole != models.RoleAdmin {
		return nil, ErrNotCompanyAdmin
	}
	if input.MaxUses == 0 {
		input.MaxUses = constants.DefaultInvitationMaxUses
	}
	if input.MaxUses < 1 || input.MaxUses > constants.MaxInvitationMaxUses {
		return nil, ErrInvalidInvitationMaxUses
	}

	now := s.now()
	expiresAt := input.ExpiresAt
	if input.ExpiresInHours != nil {
		if *input.ExpiresInHours < 1 || *input.ExpiresInHours > constants.MaxInvitationExpiryHours {
			return nil, ErrInvalidInvitationExpiry
		}
		t := now.Add(time.Duration(*input.ExpiresInHours) * time.Hour)
		expiresAt = &t
	}
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, ErrInvalidInvitationExpiry
	}

	permissions := input.Role.DefaultPermissions()
	if input.Permissions != nil {
		permissions = *input.Permissions
	}

	codeStr, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	code := &models.InvitationCode{
		Code:        codeStr,
		CompanyID:   companyID,
		Role:        input.Role,
		Permissions: permissions,
		MaxUses:     input.MaxUses,
		ExpiresAt:   expiresAt,
		IsActive:    true,
		CreatedBy:   creatorID,
	}
	if err := s.invitationRepo.Create(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to create invitation code: %w", err)
	}
	return code, nil
}

// Deactivate stops a code of companyID from being redeemed.
func (s *InvitationService) Deactivate(ctx context.Context, companyID, id uint64) (*models.InvitationCode, error) {
	code, err := s.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.invitationRepo.Deactivate(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to deactivate invitation code: %w", err)
	}
	code.IsActive = false
	return code, nil
}

// Delete removes a code of companyID.
func (s *InvitationService) Delete(ctx context.Context, companyID, id uint64) error {
	if _, err := s.find(ctx, companyID, id); err != nil {
		return err
	}
	if err := s.invitationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invitation code: %w", err)
	}
	return nil
}

// InvitationPreview is what an anonymous visitor may learn about a code.
type InvitationPreview struct {
	CompanyName   string
	Role          models.Role
	Permissions   models.Permissions
	Status        models.InvitationStatus
	ExpiresAt     *time.Time
	RemainingUses int
}

// Validate looks a code up without redeeming it.
func (s *InvitationService) Validate(ctx context.Context, raw string) (*InvitationPreview, error) {
	codeStr := utils.NormalizeInviteCode(raw)
	if codeStr == "" {
		return nil, ErrInvitationCodeRequired
	}
	code, err := s.invitationRepo.FindByCode(ctx, codeStr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInvitationCode
		}
		return nil, fmt.Errorf("failed to find invitation code: %w", err)
	}
	return &InvitationPreview{
		CompanyName:   code.Company.Name,
		Role:          code.Role,
		Permissions:   code.Permissions,
		Status:        code.Status(s.now()),
		ExpiresAt:     code.ExpiresAt,
		RemainingUses: code.RemainingUses(),
	}, nil
}

// SweepStale deactivates codes that expired or ran out of uses.
func (s *InvitationService) SweepStale(ctx context.Context) (int64, error) {
	n, err := s.invitationRepo.DeactivateStale(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate stale invitation codes: %w", err)
	}
	return n, nil
}

func (s *InvitationService) find(ctx context.Context, companyID, id uint64) (*models.InvitationCode, error) {
	code, err := s.invitationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation code: %w", err)
	}
	if code.CompanyID != companyID {
		return nil, ErrCrossTenant
	}
	return code, nil
}
