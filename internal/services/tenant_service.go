package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"gorm.io/gorm"
)

// TenantService resolves the active company of a user.
type TenantService struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
}

func NewTenantService(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) *TenantService {
	return &TenantService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
	}
}

// ResolveMembership returns the membership of userID in their current
// company. A user without a current company gets ErrNoCompany, a user whose
// membership was revoked gets ErrNotCompanyMember.
func (s *TenantService) ResolveMembership(ctx context.Context, userID uint64) (*models.CompanyMember, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.CurrentCompanyID == nil {
		return nil, ErrNoCompany
	}

	member, err := s.companyRepo.FindMember(ctx, *user.CurrentCompanyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCompanyMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return member, nil
}
