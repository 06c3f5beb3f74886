package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/farm-management-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateCompany is returned when creating a company fails inside the registration transaction.
	ErrCreateCompany = errors.New("user repository: create company failed")
	// ErrCreateCompanyMember is returned when creating a membership fails inside the registration transaction.
	ErrCreateCompanyMember = errors.New("user repository: create company member failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// RegisterWithCompany creates a user, their company, and the admin membership atomically.
func (r *GormUserRepository) RegisterWithCompany(ctx context.Context, user *models.User, company *models.Company, member *models.CompanyMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		company.CreatedBy = user.ID
		if err := tx.Create(company).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateCompany, err)
		}

		member.CompanyID = company.ID
		member.UserID = user.ID
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateCompanyMember, err)
		}

		user.CurrentCompanyID = &company.ID
		return tx.Model(user).Update("current_company_id", company.ID).Error
	})
}

// RegisterWithInvitation consumes one use of code and creates the user and
// membership atomically. The use counter is incremented by a conditional
// UPDATE carrying the redeemability predicate, so a concurrent redemption of
// the last use fails here instead of overshooting max_uses.
func (r *GormUserRepository) RegisterWithInvitation(ctx context.Context, user *models.User, code *models.InvitationCode, now time.Time) (*models.CompanyMember, error) {
	var member *models.CompanyMember
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := redeemInvitation(tx, code.ID, now); err != nil {
			return err
		}

		user.Role = code.Role
		user.CurrentCompanyID = &code.CompanyID
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		member = &models.CompanyMember{
			CompanyID:   code.CompanyID,
			UserID:      user.ID,
			Role:        code.Role,
			Permissions: code.Permissions,
			JoinedAt:    now,
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateCompanyMember, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	code.CurrentUses++
	return member, nil
}

func redeemInvitation(tx *gorm.DB, codeID uint64, now time.Time) error {
	result := tx.Model(&models.InvitationCode{}).
		Where("id = ? AND is_active = ? AND current_uses < max_uses AND (expires_at IS NULL OR expires_at > ?)", codeID, true, now).
		UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
	if result.Error != nil {
		return fmt.Errorf("redeem invitation code: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	// Lost the race or the code changed since validation; report why.
	var current models.InvitationCode
	if err := tx.First(&current, codeID).Error; err != nil {
		return err
	}
	if err := current.Redeemable(now); err != nil {
		return err
	}
	return models.ErrInvitationExhausted
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) UpdateLastLogin(ctx context.Context, userID uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login", at).Error
}

func (r *GormUserRepository) SetCurrentCompany(ctx context.Context, userID uint64, companyID *uint64) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("current_company_id", companyID).Error
}
