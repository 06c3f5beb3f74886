package repository

import (
	"context"
	"time"

	"github.com/yukikurage/farm-management-api/internal/models"
	"gorm.io/gorm"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

func (r *GormInvitationRepository) Create(ctx context.Context, code *models.InvitationCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *GormInvitationRepository) FindByID(ctx context.Context, id uint64) (*models.InvitationCode, error) {
	var code models.InvitationCode
	if err := r.db.WithContext(ctx).First(&code, id).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

// FindByCode finds an invitation code and its company by code string
func (r *GormInvitationRepository) FindByCode(ctx context.Context, code string) (*models.InvitationCode, error) {
	var invitation models.InvitationCode
	if err := r.db.WithContext(ctx).Preload("Company").
		Where("code = ?", code).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *GormInvitationRepository) ListByCompany(ctx context.Context, companyID uint64) ([]models.InvitationCode, error) {
	var codes []models.InvitationCode
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *GormInvitationRepository) Deactivate(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(&models.InvitationCode{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *GormInvitationRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.InvitationCode{}, id).Error
}

// DeactivateStale flips is_active on codes that can no longer be redeemed
func (r *GormInvitationRepository) DeactivateStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.InvitationCode{}).
		Where("is_active = ?", true).
		Where("current_uses >= max_uses OR (expires_at IS NOT NULL AND expires_at <= ?)", now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
