package repository

import (
	"context"

	"github.com/yukikurage/farm-management-api/internal/models"
	"gorm.io/gorm"
)

// GormCompanyRepository is a GORM implementation of CompanyRepository
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &GormCompanyRepository{db: db}
}

// ownedModels are deleted together with their company.
var ownedModels = []interface{}{
	&models.InventoryTransaction{},
	&models.FieldActivity{},
	&models.ProductionRecord{},
	&models.EconomicRecord{},
	&models.EnvironmentalRecord{},
	&models.OperationalRecord{},
	&models.WeatherRecord{},
	&models.Task{},
	&models.Inventory{},
	&models.Field{},
	&models.InvitationCode{},
}

// Create creates a company and its founding membership in a transaction
func (r *GormCompanyRepository) Create(ctx context.Context, company *models.Company, member *models.CompanyMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}
		member.CompanyID = company.ID
		return tx.Create(member).Error
	})
}

// FindByID finds a company by ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uint64) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Update updates a company
func (r *GormCompanyRepository) Update(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Omit("Members").Save(company).Error
}

// Delete deletes a company and all related data in a transaction
func (r *GormCompanyRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range ownedModels {
			if err := tx.Where("company_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.User{}).
			Where("current_company_id = ?", id).
			Update("current_company_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("company_id = ?", id).Delete(&models.CompanyMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Company{}, id).Error
	})
}

// FindMember finds a specific company member
func (r *GormCompanyRepository) FindMember(ctx context.Context, companyID, userID uint64) (*models.CompanyMember, error) {
	var member models.CompanyMember
	if err := r.db.WithContext(ctx).Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMember updates the role and permissions of a member
func (r *GormCompanyRepository) UpdateMember(ctx context.Context, member *models.CompanyMember) error {
	return r.db.WithContext(ctx).Model(&models.CompanyMember{}).
		Where("company_id = ? AND user_id = ?", member.CompanyID, member.UserID).
		Updates(map[string]interface{}{
			"role":        member.Role,
			"permissions": member.Permissions,
		}).Error
}

// RemoveMember removes a member from a company
func (r *GormCompanyRepository) RemoveMember(ctx context.Context, companyID, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("company_id = ? AND user_id = ?", companyID, userID).
			Delete(&models.CompanyMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.User{}).
			Where("id = ? AND current_company_id = ?", userID, companyID).
			Update("current_company_id", nil).Error
	})
}

// ListMembersByUserID lists all companies a user is a member of
func (r *GormCompanyRepository) ListMembersByUserID(ctx context.Context, userID uint64) ([]models.CompanyMember, error) {
	var memberships []models.CompanyMember
	if err := r.db.WithContext(ctx).Preload("Company").
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of a company
func (r *GormCompanyRepository) ListMembers(ctx context.Context, companyID uint64) ([]models.CompanyMember, error) {
	var members []models.CompanyMember
	if err := r.db.WithContext(ctx).Preload("User").
		Where("company_id = ?", companyID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
