package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/farm-management-api/internal/database"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCrossTenant is returned when a record exists but belongs to another company.
	ErrCrossTenant = errors.New("record belongs to another company")
	// ErrForeignReference is returned when a record references a row outside its company.
	ErrForeignReference = errors.New("referenced record does not exist in this company")
)

// ReferenceError names the foreign key that failed to resolve. It matches
// ErrForeignReference under errors.Is.
type ReferenceError struct {
	Name string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrForeignReference, e.Name)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrForeignReference
}

// OwnerColumn is the column every tenant-owned table is scoped by.
const OwnerColumn = "company_id"

// Owned is satisfied by pointers to models embedding models.Record.
type Owned[T any] interface {
	*T
	Base() *models.Record
	AssignOwner(companyID uint64)
	Pin(existing models.Record)
	TenantReferences() []models.Reference
}

// ListFilter narrows a tenant-scoped list. Equals keys are column names and
// must never come from client input.
type ListFilter struct {
	Equals     map[string]interface{}
	DateColumn string
	From       *time.Time
	To         *time.Time
	Scopes     []func(*gorm.DB) *gorm.DB
	OrderBy    string
	Page       int
	PageSize   int
}

// ScopedRepository gives CRUD access to one tenant-owned model. The owner
// predicate is applied to every list, injected on every create and compared on
// every by-id access, so callers cannot forget it.
type ScopedRepository[T any, PT Owned[T]] struct {
	db     *gorm.DB
	column string
}

// NewScopedRepository creates a repository scoped by OwnerColumn
func NewScopedRepository[T any, PT Owned[T]](db *gorm.DB) *ScopedRepository[T, PT] {
	return &ScopedRepository[T, PT]{db: db, column: OwnerColumn}
}

// List retrieves the records of companyID matching filter, with the total count
func (r *ScopedRepository[T, PT]) List(ctx context.Context, companyID uint64, filter ListFilter) ([]T, int64, error) {
	query := r.db.WithContext(ctx).Model(PT(new(T))).
		Scopes(database.OwnedBy(r.column, companyID))

	for column, value := range filter.Equals {
		query = query.Where(column+" = ?", value)
	}
	if filter.DateColumn != "" {
		query = query.Scopes(database.DateRange(filter.DateColumn, filter.From, filter.To))
	}
	query = query.Scopes(filter.Scopes...)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if filter.OrderBy != "" {
		listQuery = listQuery.Order(filter.OrderBy)
	} else {
		listQuery = listQuery.Order("id DESC")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	records := make([]T, 0)
	if err := listQuery.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindByID returns gorm.ErrRecordNotFound for a missing record and
// ErrCrossTenant for a record owned by another company.
func (r *ScopedRepository[T, PT]) FindByID(ctx context.Context, companyID, id uint64) (PT, error) {
	record := PT(new(T))
	if err := r.db.WithContext(ctx).First(record, id).Error; err != nil {
		return nil, err
	}
	if record.Base().CompanyID != companyID {
		return nil, ErrCrossTenant
	}
	return record, nil
}

// Create inserts record into companyID, overriding any client supplied owner
func (r *ScopedRepository[T, PT]) Create(ctx context.Context, companyID uint64, record PT) error {
	record.AssignOwner(companyID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, companyID, record.TenantReferences()); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(record).Error
	})
}

// Update writes every column of record. The owner predicate is part of the
// UPDATE so a record can never be written outside companyID.
func (r *ScopedRepository[T, PT]) Update(ctx context.Context, companyID uint64, record PT) error {
	if record.Base().CompanyID != companyID {
		return ErrCrossTenant
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, companyID, record.TenantReferences()); err != nil {
			return err
		}
		return tx.Model(record).
			Scopes(database.OwnedBy(r.column, companyID)).
			Select("*").
			Omit("created_at", clause.Associations).
			Updates(record).Error
	})
}

// Delete soft deletes a record of companyID
func (r *ScopedRepository[T, PT]) Delete(ctx context.Context, companyID, id uint64) error {
	if _, err := r.FindByID(ctx, companyID, id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Scopes(database.OwnedBy(r.column, companyID)).
		Delete(PT(new(T)), id).Error
}

func checkReferences(tx *gorm.DB, companyID uint64, refs []models.Reference) error {
	for _, ref := range refs {
		var count int64
		if err := tx.Model(ref.Model).
			Where(ref.Column+" = ?", ref.ID).
			Scopes(database.OwnedBy(OwnerColumn, companyID)).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &ReferenceError{Name: ref.Name}
		}
	}
	return nil
}
