package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OwnedBy restricts a query to rows whose owner column equals companyID.
func OwnedBy(column string, companyID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", companyID)
	}
}

// DateRange restricts column to [from, to]. Nil bounds are open.
func DateRange(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", *from)
		}
		if to != nil {
			db = db.Where(column+" <= ?", *to)
		}
		return db
	}
}

// InFieldsWithCrop restricts field_id to the fields of companyID growing cropType.
func InFieldsWithCrop(companyID uint64, cropType string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		fields := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Field{}).
			Select("id").
			Where("company_id = ? AND crop_type = ?", companyID, cropType)
		return db.Where("field_id IN (?)", fields)
	}
}
