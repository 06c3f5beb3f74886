package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Record is embedded by every tenant-owned model.
type Record struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	CompanyID uint64         `gorm:"not null;index" json:"company_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Base exposes the embedded record to generic code.
func (r *Record) Base() *Record { return r }

// AssignOwner prepares a new record for insertion into companyID.
func (r *Record) AssignOwner(companyID uint64) {
	r.ID = 0
	r.CompanyID = companyID
	r.DeletedAt = gorm.DeletedAt{}
}

// Pin restores the identity columns of existing after a client payload was
// decoded over it, so an update can never move or re-key a record.
func (r *Record) Pin(existing Record) {
	r.ID = existing.ID
	r.CompanyID = existing.CompanyID
	r.CreatedAt = existing.CreatedAt
	r.DeletedAt = gorm.DeletedAt{}
}

// Reference is a foreign key held by a record that must resolve inside the
// record's own company.
type Reference struct {
	Name   string
	Model  interface{}
	Column string
	ID     uint64
}

func fieldRef(id uint64) Reference {
	return Reference{Name: "field_id", Model: &Field{}, Column: "id", ID: id}
}

func optionalFieldRef(id *uint64) []Reference {
	if id == nil {
		return nil
	}
	return []Reference{fieldRef(*id)}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func formatOptionalID(id *uint64) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}
