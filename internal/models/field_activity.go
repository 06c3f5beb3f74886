package models

import "time"

type FieldActivity struct {
	Record
	FieldID      uint64    `gorm:"not null;index" json:"field_id" binding:"required"`
	ActivityType string    `gorm:"type:varchar(100);not null" json:"activity_type" binding:"required,nonblank"`
	Date         time.Time `gorm:"not null;index" json:"date" binding:"required"`
	Description  string    `gorm:"type:text" json:"description"`
	Cost         float64   `gorm:"not null;default:0" json:"cost" binding:"gte=0"`
	PerformedBy  string    `gorm:"type:varchar(255)" json:"performed_by"`
}

func (a *FieldActivity) TenantReferences() []Reference { return []Reference{fieldRef(a.FieldID)} }

func (FieldActivity) ExportHeader() []string {
	return []string{"ID", "Field", "Activity", "Date", "Cost", "Performed by", "Description"}
}

func (a FieldActivity) ExportRow() []string {
	return []string{
		formatID(a.ID), formatID(a.FieldID), a.ActivityType, formatDate(a.Date),
		formatFloat(a.Cost), a.PerformedBy, a.Description,
	}
}
