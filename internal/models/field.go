package models

import "gorm.io/gorm"

type FieldStatus string

const (
	FieldStatusActive    FieldStatus = "active"
	FieldStatusFallow    FieldStatus = "fallow"
	FieldStatusPlanted   FieldStatus = "planted"
	FieldStatusHarvested FieldStatus = "harvested"
)

type Field struct {
	Record
	Name               string      `gorm:"type:varchar(255);not null" json:"name" binding:"required,nonblank"`
	Area               float64     `gorm:"not null;default:0" json:"area" binding:"gte=0"`
	CropType           string      `gorm:"type:varchar(100);index" json:"crop_type"`
	SoilType           string      `gorm:"type:varchar(100)" json:"soil_type"`
	Status             FieldStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status" binding:"omitempty,oneof=active fallow planted harvested"`
	Latitude           *float64    `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude          *float64    `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	CadastralReference string      `gorm:"type:varchar(100)" json:"cadastral_reference"`
	Boundary           string      `gorm:"type:text" json:"boundary"`
	Notes              string      `gorm:"type:text" json:"notes"`
}

func (f *Field) BeforeSave(tx *gorm.DB) error {
	if f.Status == "" {
		f.Status = FieldStatusActive
	}
	return nil
}

func (f *Field) TenantReferences() []Reference { return nil }

func (Field) ExportHeader() []string {
	return []string{"ID", "Name", "Area (ha)", "Crop", "Soil", "Status", "Latitude", "Longitude", "Cadastral reference"}
}

func (f Field) ExportRow() []string {
	return []string{
		formatID(f.ID), f.Name, formatFloat(f.Area), f.CropType, f.SoilType, string(f.Status),
		formatOptionalFloat(f.Latitude), formatOptionalFloat(f.Longitude), f.CadastralReference,
	}
}
