package models

import "time"

type ProductionRecord struct {
	Record
	FieldID           uint64    `gorm:"not null;index" json:"field_id" binding:"required"`
	CropType          string    `gorm:"type:varchar(100);not null;index" json:"crop_type" binding:"required,nonblank"`
	HarvestDate       time.Time `gorm:"not null;index" json:"harvest_date" binding:"required"`
	QuantityHarvested float64   `gorm:"not null;default:0" json:"quantity_harvested" binding:"gte=0"`
	Unit              string    `gorm:"type:varchar(50)" json:"unit"`
	PricePerUnit      float64   `gorm:"not null;default:0" json:"price_per_unit" binding:"gte=0"`
	Quality           string    `gorm:"type:varchar(50)" json:"quality"`
}

func (p *ProductionRecord) TenantReferences() []Reference { return []Reference{fieldRef(p.FieldID)} }

// Revenue is the gross value of the harvest.
func (p ProductionRecord) Revenue() float64 { return p.QuantityHarvested * p.PricePerUnit }

func (ProductionRecord) ExportHeader() []string {
	return []string{"ID", "Field", "Crop", "Harvest date", "Quantity", "Unit", "Price per unit", "Revenue", "Quality"}
}

func (p ProductionRecord) ExportRow() []string {
	return []string{
		formatID(p.ID), formatID(p.FieldID), p.CropType, formatDate(p.HarvestDate),
		formatFloat(p.QuantityHarvested), p.Unit, formatFloat(p.PricePerUnit), formatFloat(p.Revenue()), p.Quality,
	}
}

type EconomicType string

const (
	EconomicIncome  EconomicType = "income"
	EconomicExpense EconomicType = "expense"
)

type EconomicRecord struct {
	Record
	FieldID     *uint64      `gorm:"index" json:"field_id"`
	Type        EconomicType `gorm:"type:varchar(20);not null;index" json:"type" binding:"required,oneof=income expense"`
	Category    string       `gorm:"type:varchar(100)" json:"category"`
	Amount      float64      `gorm:"not null;default:0" json:"amount" binding:"gte=0"`
	Date        time.Time    `gorm:"not null;index" json:"date" binding:"required"`
	Description string       `gorm:"type:text" json:"description"`
}

func (e *EconomicRecord) TenantReferences() []Reference { return optionalFieldRef(e.FieldID) }

func (EconomicRecord) ExportHeader() []string {
	return []string{"ID", "Field", "Type", "Category", "Amount", "Date", "Description"}
}

func (e EconomicRecord) ExportRow() []string {
	return []string{
		formatID(e.ID), formatOptionalID(e.FieldID), string(e.Type), e.Category,
		formatFloat(e.Amount), formatDate(e.Date), e.Description,
	}
}

type EnvironmentalRecord struct {
	Record
	FieldID         uint64    `gorm:"not null;index" json:"field_id" binding:"required"`
	Date            time.Time `gorm:"not null;index" json:"date" binding:"required"`
	WaterUsage      float64   `gorm:"not null;default:0" json:"water_usage" binding:"gte=0"`
	FertilizerUsage float64   `gorm:"not null;default:0" json:"fertilizer_usage" binding:"gte=0"`
	PesticideUsage  float64   `gorm:"not null;default:0" json:"pesticide_usage" binding:"gte=0"`
	SoilPH          *float64  `json:"soil_ph" binding:"omitempty,gte=0,lte=14"`
	Notes           string    `gorm:"type:text" json:"notes"`
}

func (e *EnvironmentalRecord) TenantReferences() []Reference { return []Reference{fieldRef(e.FieldID)} }

func (EnvironmentalRecord) ExportHeader() []string {
	return []string{"ID", "Field", "Date", "Water usage", "Fertilizer usage", "Pesticide usage", "Soil pH", "Notes"}
}

func (e EnvironmentalRecord) ExportRow() []string {
	return []string{
		formatID(e.ID), formatID(e.FieldID), formatDate(e.Date), formatFloat(e.WaterUsage),
		formatFloat(e.FertilizerUsage), formatFloat(e.PesticideUsage), formatOptionalFloat(e.SoilPH), e.Notes,
	}
}

type OperationalRecord struct {
	Record
	FieldID         uint64    `gorm:"not null;index" json:"field_id" binding:"required"`
	Date            time.Time `gorm:"not null;index" json:"date" binding:"required"`
	Activity        string    `gorm:"type:varchar(255);not null" json:"activity" binding:"required,nonblank"`
	HoursWorked     float64   `gorm:"not null;default:0" json:"hours_worked" binding:"gte=0"`
	MachineryUsed   string    `gorm:"type:varchar(255)" json:"machinery_used"`
	FuelConsumption float64   `gorm:"not null;default:0" json:"fuel_consumption" binding:"gte=0"`
	LaborCost       float64   `gorm:"not null;default:0" json:"labor_cost" binding:"gte=0"`
}

func (o *OperationalRecord) TenantReferences() []Reference { return []Reference{fieldRef(o.FieldID)} }

func (OperationalRecord) ExportHeader() []string {
	return []string{"ID", "Field", "Date", "Activity", "Hours", "Machinery", "Fuel", "Labor cost"}
}

func (o OperationalRecord) ExportRow() []string {
	return []string{
		formatID(o.ID), formatID(o.FieldID), formatDate(o.Date), o.Activity, formatFloat(o.HoursWorked),
		o.MachineryUsed, formatFloat(o.FuelConsumption), formatFloat(o.LaborCost),
	}
}
