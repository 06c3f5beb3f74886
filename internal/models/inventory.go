package models

import "time"

type Inventory struct {
	Record
	Name        string     `gorm:"type:varchar(255);not null" json:"name" binding:"required,nonblank"`
	Category    string     `gorm:"type:varchar(100);index" json:"category"`
	Quantity    float64    `gorm:"not null;default:0" json:"quantity" binding:"gte=0"`
	Unit        string     `gorm:"type:varchar(50)" json:"unit"`
	MinQuantity float64    `gorm:"not null;default:0" json:"min_quantity" binding:"gte=0"`
	UnitPrice   float64    `gorm:"not null;default:0" json:"unit_price" binding:"gte=0"`
	Location    string     `gorm:"type:varchar(255)" json:"location"`
	Supplier    string     `gorm:"type:varchar(255)" json:"supplier"`
	ExpiryDate  *time.Time `json:"expiry_date"`
}

func (Inventory) TableName() string { return "inventory" }

// LowStock reports whether the item is at or below its reorder threshold.
func (i Inventory) LowStock() bool {
	return i.MinQuantity > 0 && i.Quantity <= i.MinQuantity
}

func (i *Inventory) TenantReferences() []Reference { return nil }

func (Inventory) ExportHeader() []string {
	return []string{"ID", "Name", "Category", "Quantity", "Unit", "Min quantity", "Unit price", "Location", "Supplier", "Expiry"}
}

func (i Inventory) ExportRow() []string {
	return []string{
		formatID(i.ID), i.Name, i.Category, formatFloat(i.Quantity), i.Unit, formatFloat(i.MinQuantity),
		formatFloat(i.UnitPrice), i.Location, i.Supplier, formatOptionalDate(i.ExpiryDate),
	}
}

type TransactionType string

const (
	TransactionIn         TransactionType = "in"
	TransactionOut        TransactionType = "out"
	TransactionAdjustment TransactionType = "adjustment"
)

type InventoryTransaction struct {
	Record
	InventoryID uint64          `gorm:"not null;index" json:"inventory_id" binding:"required"`
	Type        TransactionType `gorm:"type:varchar(20);not null" json:"type" binding:"required,oneof=in out adjustment"`
	Quantity    float64         `gorm:"not null" json:"quantity" binding:"gte=0"`
	Date        time.Time       `gorm:"not null;index" json:"date" binding:"required"`
	Notes       string          `gorm:"type:text" json:"notes"`

	// Relations
	Inventory *Inventory `gorm:"foreignKey:InventoryID" json:"-"`
}

func (t *InventoryTransaction) TenantReferences() []Reference {
	return []Reference{{Name: "inventory_id", Model: &Inventory{}, Column: "id", ID: t.InventoryID}}
}

func (InventoryTransaction) ExportHeader() []string {
	return []string{"ID", "Inventory", "Type", "Quantity", "Date", "Notes"}
}

func (t InventoryTransaction) ExportRow() []string {
	return []string{formatID(t.ID), formatID(t.InventoryID), string(t.Type), formatFloat(t.Quantity), formatDate(t.Date), t.Notes}
}
