package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// tenant lists and dashboard range filters both lead with company_id.
var compositeIndexes = []index{
	{"tasks", "idx_tasks_company_status", "company_id, status"},
	{"tasks", "idx_tasks_company_due_date", "company_id, due_date"},
	{"fields", "idx_fields_company_name", "company_id, name"},
	{"weather", "idx_weather_company_recorded_at", "company_id, recorded_at"},
	{"field_activities", "idx_field_activities_company_date", "company_id, date"},
	{"inventory_transactions", "idx_inventory_transactions_company_date", "company_id, date"},
	{"production_records", "idx_production_records_company_harvest_date", "company_id, harvest_date"},
	{"economic_records", "idx_economic_records_company_date", "company_id, date"},
	{"environmental_records", "idx_environmental_records_company_date", "company_id, date"},
	{"operational_records", "idx_operational_records_company_date", "company_id, date"},
	{"company_members", "idx_company_members_user_id", "user_id"},
	{"invitation_codes", "idx_invitation_codes_company_active", "company_id, is_active"},
}

// AddIndexes adds the composite indexes AutoMigrate cannot express through tags.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()
	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}
	return nil
}
