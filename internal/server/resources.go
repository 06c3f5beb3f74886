package server

import "github.com/yukikurage/farm-management-api/internal/handlers"

var fieldFilter = handlers.QueryFilter{Param: "field_id", Column: "field_id", Numeric: true}

var (
	Fields = handlers.Resource{
		Path: "fields",
		Key:  "fields",
		Filters: []handlers.QueryFilter{
			{Param: "status", Column: "status"},
			{Param: "crop_type", Column: "crop_type"},
		},
		OrderBy: "name ASC",
	}

	FieldActivities = handlers.Resource{
		Path: "field-activities",
		Key:  "field_activities",
		Filters: []handlers.QueryFilter{
			fieldFilter,
			{Param: "activity_type", Column: "activity_type"},
		},
		DateColumn: "date",
		OrderBy:    "date DESC",
	}

	Inventory = handlers.Resource{
		Path: "inventory",
		Key:  "inventory",
		Filters: []handlers.QueryFilter{
			{Param: "category", Column: "category"},
		},
		OrderBy: "name ASC",
	}

	InventoryTransactions = handlers.Resource{
		Path: "inventory-transactions",
		Key:  "inventory_transactions",
		Filters: []handlers.QueryFilter{
			{Param: "inventory_id", Column: "inventory_id", Numeric: true},
			{Param: "type", Column: "type"},
		},
		DateColumn: "date",
		OrderBy:    "date DESC",
	}

	Tasks = handlers.Resource{
		Path: "tasks",
		Key:  "tasks",
		Filters: []handlers.QueryFilter{
			{Param: "status", Column: "status"},
			{Param: "priority", Column: "priority"},
			fieldFilter,
			{Param: "assigned_to", Column: "assigned_to", Numeric: true},
		},
		DateColumn: "due_date",
		OrderBy:    "created_at DESC",
	}

	Weather = handlers.Resource{
		Path:       "weather",
		Key:        "weather",
		Filters:    []handlers.QueryFilter{fieldFilter},
		DateColumn: "recorded_at",
		OrderBy:    "recorded_at DESC",
	}

	ProductionRecords = handlers.Resource{
		Path: "production-records",
		Key:  "production_records",
		Filters: []handlers.QueryFilter{
			fieldFilter,
			{Param: "crop_type", Column: "crop_type"},
		},
		DateColumn: "harvest_date",
		OrderBy:    "harvest_date DESC",
	}

	EconomicRecords = handlers.Resource{
		Path: "economic-records",
		Key:  "economic_records",
		Filters: []handlers.QueryFilter{
			fieldFilter,
			{Param: "type", Column: "type"},
			{Param: "category", Column: "category"},
		},
		DateColumn: "date",
		OrderBy:    "date DESC",
	}

	EnvironmentalRecords = handlers.Resource{
		Path:       "environmental-records",
		Key:        "environmental_records",
		Filters:    []handlers.QueryFilter{fieldFilter},
		DateColumn: "date",
		OrderBy:    "date DESC",
	}

	OperationalRecords = handlers.Resource{
		Path:       "operational-records",
		Key:        "operational_records",
		Filters:    []handlers.QueryFilter{fieldFilter},
		DateColumn: "date",
		OrderBy:    "date DESC",
	}
)
