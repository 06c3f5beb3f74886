package models

import "time"

type WeatherRecord struct {
	Record
	FieldID       *uint64   `gorm:"index" json:"field_id"`
	Location      string    `gorm:"type:varchar(255)" json:"location"`
	RecordedAt    time.Time `gorm:"not null;index" json:"recorded_at" binding:"required"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity" binding:"gte=0,lte=100"`
	Precipitation float64   `json:"precipitation" binding:"gte=0"`
	WindSpeed     float64   `json:"wind_speed" binding:"gte=0"`
	Conditions    string    `gorm:"type:varchar(100)" json:"conditions"`
}

func (WeatherRecord) TableName() string { return "weather" }

func (w *WeatherRecord) TenantReferences() []Reference { return optionalFieldRef(w.FieldID) }

func (WeatherRecord) ExportHeader() []string {
	return []string{"ID", "Field", "Location", "Recorded at", "Temperature", "Humidity", "Precipitation", "Wind speed", "Conditions"}
}

func (w WeatherRecord) ExportRow() []string {
	return []string{
		formatID(w.ID), formatOptionalID(w.FieldID), w.Location, w.RecordedAt.Format(time.RFC3339),
		formatFloat(w.Temperature), formatFloat(w.Humidity), formatFloat(w.Precipitation),
		formatFloat(w.WindSpeed), w.Conditions,
	}
}
