// Package analytics computes the dashboard figures of a company from its
// already tenant-scoped production, economic, environmental and operational
// records.
package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/farm-management-api/internal/models"
)

// Filter narrows the record sets a dashboard is computed over.
type Filter struct {
	From     *time.Time
	To       *time.Time
	FieldID  *uint64
	CropType string
}

// CacheKey identifies the filter inside one company's cache namespace. Crop
// matching is case sensitive, so the crop goes into the key verbatim.
func (f Filter) CacheKey() string {
	parts := []string{"dashboard"}
	if f.From != nil {
		parts = append(parts, "from="+f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		parts = append(parts, "to="+f.To.UTC().Format(time.RFC3339))
	}
	if f.FieldID != nil {
		parts = append(parts, fmt.Sprintf("field=%d", *f.FieldID))
	}
	if f.CropType != "" {
		parts = append(parts, "crop="+f.CropType)
	}
	return strings.Join(parts, ":")
}

type CropSummary struct {
	CropType  string  `json:"crop_type"`
	Harvested float64 `json:"harvested"`
	Revenue   float64 `json:"revenue"`
	Records   int     `json:"records"`
}

type RecordCounts struct {
	Production    int `json:"production"`
	Economic      int `json:"economic"`
	Environmental int `json:"environmental"`
	Operational   int `json:"operational"`
}

type Summary struct {
	TotalHarvested float64 `json:"total_harvested"`
	Revenue        float64 `json:"revenue"`
	Costs          float64 `json:"costs"`
	OtherIncome    float64 `json:"other_income"`
	Profit         float64 `json:"profit"`
	// Margin is a percentage of revenue.
	Margin float64 `json:"margin"`

	TotalWaterUsage  float64 `json:"total_water_usage"`
	AvgWaterUsage    float64 `json:"avg_water_usage"`
	WaterEfficiency  float64 `json:"water_efficiency"`
	TotalFertilizer  float64 `json:"total_fertilizer_usage"`
	TotalPesticide   float64 `json:"total_pesticide_usage"`
	TotalHoursWorked float64 `json:"total_hours_worked"`
	TotalFuel        float64 `json:"total_fuel_consumption"`
	TotalLaborCost   float64 `json:"total_labor_cost"`

	Crops  []CropSummary `json:"crops"`
	Counts RecordCounts  `json:"counts"`
}

// Summarize reduces the four record families into a Summary. Ratios whose
// denominator is zero are reported as 0.
func Summarize(
	production []models.ProductionRecord,
	economic []models.EconomicRecord,
	environmental []models.EnvironmentalRecord,
	operational []models.OperationalRecord,
) Summary {
	s := Summary{
		Crops: make([]CropSummary, 0),
		Counts: RecordCounts{
			Production:    len(production),
			Economic:      len(economic),
			Environmental: len(environmental),
			Operational:   len(operational),
		},
	}

	crops := make(map[string]*CropSummary)
	for _, p := range production {
		revenue := p.Revenue()
		s.TotalHarvested += p.QuantityHarvested
		s.Revenue += revenue

		crop, ok := crops[p.CropType]
		if !ok {
			crop = &CropSummary{CropType: p.CropType}
			crops[p.CropType] = crop
		}
		crop.Harvested += p.QuantityHarvested
		crop.Revenue += revenue
		crop.Records++
	}
	for _, crop := range crops {
		s.Crops = append(s.Crops, *crop)
	}
	sort.Slice(s.Crops, func(i, j int) bool { return s.Crops[i].CropType < s.Crops[j].CropType })

	for _, e := range economic {
		switch e.Type {
		case models.EconomicExpense:
			s.Costs += e.Amount
		case models.EconomicIncome:
			s.OtherIncome += e.Amount
		}
	}
	s.Profit = s.Revenue - s.Costs
	if s.Revenue != 0 {
		s.Margin = s.Profit * 100 / s.Revenue
	}

	for _, e := range environmental {
		s.TotalWaterUsage += e.WaterUsage
		s.TotalFertilizer += e.FertilizerUsage
		s.TotalPesticide += e.PesticideUsage
	}
	if len(environmental) > 0 {
		s.AvgWaterUsage = s.TotalWaterUsage / float64(len(environmental))
	}
	if s.TotalWaterUsage != 0 {
		s.WaterEfficiency = s.TotalHarvested / s.TotalWaterUsage
	}

	for _, o := range operational {
		s.TotalHoursWorked += o.HoursWorked
		s.TotalFuel += o.FuelConsumption
		s.TotalLaborCost += o.LaborCost
	}

	return s
}
