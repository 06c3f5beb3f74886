package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/farm-management-api/internal/models"
)

func TestSummarize_Example(t *testing.T) {
	s := Summarize(
		[]models.ProductionRecord{{QuantityHarvested: 10, PricePerUnit: 5}},
		[]models.EconomicRecord{{Type: models.EconomicExpense, Amount: 20}},
		nil,
		nil,
	)

	assert.Equal(t, 50.0, s.Revenue)
	assert.Equal(t, 20.0, s.Costs)
	assert.Equal(t, 30.0, s.Profit)
	assert.InDelta(t, 60.0, s.Margin, 1e-9)
}

func TestSummarize_ZeroRevenue(t *testing.T) {
	s := Summarize(
		[]models.ProductionRecord{{QuantityHarvested: 10, PricePerUnit: 0}},
		[]models.EconomicRecord{{Type: models.EconomicExpense, Amount: 20}},
		nil,
		nil,
	)

	assert.Zero(t, s.Revenue)
	assert.Equal(t, -20.0, s.Profit)
	assert.Zero(t, s.Margin)
	assert.Zero(t, s.WaterEfficiency)
	assert.Zero(t, s.AvgWaterUsage)
}

func TestSummarize_ProfitIdentity(t *testing.T) {
	production := []models.ProductionRecord{
		{CropType: "wheat", QuantityHarvested: 12.5, PricePerUnit: 3.2},
		{CropType: "corn", QuantityHarvested: 7, PricePerUnit: 11},
		{CropType: "wheat", QuantityHarvested: 1, PricePerUnit: 0.75},
	}
	economic := []models.EconomicRecord{
		{Type: models.EconomicExpense, Amount: 13.3},
		{Type: models.EconomicIncome, Amount: 100},
		{Type: models.EconomicExpense, Amount: 7.1},
	}

	s := Summarize(production, economic, nil, nil)

	assert.InDelta(t, 12.5*3.2+7*11+0.75, s.Revenue, 1e-9)
	assert.InDelta(t, 20.4, s.Costs, 1e-9)
	assert.Equal(t, 100.0, s.OtherIncome)
	assert.InDelta(t, s.Revenue-s.Costs, s.Profit, 1e-9)
	assert.InDelta(t, s.Profit/s.Revenue*100, s.Margin, 1e-9)

	assert.Equal(t, []CropSummary{
		{CropType: "corn", Harvested: 7, Revenue: 77, Records: 1},
		{CropType: "wheat", Harvested: 13.5, Revenue: 12.5*3.2 + 0.75, Records: 2},
	}, s.Crops)
}

func TestSummarize_EnvironmentalAndOperational(t *testing.T) {
	s := Summarize(
		[]models.ProductionRecord{{QuantityHarvested: 30}},
		nil,
		[]models.EnvironmentalRecord{
			{WaterUsage: 10, FertilizerUsage: 2},
			{WaterUsage: 20, PesticideUsage: 1.5},
		},
		[]models.OperationalRecord{
			{HoursWorked: 8, FuelConsumption: 12, LaborCost: 120},
			{HoursWorked: 4, LaborCost: 60},
		},
	)

	assert.Equal(t, 30.0, s.TotalWaterUsage)
	assert.Equal(t, 15.0, s.AvgWaterUsage)
	assert.Equal(t, 1.0, s.WaterEfficiency)
	assert.Equal(t, 2.0, s.TotalFertilizer)
	assert.Equal(t, 1.5, s.TotalPesticide)
	assert.Equal(t, 12.0, s.TotalHoursWorked)
	assert.Equal(t, 12.0, s.TotalFuel)
	assert.Equal(t, 180.0, s.TotalLaborCost)
	assert.Equal(t, RecordCounts{Production: 1, Environmental: 2, Operational: 2}, s.Counts)
}

func TestFilter_CacheKey(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	field := uint64(7)

	assert.Equal(t, "dashboard", Filter{}.CacheKey())
	assert.Equal(t, "dashboard:from=2024-01-01T00:00:00Z:field=7:crop=Wheat",
		Filter{From: &from, FieldID: &field, CropType: "Wheat"}.CacheKey())
	assert.NotEqual(t, Filter{CropType: "Wheat"}.CacheKey(), Filter{CropType: "wheat"}.CacheKey())
}
