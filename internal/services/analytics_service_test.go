package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/farm-management-api/internal/analytics"
	"github.com/yukikurage/farm-management-api/internal/cache"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type analyticsFixture struct {
	svc        *AnalyticsService
	fields     *RecordService[models.Field, *models.Field]
	production *RecordService[models.ProductionRecord, *models.ProductionRecord]
	economic   *RecordService[models.EconomicRecord, *models.EconomicRecord]
	redis      *miniredis.Miniredis
}

func setupAnalytics(t *testing.T, db *gorm.DB) analyticsFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repos := AnalyticsRepositories{
		Production:    repository.NewScopedRepository[models.ProductionRecord](db),
		Economic:      repository.NewScopedRepository[models.EconomicRecord](db),
		Environmental: repository.NewScopedRepository[models.EnvironmentalRecord](db),
		Operational:   repository.NewScopedRepository[models.OperationalRecord](db),
	}
	svc := NewAnalyticsService(repos, cache.NewRedisCache(client, zap.NewNop()), time.Minute, nil, zap.NewNop())

	return analyticsFixture{
		svc:        svc,
		fields:     NewRecordService(repository.NewScopedRepository[models.Field](db), svc.Invalidate),
		production: NewRecordService(repos.Production, svc.Invalidate),
		economic:   NewRecordService(repos.Economic, svc.Invalidate),
		redis:      mr,
	}
}

func TestAnalyticsService_DashboardFigures(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupAnalytics(t, env.db)
	ctx := context.Background()

	field := &models.Field{Name: "North", CropType: "wheat"}
	require.NoError(t, fx.fields.Create(ctx, 1, field))
	require.NoError(t, fx.production.Create(ctx, 1, &models.ProductionRecord{
		FieldID: field.ID, CropType: "wheat", HarvestDate: time.Now(), QuantityHarvested: 10, PricePerUnit: 5,
	}))
	require.NoError(t, fx.economic.Create(ctx, 1, &models.EconomicRecord{
		Type: models.EconomicExpense, Amount: 20, Date: time.Now(),
	}))

	summary, err := fx.svc.Dashboard(ctx, 1, analytics.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 50.0, summary.Revenue)
	assert.Equal(t, 20.0, summary.Costs)
	assert.Equal(t, 30.0, summary.Profit)
	assert.Equal(t, 60.0, summary.Margin)

	other, err := fx.svc.Dashboard(ctx, 2, analytics.Filter{})
	require.NoError(t, err)
	assert.Zero(t, other.Revenue)
	assert.Zero(t, other.Counts.Production)
}

func TestAnalyticsService_CacheIsPerCompanyAndInvalidatedOnWrite(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupAnalytics(t, env.db)
	ctx := context.Background()

	field := &models.Field{Name: "North"}
	require.NoError(t, fx.fields.Create(ctx, 1, field))
	require.NoError(t, fx.production.Create(ctx, 1, &models.ProductionRecord{
		FieldID: field.ID, CropType: "corn", HarvestDate: time.Now(), QuantityHarvested: 4, PricePerUnit: 2,
	}))

	_, err := fx.svc.Dashboard(ctx, 1, analytics.Filter{})
	require.NoError(t, err)
	_, err = fx.svc.Dashboard(ctx, 2, analytics.Filter{})
	require.NoError(t, err)
	assert.True(t, fx.redis.Exists("farm:analytics:1:dashboard"))
	assert.True(t, fx.redis.Exists("farm:analytics:2:dashboard"))

	require.NoError(t, fx.production.Create(ctx, 1, &models.ProductionRecord{
		FieldID: field.ID, CropType: "corn", HarvestDate: time.Now(), QuantityHarvested: 6, PricePerUnit: 2,
	}))
	assert.False(t, fx.redis.Exists("farm:analytics:1:dashboard"))
	assert.True(t, fx.redis.Exists("farm:analytics:2:dashboard"))

	summary, err := fx.svc.Dashboard(ctx, 1, analytics.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 10.0, summary.TotalHarvested)
	assert.Equal(t, 20.0, summary.Revenue)
}

func TestAnalyticsService_Filters(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupAnalytics(t, env.db)
	ctx := context.Background()

	wheat := &models.Field{Name: "North", CropType: "wheat"}
	corn := &models.Field{Name: "South", CropType: "corn"}
	require.NoError(t, fx.fields.Create(ctx, 1, wheat))
	require.NoError(t, fx.fields.Create(ctx, 1, corn))

	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, fx.production.Create(ctx, 1, &models.ProductionRecord{
		FieldID: wheat.ID, CropType: "wheat", HarvestDate: jan, QuantityHarvested: 10, PricePerUnit: 1,
	}))
	require.NoError(t, fx.production.Create(ctx, 1, &models.ProductionRecord{
		FieldID: corn.ID, CropType: "corn", HarvestDate: jun, QuantityHarvested: 3, PricePerUnit: 1,
	}))
	require.NoError(t, fx.economic.Create(ctx, 1, &models.EconomicRecord{
		FieldID: &corn.ID, Type: models.EconomicExpense, Amount: 7, Date: jun,
	}))

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	summary, err := fx.svc.Dashboard(ctx, 1, analytics.Filter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, 3.0, summary.TotalHarvested)

	summary, err = fx.svc.Dashboard(ctx, 1, analytics.Filter{FieldID: &wheat.ID})
	require.NoError(t, err)
	assert.Equal(t, 10.0, summary.TotalHarvested)
	assert.Zero(t, summary.Costs)

	summary, err = fx.svc.Dashboard(ctx, 1, analytics.Filter{CropType: "corn"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, summary.TotalHarvested)
	assert.Equal(t, 7.0, summary.Costs)
	require.Len(t, summary.Crops, 1)
	assert.Equal(t, "corn", summary.Crops[0].CropType)
}

func TestAnalyticsService_CropFilterIsCaseSensitive(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupAnalytics(t, env.db)
	ctx := context.Background()

	field := &models.Field{Name: "North", CropType: "Wheat"}
	require.NoError(t, fx.fields.Create(ctx, 1, field))
	require.NoError(t, fx.production.Create(ctx, 1, &models.ProductionRecord{
		FieldID: field.ID, CropType: "Wheat", HarvestDate: time.Now(), QuantityHarvested: 10, PricePerUnit: 5,
	}))

	summary, err := fx.svc.Dashboard(ctx, 1, analytics.Filter{CropType: "Wheat"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, summary.Revenue)

	summary, err = fx.svc.Dashboard(ctx, 1, analytics.Filter{CropType: "wheat"})
	require.NoError(t, err)
	assert.Zero(t, summary.Revenue)
	assert.True(t, fx.redis.Exists("farm:analytics:1:dashboard:crop=Wheat"))
	assert.True(t, fx.redis.Exists("farm:analytics:1:dashboard:crop=wheat"))
}

func TestAnalyticsService_FieldWritesInvalidate(t *testing.T) {
	env := setupTestEnv(t)
	fx := setupAnalytics(t, env.db)
	ctx := context.Background()

	field := &models.Field{Name: "North", CropType: "wheat"}
	require.NoError(t, fx.fields.Create(ctx, 1, field))
	require.NoError(t, fx.economic.Create(ctx, 1, &models.EconomicRecord{
		FieldID: &field.ID, Type: models.EconomicExpense, Amount: 20, Date: time.Now(),
	}))

	summary, err := fx.svc.Dashboard(ctx, 1, analytics.Filter{CropType: "wheat"})
	require.NoError(t, err)
	assert.Equal(t, 20.0, summary.Costs)

	_, err = fx.fields.Patch(ctx, 1, field.ID, func(f *models.Field) error {
		f.CropType = "barley"
		return nil
	})
	require.NoError(t, err)
	assert.False(t, fx.redis.Exists("farm:analytics:1:dashboard:crop=wheat"))

	summary, err = fx.svc.Dashboard(ctx, 1, analytics.Filter{CropType: "wheat"})
	require.NoError(t, err)
	assert.Zero(t, summary.Costs)
}
