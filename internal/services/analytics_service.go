package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/farm-management-api/internal/analytics"
	"github.com/yukikurage/farm-management-api/internal/cache"
	"github.com/yukikurage/farm-management-api/internal/database"
	"github.com/yukikurage/farm-management-api/internal/metrics"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnalyticsRepositories are the record families a dashboard reads.
type AnalyticsRepositories struct {
	Production    *repository.ScopedRepository[models.ProductionRecord, *models.ProductionRecord]
	Economic      *repository.ScopedRepository[models.EconomicRecord, *models.EconomicRecord]
	Environmental *repository.ScopedRepository[models.EnvironmentalRecord, *models.EnvironmentalRecord]
	Operational   *repository.ScopedRepository[models.OperationalRecord, *models.OperationalRecord]
}

// AnalyticsService computes dashboards and caches them per company.
type AnalyticsService struct {
	repos   AnalyticsRepositories
	cache   cache.AnalyticsCache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewAnalyticsService(repos AnalyticsRepositories, c cache.AnalyticsCache, ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *AnalyticsService {
	if c == nil {
		c = cache.Noop{}
	}
	return &AnalyticsService{
		repos:   repos,
		cache:   c,
		ttl:     ttl,
		metrics: m,
		logger:  logger.Named("analytics"),
	}
}

// Dashboard returns the summary of companyID's records matching filter.
// Cache failures degrade to recomputation.
func (s *AnalyticsService) Dashboard(ctx context.Context, companyID uint64, filter analytics.Filter) (*analytics.Summary, error) {
	key := filter.CacheKey()

	var cached analytics.Summary
	found, err := s.cache.Get(ctx, companyID, key, &cached)
	if err != nil {
		s.logger.Warn("failed to read analytics cache", zap.Uint64("company_id", companyID), zap.Error(err))
	}
	s.metrics.CacheLookup(found)
	if found {
		return &cached, nil
	}

	summary, err := s.compute(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, companyID, key, summary, s.ttl); err != nil {
		s.logger.Warn("failed to write analytics cache", zap.Uint64("company_id", companyID), zap.Error(err))
	}
	return summary, nil
}

// Invalidate drops the cached dashboards of companyID. It is installed as a
// write hook on every record family a dashboard depends on.
func (s *AnalyticsService) Invalidate(ctx context.Context, companyID uint64) {
	if err := s.cache.InvalidateCompany(ctx, companyID); err != nil {
		s.logger.Warn("failed to invalidate analytics cache", zap.Uint64("company_id", companyID), zap.Error(err))
	}
}

func (s *AnalyticsService) compute(ctx context.Context, companyID uint64, filter analytics.Filter) (*analytics.Summary, error) {
	base := func(dateColumn string) repository.ListFilter {
		f := repository.ListFilter{
			Equals:     map[string]interface{}{},
			DateColumn: dateColumn,
			From:       filter.From,
			To:         filter.To,
		}
		if filter.FieldID != nil {
			f.Equals["field_id"] = *filter.FieldID
		}
		return f
	}
	byCropField := func(f repository.ListFilter) repository.ListFilter {
		if filter.CropType != "" {
			f.Scopes = []func(*gorm.DB) *gorm.DB{database.InFieldsWithCrop(companyID, filter.CropType)}
		}
		return f
	}

	productionFilter := base("harvest_date")
	if filter.CropType != "" {
		productionFilter.Equals["crop_type"] = filter.CropType
	}
	production, _, err := s.repos.Production.List(ctx, companyID, productionFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to load production records: %w", err)
	}
	economic, _, err := s.repos.Economic.List(ctx, companyID, byCropField(base("date")))
	if err != nil {
		return nil, fmt.Errorf("failed to load economic records: %w", err)
	}
	environmental, _, err := s.repos.Environmental.List(ctx, companyID, byCropField(base("date")))
	if err != nil {
		return nil, fmt.Errorf("failed to load environmental records: %w", err)
	}
	operational, _, err := s.repos.Operational.List(ctx, companyID, byCropField(base("date")))
	if err != nil {
		return nil, fmt.Errorf("failed to load operational records: %w", err)
	}

	summary := analytics.Summarize(production, economic, environmental, operational)
	return &summary, nil
}
