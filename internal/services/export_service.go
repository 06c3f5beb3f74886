package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/farm-management-api/internal/export"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"github.com/yukikurage/farm-management-api/internal/storage"
	"go.uber.org/zap"
)

var ErrUnknownExportResource = errors.New("unknown export resource")

// ExportSource produces the table of one resource for a company.
type ExportSource interface {
	Title() string
	Permission() models.Permission
	Table(ctx context.Context, companyID uint64) (export.Table, error)
}

type exportRow interface {
	ExportHeader() []string
	ExportRow() []string
}

type recordExportSource[T exportRow, PT repository.Owned[T]] struct {
	title      string
	permission models.Permission
	orderBy    string
	repo       *repository.ScopedRepository[T, PT]
}

// NewRecordExportSource exports every record of a tenant-owned model.
func NewRecordExportSource[T exportRow, PT repository.Owned[T]](title string, permission models.Permission, orderBy string, repo *repository.ScopedRepository[T, PT]) ExportSource {
	return &recordExportSource[T, PT]{title: title, permission: permission, orderBy: orderBy, repo: repo}
}

func (s *recordExportSource[T, PT]) Title() string { return s.title }

func (s *recordExportSource[T, PT]) Permission() models.Permission { return s.permission }

func (s *recordExportSource[T, PT]) Table(ctx context.Context, companyID uint64) (export.Table, error) {
	records, _, err := s.repo.List(ctx, companyID, repository.ListFilter{OrderBy: s.orderBy})
	if err != nil {
		return export.Table{}, err
	}
	var zero T
	table := export.Table{
		Title:   s.title,
		Headers: zero.ExportHeader(),
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		table.Rows = append(table.Rows, r.ExportRow())
	}
	return table, nil
}

// ExportService renders company records as documents and optionally keeps a
// copy in the export archive.
type ExportService struct {
	sources map[string]ExportSource
	archive storage.Archive
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService creates an ExportService. archive may be nil.
func NewExportService(sources map[string]ExportSource, archive storage.Archive, logger *zap.Logger) *ExportService {
	return &ExportService{
		sources: sources,
		archive: archive,
		logger:  logger.Named("export"),
		now:     time.Now,
	}
}

// Source returns the export source registered for resource.
func (s *ExportService) Source(resource string) (ExportSource, error) {
	source, ok := s.sources[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExportResource, resource)
	}
	return source, nil
}

// Export renders resource of companyID in format. Archive failures are
// logged and do not fail the export.
func (s *ExportService) Export(ctx context.Context, companyID uint64, resource string, format export.Format) (*export.Document, error) {
	source, err := s.Source(resource)
	if err != nil {
		return nil, err
	}

	table, err := source.Table(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", resource, err)
	}
	now := s.now()
	table.GeneratedAt = now

	doc, err := export.Render(table, format, fmt.Sprintf("%s-%s", resource, now.Format("20060102-150405")))
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		key := storage.ObjectKey(companyID, resource, format.Extension())
		if err := s.archive.Store(ctx, key, doc.Data, format.ContentType()); err != nil {
			s.logger.Warn("failed to archive export",
				zap.Uint64("company_id", companyID),
				zap.String("resource", resource),
				zap.Error(err))
		} else {
			s.logger.Info("export archived", zap.String("key", key))
		}
	}
	return doc, nil
}
