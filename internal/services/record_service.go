package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/farm-management-api/internal/repository"
	"gorm.io/gorm"
)

// WriteHook runs after a successful write to a company's records.
type WriteHook func(ctx context.Context, companyID uint64)

// RecordService implements CRUD for one tenant-owned model.
type RecordService[T any, PT repository.Owned[T]] struct {
	repo    *repository.ScopedRepository[T, PT]
	onWrite []WriteHook
}

// NewRecordService creates a RecordService. Hooks run after every create,
// update and delete.
func NewRecordService[T any, PT repository.Owned[T]](repo *repository.ScopedRepository[T, PT], hooks ...WriteHook) *RecordService[T, PT] {
	return &RecordService[T, PT]{repo: repo, onWrite: hooks}
}

func (s *RecordService[T, PT]) List(ctx context.Context, companyID uint64, filter repository.ListFilter) ([]T, int64, error) {
	records, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list records: %w", err)
	}
	return records, total, nil
}

func (s *RecordService[T, PT]) Get(ctx context.Context, companyID, id uint64) (PT, error) {
	record, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapRecordError(err)
	}
	return record, nil
}

func (s *RecordService[T, PT]) Create(ctx context.Context, companyID uint64, record PT) error {
	if err := s.repo.Create(ctx, companyID, record); err != nil {
		return mapRecordError(err)
	}
	s.written(ctx, companyID)
	return nil
}

// Replace overwrites record id with a complete new version.
func (s *RecordService[T, PT]) Replace(ctx context.Context, companyID, id uint64, record PT) error {
	existing, err := s.Get(ctx, companyID, id)
	if err != nil {
		return err
	}
	record.Pin(*existing.Base())
	return s.update(ctx, companyID, record)
}

// Patch loads record id, lets apply modify it and writes it back. Identity
// columns are restored after apply, whatever it did to them.
func (s *RecordService[T, PT]) Patch(ctx context.Context, companyID, id uint64, apply func(PT) error) (PT, error) {
	record, err := s.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	snapshot := *record.Base()
	if err := apply(record); err != nil {
		return nil, err
	}
	record.Pin(snapshot)
	if err := s.update(ctx, companyID, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RecordService[T, PT]) Delete(ctx context.Context, companyID, id uint64) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return mapRecordError(err)
	}
	s.written(ctx, companyID)
	return nil
}

func (s *RecordService[T, PT]) update(ctx context.Context, companyID uint64, record PT) error {
	if err := s.repo.Update(ctx, companyID, record); err != nil {
		return mapRecordError(err)
	}
	s.written(ctx, companyID)
	return nil
}

func (s *RecordService[T, PT]) written(ctx context.Context, companyID uint64) {
	for _, hook := range s.onWrite {
		hook(ctx, companyID)
	}
}

func mapRecordError(err error) error {
	var refErr *repository.ReferenceError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, repository.ErrCrossTenant):
		return ErrCrossTenant
	case errors.As(err, &refErr):
		return fmt.Errorf("%w: %s", ErrInvalidReference, refErr.Name)
	default:
		return fmt.Errorf("record store: %w", err)
	}
}
