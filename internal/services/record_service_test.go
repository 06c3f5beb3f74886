package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
)

func TestRecordService_TenantIsolation(t *testing.T) {
	env := setupTestEnv(t)
	fields := NewRecordService(repository.NewScopedRepository[models.Field](env.db))
	ctx := context.Background()

	north := &models.Field{Name: "North", Area: 12}
	require.NoError(t, fields.Create(ctx, 1, north))
	require.NoError(t, fields.Create(ctx, 2, &models.Field{Name: "Other"}))

	listed, total, err := fields.List(ctx, 1, repository.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, "North", listed[0].Name)
	assert.Equal(t, models.FieldStatusActive, listed[0].Status)

	_, err = fields.Get(ctx, 2, north.ID)
	assert.ErrorIs(t, err, ErrCrossTenant)
	_, err = fields.Get(ctx, 1, 9999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.ErrorIs(t, fields.Delete(ctx, 2, north.ID), ErrCrossTenant)
}

func TestRecordService_ReferencesResolveInsideCompany(t *testing.T) {
	env := setupTestEnv(t)
	fields := NewRecordService(repository.NewScopedRepository[models.Field](env.db))
	tasks := NewRecordService(repository.NewScopedRepository[models.Task](env.db))
	ctx := context.Background()

	foreign := &models.Field{Name: "Foreign"}
	require.NoError(t, fields.Create(ctx, 2, foreign))

	err := tasks.Create(ctx, 1, &models.Task{Title: "Plough", FieldID: &foreign.ID})
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Contains(t, err.Error(), "field_id")

	assignee := uint64(42)
	err = tasks.Create(ctx, 1, &models.Task{Title: "Plough", AssignedTo: &assignee})
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Contains(t, err.Error(), "assigned_to")
}

func TestRecordService_PatchPinsIdentity(t *testing.T) {
	env := setupTestEnv(t)
	writes := 0
	hook := func(ctx context.Context, companyID uint64) {
		assert.Equal(t, uint64(1), companyID)
		writes++
	}
	tasks := NewRecordService(repository.NewScopedRepository[models.Task](env.db), hook)
	ctx := context.Background()

	task := &models.Task{Title: "Irrigate", Priority: models.TaskPriorityHigh}
	require.NoError(t, tasks.Create(ctx, 1, task))

	patched, err := tasks.Patch(ctx, 1, task.ID, func(tk *models.Task) error {
		tk.Status = models.TaskStatusCompleted
		tk.ID = 500
		tk.CompanyID = 2
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, task.ID, patched.ID)
	assert.Equal(t, uint64(1), patched.CompanyID)

	stored, err := tasks.Get(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, stored.Status)
	assert.Equal(t, models.TaskPriorityHigh, stored.Priority)
	assert.Equal(t, "Irrigate", stored.Title)

	applyErr := errors.New("bad payload")
	_, err = tasks.Patch(ctx, 1, task.ID, func(*models.Task) error { return applyErr })
	assert.ErrorIs(t, err, applyErr)

	assert.Equal(t, 2, writes)
}

func TestRecordService_ReplaceOverwritesAllColumns(t *testing.T) {
	env := setupTestEnv(t)
	fields := NewRecordService(repository.NewScopedRepository[models.Field](env.db))
	ctx := context.Background()

	field := &models.Field{Name: "North", Area: 12, CropType: "wheat", Notes: "stony"}
	require.NoError(t, fields.Create(ctx, 1, field))

	replacement := &models.Field{Name: "North field", Area: 14}
	replacement.CompanyID = 2
	require.NoError(t, fields.Replace(ctx, 1, field.ID, replacement))
	assert.Equal(t, field.ID, replacement.ID)
	assert.Equal(t, uint64(1), replacement.CompanyID)

	stored, err := fields.Get(ctx, 1, field.ID)
	require.NoError(t, err)
	assert.Equal(t, "North field", stored.Name)
	assert.Equal(t, 14.0, stored.Area)
	assert.Empty(t, stored.CropType)
	assert.Empty(t, stored.Notes)
	assert.Equal(t, models.FieldStatusActive, stored.Status)

	err = fields.Replace(ctx, 2, field.ID, &models.Field{Name: "Stolen"})
	assert.ErrorIs(t, err, ErrCrossTenant)
}
