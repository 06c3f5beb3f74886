package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/farm-management-api/internal/export"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"github.com/yukikurage/farm-management-api/internal/storage"
	"go.uber.org/zap"
)

type fakeArchive struct {
	keys         []string
	contentTypes []string
	err          error
}

func (a *fakeArchive) Store(_ context.Context, key string, _ []byte, contentType string) error {
	if a.err != nil {
		return a.err
	}
	a.keys = append(a.keys, key)
	a.contentTypes = append(a.contentTypes, contentType)
	return nil
}

func setupExportService(t *testing.T, archive storage.Archive) (*ExportService, *RecordService[models.Field, *models.Field]) {
	t.Helper()
	env := setupTestEnv(t)
	fieldRepo := repository.NewScopedRepository[models.Field](env.db)
	sources := map[string]ExportSource{
		"fields": NewRecordExportSource("Fields", models.PermFields, "name ASC", fieldRepo),
	}
	return NewExportService(sources, archive, zap.NewNop()), NewRecordService(fieldRepo)
}

func TestExportService_ExcelContainsOnlyCompanyRows(t *testing.T) {
	svc, fields := setupExportService(t, nil)
	ctx := context.Background()

	require.NoError(t, fields.Create(ctx, 1, &models.Field{Name: "North", Area: 3.5}))
	require.NoError(t, fields.Create(ctx, 1, &models.Field{Name: "East", Area: 1}))
	require.NoError(t, fields.Create(ctx, 2, &models.Field{Name: "Hidden"}))

	doc, err := svc.Export(ctx, 1, "fields", export.FormatExcel)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.Filename, "fields-"))
	assert.True(t, strings.HasSuffix(doc.Filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)

	var names []string
	for _, row := range rows {
		for _, cell := range row {
			names = append(names, cell)
		}
	}
	assert.Contains(t, names, "North")
	assert.Contains(t, names, "East")
	assert.NotContains(t, names, "Hidden")
}

func TestExportService_ArchivesDocuments(t *testing.T) {
	archive := &fakeArchive{}
	svc, fields := setupExportService(t, archive)
	ctx := context.Background()

	require.NoError(t, fields.Create(ctx, 4, &models.Field{Name: "North"}))

	doc, err := svc.Export(ctx, 4, "fields", export.FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))

	require.Len(t, archive.keys, 1)
	assert.True(t, strings.HasPrefix(archive.keys[0], "exports/4/fields-"))
	assert.True(t, strings.HasSuffix(archive.keys[0], ".pdf"))
	assert.Equal(t, "application/pdf", archive.contentTypes[0])

	// Archive failures do not fail the export.
	archive.err = errors.New("bucket unavailable")
	_, err = svc.Export(ctx, 4, "fields", export.FormatPDF)
	require.NoError(t, err)
}

func TestExportService_UnknownResource(t *testing.T) {
	svc, _ := setupExportService(t, nil)

	_, err := svc.Export(context.Background(), 1, "secrets", export.FormatPDF)
	assert.ErrorIs(t, err, ErrUnknownExportResource)

	source, err := svc.Source("fields")
	require.NoError(t, err)
	assert.Equal(t, "Fields", source.Title())
	assert.Equal(t, models.PermFields, source.Permission())
}
