package storage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/farm-management-api/internal/config"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey(42, "fields", "pdf")
	assert.Regexp(t, regexp.MustCompile(`^exports/42/fields-[0-9a-f-]{36}\.pdf$`), key)
	assert.NotEqual(t, key, ObjectKey(42, "fields", "pdf"))
}

func TestNewMinioArchive(t *testing.T) {
	archive, err := NewMinioArchive(config.ArchiveConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "farm-exports",
	})
	require.NoError(t, err)
	assert.Equal(t, "farm-exports", archive.bucket)

	_, err = NewMinioArchive(config.ArchiveConfig{Endpoint: "http://localhost:9000/path"})
	assert.Error(t, err)
}
