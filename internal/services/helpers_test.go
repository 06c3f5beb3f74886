package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/farm-management-api/internal/database"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db             *gorm.DB
	userRepo       repository.UserRepository
	companyRepo    repository.CompanyRepository
	invitationRepo repository.InvitationRepository
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))

	return testEnv{
		db:             db,
		userRepo:       repository.NewUserRepository(db),
		companyRepo:    repository.NewCompanyRepository(db),
		invitationRepo: repository.NewInvitationRepository(db),
	}
}
