package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/farm-management-api/internal/models"
)

func TestTenantService_ResolveMembership(t *testing.T) {
	env := setupTestEnv(t)
	auth := NewAuthService(env.userRepo, env.invitationRepo)
	tenants := NewTenantService(env.userRepo, env.companyRepo)
	ctx := context.Background()

	admin := registerAdmin(t, auth, "founder", "Green Acres")
	member, err := tenants.ResolveMembership(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, *admin.CurrentCompanyID, member.CompanyID)
	assert.True(t, member.Can(models.PermUsers))

	loner := &models.User{Username: "loner", PasswordHash: "x", Role: models.RoleWorker}
	require.NoError(t, env.db.Create(loner).Error)
	_, err = tenants.ResolveMembership(ctx, loner.ID)
	assert.ErrorIs(t, err, ErrNoCompany)

	// A current company without a membership row is treated as revoked.
	require.NoError(t, env.userRepo.SetCurrentCompany(ctx, loner.ID, admin.CurrentCompanyID))
	_, err = tenants.ResolveMembership(ctx, loner.ID)
	assert.ErrorIs(t, err, ErrNotCompanyMember)

	_, err = tenants.ResolveMembership(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
