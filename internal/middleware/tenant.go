package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/farm-management-api/internal/constants"
	apierrors "github.com/yukikurage/farm-management-api/internal/errors"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/services"
)

// MembershipResolver finds the membership of a user in their current company.
type MembershipResolver interface {
	ResolveMembership(ctx context.Context, userID uint64) (*models.CompanyMember, error)
}

// RequireCompany resolves the current company of the authenticated user and
// stores it in the context. Every tenant-scoped route sits behind it, so the
// company id handlers read is always one the user belongs to.
func RequireCompany(resolver MembershipResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		member, err := resolver.ResolveMembership(c.Request.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNoCompany):
				apierrors.NoCompany(c)
			case errors.Is(err, services.ErrNotCompanyMember):
				apierrors.Forbidden(c, "You are no longer a member of your current company")
			case errors.Is(err, services.ErrUserNotFound):
				apierrors.Unauthorized(c, "")
			default:
				apierrors.InternalError(c, "Failed to resolve company")
			}
			return
		}

		c.Set(constants.ContextKeyCompanyID, member.CompanyID)
		c.Set(constants.ContextKeyMembership, member)
		c.Next()
	}
}

// RequirePermission rejects members lacking perm. Must run after RequireCompany.
func RequirePermission(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetMembership(c)
		if !ok {
			apierrors.NoCompany(c)
			return
		}
		if !member.Can(perm) {
			apierrors.Forbidden(c, "Missing permission: "+perm.String())
			return
		}
		c.Next()
	}
}

// RequireCompanyAdmin rejects members that are not admins of the current company.
func RequireCompanyAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetMembership(c)
		if !ok {
			apierrors.NoCompany(c)
			return
		}
		if member.Role != models.RoleAdmin {
			apierrors.Forbidden(c, "Only company admins can perform this action")
			return
		}
		c.Next()
	}
}

// GetCompanyID retrieves the current company ID from context
func GetCompanyID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyCompanyID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

func GetMembership(c *gin.Context) (*models.CompanyMember, bool) {
	v, exists := c.Get(constants.ContextKeyMembership)
	if !exists {
		return nil, false
	}
	member, ok := v.(*models.CompanyMember)
	return member, ok && member != nil
}
