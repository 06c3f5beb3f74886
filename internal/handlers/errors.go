package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/farm-management-api/internal/errors"
	"github.com/yukikurage/farm-management-api/internal/export"
	"github.com/yukikurage/farm-management-api/internal/middleware"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/services"
	"go.uber.org/zap"
)

// respondError maps service errors onto the API error envelope. Unknown
// errors are logged and reported as a bare 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrNoCompany):
		apierrors.NoCompany(c)

	case errors.Is(err, services.ErrCrossTenant):
		apierrors.Forbidden(c, "Resource belongs to another company")
	case errors.Is(err, services.ErrNotCompanyMember),
		errors.Is(err, services.ErrNotCompanyAdmin):
		apierrors.Forbidden(c, err.Error())

	case errors.Is(err, services.ErrRecordNotFound),
		errors.Is(err, services.ErrCompanyNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrUnknownExportResource):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrInvalidReference),
		errors.Is(err, services.ErrInvalidCompanyName),
		errors.Is(err, services.ErrCannotModifySelf),
		errors.Is(err, services.ErrInvalidInvitationRole),
		errors.Is(err, services.ErrInvalidInvitationMaxUses),
		errors.Is(err, services.ErrInvalidInvitationExpiry),
		errors.Is(err, services.ErrInvitationCodeRequired),
		errors.Is(err, services.ErrInvalidInvitationCode),
		errors.Is(err, models.ErrInvitationDeactivated),
		errors.Is(err, models.ErrInvitationExpired),
		errors.Is(err, models.ErrInvitationExhausted),
		errors.Is(err, services.ErrSuggestionNotesRequired),
		errors.Is(err, export.ErrUnsupportedFormat):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())

	case errors.Is(err, services.ErrSuggestionsNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())

	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		apierrors.InternalError(c, "")
	}
}

// requireCompanyID reads the company resolved by middleware.RequireCompany.
func requireCompanyID(c *gin.Context) (uint64, bool) {
	companyID, ok := middleware.GetCompanyID(c)
	if !ok {
		apierrors.NoCompany(c)
	}
	return companyID, ok
}
