package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/farm-management-api/internal/analytics"
	apierrors "github.com/yukikurage/farm-management-api/internal/errors"
	"github.com/yukikurage/farm-management-api/internal/services"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	logger           *zap.Logger
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger.Named("analytics"),
	}
}

// Dashboard returns the summary of the current company's records, optionally
// narrowed by from, to, field_id and crop_type.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}

	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	filter := analytics.Filter{
		From:     from,
		To:       to,
		CropType: strings.TrimSpace(c.Query("crop_type")),
	}
	if raw := c.Query("field_id"); raw != "" {
		fieldID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid field_id")
			return
		}
		filter.FieldID = &fieldID
	}

	summary, err := h.analyticsService.Dashboard(c.Request.Context(), companyID, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
