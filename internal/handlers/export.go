package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/farm-management-api/internal/errors"
	"github.com/yukikurage/farm-management-api/internal/export"
	"github.com/yukikurage/farm-management-api/internal/metrics"
	"github.com/yukikurage/farm-management-api/internal/middleware"
	"github.com/yukikurage/farm-management-api/internal/services"
	"go.uber.org/zap"
)

type ExportHandler struct {
	exportService *services.ExportService
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

func NewExportHandler(exportService *services.ExportService, m *metrics.Metrics, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		metrics:       m,
		logger:        logger.Named("export"),
	}
}

// Export streams a resource of the current company as a PDF or Excel
// document. Each resource is gated by the permission of its own routes.
func (h *ExportHandler) Export(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	member, ok := middleware.GetMembership(c)
	if !ok {
		apierrors.NoCompany(c)
		return
	}

	resource := c.Param("resource")
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	source, err := h.exportService.Source(resource)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !member.Can(source.Permission()) {
		apierrors.Forbidden(c, "Missing permission: "+source.Permission().String())
		return
	}

	doc, err := h.exportService.Export(c.Request.Context(), companyID, resource, format)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.metrics.Export(resource, string(format))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, format.ContentType(), doc.Data)
}
