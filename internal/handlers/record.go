package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	apierrors "github.com/yukikurage/farm-management-api/internal/errors"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"github.com/yukikurage/farm-management-api/internal/services"
	"github.com/yukikurage/farm-management-api/internal/utils"
	"go.uber.org/zap"
)

// QueryFilter maps a list query parameter onto an equality predicate.
type QueryFilter struct {
	Param  string
	Column string
	// Numeric parameters must parse as unsigned integers.
	Numeric bool
}

// Resource describes how a tenant-owned model is exposed over HTTP.
type Resource struct {
	// Path is the route segment under /api.
	Path string
	// Key names the array in list responses.
	Key     string
	Filters []QueryFilter
	// DateColumn is filtered by the from and to query parameters.
	DateColumn string
	OrderBy    string
}

// RecordHandler serves list/get/create/replace/patch/delete for one
// tenant-owned model. The company always comes from the request context.
type RecordHandler[T any, PT repository.Owned[T]] struct {
	resource Resource
	service  *services.RecordService[T, PT]
	logger   *zap.Logger
}

func NewRecordHandler[T any, PT repository.Owned[T]](resource Resource, service *services.RecordService[T, PT], logger *zap.Logger) *RecordHandler[T, PT] {
	return &RecordHandler[T, PT]{
		resource: resource,
		service:  service,
		logger:   logger.Named("records." + resource.Key),
	}
}

// Register mounts the handler under group/<Path> behind mw.
func (h *RecordHandler[T, PT]) Register(group *gin.RouterGroup, mw ...gin.HandlerFunc) {
	g := group.Group("/"+h.resource.Path, mw...)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Replace)
	g.PATCH("/:id", h.Patch)
	g.DELETE("/:id", h.Delete)
}

func (h *RecordHandler[T, PT]) List(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	filter := repository.ListFilter{
		Equals:   map[string]interface{}{},
		OrderBy:  h.resource.OrderBy,
		Page:     params.Page,
		PageSize: params.Limit,
	}
	for _, f := range h.resource.Filters {
		raw := c.Query(f.Param)
		if raw == "" {
			continue
		}
		if !f.Numeric {
			filter.Equals[f.Column] = raw
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid "+f.Param)
			return
		}
		filter.Equals[f.Column] = v
	}
	if h.resource.DateColumn != "" {
		from, to, ok := parseDateRange(c)
		if !ok {
			return
		}
		filter.DateColumn = h.resource.DateColumn
		filter.From, filter.To = from, to
	}

	records, total, err := h.service.List(c.Request.Context(), companyID, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		h.resource.Key: records,
		"pagination":   params.Response(total),
	})
}

func (h *RecordHandler[T, PT]) Get(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	record, err := h.service.Get(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler[T, PT]) Create(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}

	record := PT(new(T))
	if err := c.ShouldBindJSON(record); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), companyID, record); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Replace overwrites every writable column with the request body.
func (h *RecordHandler[T, PT]) Replace(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	record := PT(new(T))
	if err := c.ShouldBindJSON(record); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.service.Replace(c.Request.Context(), companyID, id, record); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// payloadError marks a failure to apply a PATCH body.
type payloadError struct{ err error }

func (e *payloadError) Error() string { return e.err.Error() }
func (e *payloadError) Unwrap() error { return e.err }

// Patch merges the request body into the stored record. Fields absent from
// the body keep their values; the merged record must still validate.
func (h *RecordHandler[T, PT]) Patch(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		apierrors.BadRequest(c, "Request body is required")
		return
	}

	record, err := h.service.Patch(c.Request.Context(), companyID, id, func(r PT) error {
		if err := json.Unmarshal(body, r); err != nil {
			return &payloadError{err}
		}
		if err := binding.Validator.ValidateStruct(r); err != nil {
			return &payloadError{err}
		}
		return nil
	})
	if err != nil {
		var perr *payloadError
		if errors.As(err, &perr) {
			respondBindError(c, perr.err)
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler[T, PT]) Delete(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), companyID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

// parseDateRange reads the from and to query parameters. Both accept a date
// (2006-01-02) or an RFC 3339 timestamp; a bare to-date covers its whole day.
func parseDateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	if raw := c.Query("from"); raw != "" {
		t, _, err := parseDate(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid from date")
			return nil, nil, false
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, dateOnly, err := parseDate(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid to date")
			return nil, nil, false
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		apierrors.BadRequest(c, "to must not be before from")
		return nil, nil, false
	}
	return from, to, true
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	return t, false, err
}
