package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/farm-management-api/internal/dto"
	"github.com/yukikurage/farm-management-api/internal/middleware"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/services"
	"go.uber.org/zap"
)

// InvitationHandler manages the invitation codes of the current company.
type InvitationHandler struct {
	invitationService *services.InvitationService
	logger            *zap.Logger
}

func NewInvitationHandler(invitationService *services.InvitationService, logger *zap.Logger) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		logger:            logger.Named("invitations"),
	}
}

func (h *InvitationHandler) ListCodes(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}

	codes, err := h.invitationService.List(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitation_codes": dto.ToInvitationDTOs(codes, time.Now())})
}

func (h *InvitationHandler) CreateCode(c *gin.Context) {
	type CreateCodeRequest struct {
		Role           models.Role         `json:"role" binding:"omitempty,oneof=admin manager worker"`
		Permissions    *models.Permissions `json:"permissions"`
		MaxUses        int                 `json:"max_uses" binding:"omitempty,min=1,max=1000"`
		ExpiresInHours *int                `json:"expires_in_hours" binding:"omitempty,min=1,max=8760"`
		ExpiresAt      *time.Time          `json:"expires_at"`
	}

	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)
	var creatorRole models.Role
	if member, ok := middleware.GetMembership(c); ok {
		creatorRole = member.Role
	}

	var req CreateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	code, err := h.invitationService.Create(c.Request.Context(), companyID, userID, services.CreateInvitationInput{
		CreatorRole:    creatorRole,
		Role:           req.Role,
		Permissions:    req.Permissions,
		MaxUses:        req.MaxUses,
		ExpiresInHours: req.ExpiresInHours,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("invitation code created",
		zap.Uint64("company_id", companyID),
		zap.Uint64("code_id", code.ID),
		zap.String("role", string(code.Role)))
	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*code, time.Now()))
}

func (h *InvitationHandler) DeactivateCode(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	code, err := h.invitationService.Deactivate(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvitationDTO(*code, time.Now()))
}

func (h *InvitationHandler) DeleteCode(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.invitationService.Delete(c.Request.Context(), companyID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation code deleted"})
}

// ValidateCode tells an anonymous visitor what a code grants. It never
// redeems the code.
func (h *InvitationHandler) ValidateCode(c *gin.Context) {
	type ValidateCodeRequest struct {
		Code string `json:"code" binding:"required,nonblank"`
	}

	var req ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	preview, err := h.invitationService.Validate(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.InvitationPreviewDTO{
		Valid:         preview.Status == models.InvitationActive,
		CompanyName:   preview.CompanyName,
		Role:          preview.Role,
		Permissions:   preview.Permissions,
		Status:        preview.Status,
		ExpiresAt:     preview.ExpiresAt,
		RemainingUses: preview.RemainingUses,
	})
}
