package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/farm-management-api/internal/dto"
	apierrors "github.com/yukikurage/farm-management-api/internal/errors"
	"github.com/yukikurage/farm-management-api/internal/middleware"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/services"
	"go.uber.org/zap"
)

// UserHandler manages the members of the current company.
type UserHandler struct {
	companyService *services.CompanyService
	logger         *zap.Logger
}

func NewUserHandler(companyService *services.CompanyService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		companyService: companyService,
		logger:         logger.Named("users"),
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}

	members, err := h.companyService.ListMembers(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": dto.ToMemberDTOs(members)})
}

// UpdateUserPermissions changes the role and/or permissions of a member.
func (h *UserHandler) UpdateUserPermissions(c *gin.Context) {
	type UpdatePermissionsRequest struct {
		Role        *models.Role        `json:"role" binding:"omitempty,oneof=admin manager worker"`
		Permissions *models.Permissions `json:"permissions"`
	}

	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetUserID(c)
	targetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Role == nil && req.Permissions == nil {
		apierrors.BadRequest(c, "role or permissions is required")
		return
	}

	member, err := h.companyService.UpdateMember(c.Request.Context(), companyID, actorID, targetID, services.MemberUpdate{
		Role:        req.Role,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":     member.UserID,
		"role":        member.Role,
		"permissions": member.Permissions,
	})
}

// RemoveUser removes a member from the current company.
func (h *UserHandler) RemoveUser(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetUserID(c)
	targetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.companyService.RemoveMember(c.Request.Context(), companyID, actorID, targetID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed from company"})
}
