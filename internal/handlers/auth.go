package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/farm-management-api/internal/constants"
	"github.com/yukikurage/farm-management-api/internal/dto"
	apierrors "github.com/yukikurage/farm-management-api/internal/errors"
	"github.com/yukikurage/farm-management-api/internal/metrics"
	"github.com/yukikurage/farm-management-api/internal/middleware"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/services"
	"go.uber.org/zap"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService   *services.AuthService
	tenantService *services.TenantService
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tenantService *services.TenantService, m *metrics.Metrics, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		tenantService: tenantService,
		metrics:       m,
		logger:        logger.Named("auth"),
	}
}

// Register creates an account and logs it in. Admin accounts found a
// company, worker accounts redeem an invitation code.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username           string `json:"username" binding:"required,min=3,max=50"`
		Password           string `json:"password" binding:"required"`
		Email              string `json:"email" binding:"omitempty,email"`
		Name               string `json:"name"`
		AccountType        string `json:"account_type" binding:"omitempty,oneof=admin worker"`
		CompanyName        string `json:"company_name"`
		CompanyDescription string `json:"company_description"`
		CompanyAddress     string `json:"company_address"`
		InvitationCode     string `json:"invitation_code"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username:           req.Username,
		Password:           req.Password,
		Email:              req.Email,
		Name:               req.Name,
		AccountType:        req.AccountType,
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
		CompanyAddress:     req.CompanyAddress,
		InvitationCode:     req.InvitationCode,
	})
	if req.InvitationCode != "" && req.AccountType == services.AccountTypeWorker {
		h.metrics.Redemption(redemptionResult(err))
	}
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	h.metrics.Registration(string(user.Role))

	if !h.startSession(c, user.ID) {
		return
	}

	h.logger.Info("user registered",
		zap.Uint64("user_id", user.ID),
		zap.String("role", string(user.Role)))
	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user with their current membership.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	var member *models.CompanyMember
	if user.CurrentCompanyID != nil {
		member, err = h.tenantService.ResolveMembership(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, services.ErrNotCompanyMember) {
			h.respondAuthError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, dto.ToCurrentUserDTO(*user, member))
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint64) bool {
	session := sessions.Default(c)
	session.Clear()
	session.Set(constants.ContextKeyUserID, userID)
	if err := session.Save(); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidAccountType):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.Unauthorized(c, "Not authenticated")
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser),
		errors.Is(err, services.ErrFailedToCreateCompany),
		errors.Is(err, services.ErrFailedToAddMember):
		h.logger.Error("registration failed", zap.Error(err))
		apierrors.InternalError(c, err.Error())
	default:
		respondError(c, h.logger, err)
	}
}

func redemptionResult(err error) string {
	switch {
	case err == nil:
		return "redeemed"
	case errors.Is(err, models.ErrInvitationExhausted):
		return "exhausted"
	case errors.Is(err, models.ErrInvitationExpired):
		return "expired"
	case errors.Is(err, models.ErrInvitationDeactivated):
		return "deactivated"
	case errors.Is(err, services.ErrInvalidInvitationCode):
		return "invalid"
	default:
		return "failed"
	}
}
