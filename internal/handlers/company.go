package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/farm-management-api/internal/dto"
	apierrors "github.com/yukikurage/farm-management-api/internal/errors"
	"github.com/yukikurage/farm-management-api/internal/middleware"
	"github.com/yukikurage/farm-management-api/internal/services"
	"go.uber.org/zap"
)

type companyRequest struct {
	Name        string `json:"name" binding:"required,nonblank,max=255"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"max=500"`
}

func (r companyRequest) input() services.CompanyInput {
	return services.CompanyInput{Name: r.Name, Description: r.Description, Address: r.Address}
}

// CompanyHandler serves the companies a user belongs to. These routes need
// authentication only, so users without a current company can create one.
type CompanyHandler struct {
	companyService *services.CompanyService
	authService    *services.AuthService
	logger         *zap.Logger
}

func NewCompanyHandler(companyService *services.CompanyService, authService *services.AuthService, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		authService:    authService,
		logger:         logger.Named("companies"),
	}
}

// ListCompanies returns every company the user is a member of.
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	memberships, err := h.companyService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	companies := make([]dto.CompanyWithRoleDTO, len(memberships))
	for i, m := range memberships {
		companies[i] = dto.ToCompanyWithRoleDTO(m, user.CurrentCompanyID)
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// CreateCompany creates a company administered by the user.
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), userID, req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCompanyDTO(*company))
}

// GetCompany returns a company with its members.
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	companyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	company, members, err := h.companyService.Get(c.Request.Context(), userID, companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyDetailDTO(*company, members))
}

// UpdateCompany changes the company attributes. Company admins only.
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	companyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), userID, companyID, req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyDTO(*company))
}

// DeleteCompany removes a company and all of its records. Company admins only.
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	companyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.companyService.Delete(c.Request.Context(), userID, companyID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("company deleted", zap.Uint64("company_id", companyID), zap.Uint64("user_id", userID))
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}

// SwitchCompany makes the company the user's current company.
func (h *CompanyHandler) SwitchCompany(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	companyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.Switch(c.Request.Context(), userID, companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Switched company",
		"company": dto.ToCompanyDTO(*company),
	})
}
