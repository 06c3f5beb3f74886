package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/farm-management-api/internal/dto"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/repository"
	"github.com/yukikurage/farm-management-api/internal/services"
	"go.uber.org/zap"
)

func setupInvitationRouters(t *testing.T) map[uint64]*gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Company{Name: "Green Acres"}).Error)
	require.NoError(t, db.Create(&models.Company{Name: "Red Barn"}).Error)

	handler := NewInvitationHandler(services.NewInvitationService(repository.NewInvitationRepository(db)), zap.NewNop())
	routers := map[uint64]*gin.Engine{}
	for _, companyID := range []uint64{1, 2} {
		r := gin.New()
		r.POST("/api/invitation-codes/validate", handler.ValidateCode)
		codes := r.Group("/api/invitation-codes", asCompany(companyID*10, companyID))
		codes.GET("", handler.ListCodes)
		codes.POST("", handler.CreateCode)
		codes.POST("/:id/deactivate", handler.DeactivateCode)
		codes.DELETE("/:id", handler.DeleteCode)
		routers[companyID] = r
	}
	return routers
}

func TestInvitationHandler_Lifecycle(t *testing.T) {
	routers := setupInvitationRouters(t)
	r := routers[1]

	w := postJSON(t, r, "/api/invitation-codes", map[string]interface{}{
		"role":             "manager",
		"max_uses":         5,
		"expires_in_hours": 24,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var code dto.InvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &code))
	assert.Equal(t, models.RoleManager, code.Role)
	assert.Equal(t, 5, code.RemainingUses)
	assert.Equal(t, models.RoleManager.DefaultPermissions(), code.Permissions)
	assert.Equal(t, models.InvitationActive, code.Status)
	require.NotNil(t, code.ExpiresAt)

	w = postJSON(t, r, "/api/invitation-codes/validate", map[string]string{"code": code.Code})
	require.Equal(t, http.StatusOK, w.Code)
	var preview dto.InvitationPreviewDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.True(t, preview.Valid)
	assert.Equal(t, "Green Acres", preview.CompanyName)

	deactivatePath := fmt.Sprintf("/api/invitation-codes/%d/deactivate", code.ID)

	// Codes of another company are off limits.
	w = postJSON(t, routers[2], deactivatePath, map[string]string{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postJSON(t, r, deactivatePath, map[string]string{})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/api/invitation-codes/validate", map[string]string{"code": code.Code})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.False(t, preview.Valid)
	assert.Equal(t, models.InvitationDeactivated, preview.Status)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/invitation-codes/%d", code.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/invitation-codes", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Codes []dto.InvitationDTO `json:"invitation_codes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list.Codes)
}

func TestInvitationHandler_CreateValidation(t *testing.T) {
	r := setupInvitationRouters(t)[1]

	for name, payload := range map[string]map[string]interface{}{
		"unknown role":     {"role": "owner"},
		"too many uses":    {"max_uses": 5000},
		"negative expiry":  {"expires_in_hours": -1},
		"expiry too far":   {"expires_in_hours": 100000},
		"malformed expiry": {"expires_at": "tomorrow"},
	} {
		t.Run(name, func(t *testing.T) {
			w := postJSON(t, r, "/api/invitation-codes", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestInvitationHandler_ValidateUnknownCode(t *testing.T) {
	r := setupInvitationRouters(t)[1]

	w := postJSON(t, r, "/api/invitation-codes/validate", map[string]string{"code": "0000-0000-0000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/invitation-codes/validate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
