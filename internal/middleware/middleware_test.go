package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/farm-management-api/internal/constants"
	"github.com/yukikurage/farm-management-api/internal/models"
	"github.com/yukikurage/farm-management-api/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubResolver map[uint64]struct {
	member *models.CompanyMember
	err    error
}

func (s stubResolver) ResolveMembership(_ context.Context, userID uint64) (*models.CompanyMember, error) {
	r, ok := s[userID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return r.member, r.err
}

// setupRouter mounts a login helper that puts ?user=<id> into the session.
func setupRouter(resolver MembershipResolver, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))

	r.GET("/login/:user", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("user"), 10, 64)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, id)
		if err := session.Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	handlers := []gin.HandlerFunc{RequireAuth(), RequireCompany(resolver)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		companyID, _ := GetCompanyID(c)
		c.JSON(http.StatusOK, gin.H{"company_id": companyID})
	})
	r.GET("/tenant", handlers...)
	return r
}

func loginCookie(t *testing.T, r *gin.Engine, user string) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login/"+user, nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func get(r *gin.Engine, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/tenant", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireCompany(t *testing.T) {
	resolver := stubResolver{
		1: {member: &models.CompanyMember{CompanyID: 10, UserID: 1, Role: models.RoleAdmin}},
		2: {err: services.ErrNoCompany},
		3: {err: errors.New("boom")},
	}
	r := setupRouter(resolver)

	w := get(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, loginCookie(t, r, "1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"company_id":10}`, w.Body.String())

	w = get(r, loginCookie(t, r, "2"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_COMPANY")

	w = get(r, loginCookie(t, r, "3"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequirePermission(t *testing.T) {
	resolver := stubResolver{
		1: {member: &models.CompanyMember{CompanyID: 10, UserID: 1, Role: models.RoleAdmin}},
		2: {member: &models.CompanyMember{CompanyID: 10, UserID: 2, Role: models.RoleWorker, Permissions: models.NewPermissions(models.PermTasks)}},
		3: {member: &models.CompanyMember{CompanyID: 10, UserID: 3, Role: models.RoleWorker, Permissions: models.NewPermissions(models.PermInventory)}},
	}
	r := setupRouter(resolver, RequirePermission(models.PermInventory))

	assert.Equal(t, http.StatusOK, get(r, loginCookie(t, r, "1")).Code)
	assert.Equal(t, http.StatusForbidden, get(r, loginCookie(t, r, "2")).Code)
	assert.Equal(t, http.StatusOK, get(r, loginCookie(t, r, "3")).Code)

	admins := setupRouter(resolver, RequireCompanyAdmin())
	assert.Equal(t, http.StatusOK, get(admins, loginCookie(t, admins, "1")).Code)
	assert.Equal(t, http.StatusForbidden, get(admins, loginCookie(t, admins, "3")).Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, generated, entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "abc-123", entries[1].ContextMap()["request_id"])
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		value interface{}
		want  uint64
		ok    bool
	}{
		{uint64(7), 7, true},
		{uint(7), 7, true},
		{int(7), 7, true},
		{int64(7), 7, true},
		{int(-1), 0, false},
		{uint64(0), 0, false},
		{"7", 0, false},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(constants.ContextKeyUserID, tt.value)
		got, ok := GetUserID(c)
		assert.Equal(t, tt.ok, ok, "%#v", tt.value)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetUserID(c)
	assert.False(t, ok)
}
