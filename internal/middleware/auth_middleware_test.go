package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/cache"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	mw       *AuthMiddleware
	store    *testutil.Store
	clock    *testutil.Clock
	denylist *cache.MemoryStore
	admin    *models.User
	student  *models.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	clock := testutil.NewClock()
	store := testutil.NewStore(clock.Now)
	denylist := cache.NewMemoryStore(clock.Now)
	return &authFixture{
		mw:       NewAuthMiddleware(testutil.NewJWTService(clock), store.Repositories().UserRepository, denylist),
		store:    store,
		clock:    clock,
		denylist: denylist,
		admin:    testutil.CreateUser(t, store, "Admin", "admin@example.com", "admin123", models.RoleAdmin),
		student:  testutil.CreateUser(t, store, "Student", "student@example.com", "student123", models.RoleStudent),
	}
}

func (f *authFixture) token(t *testing.T, u *models.User) string {
	return testutil.Token(t, testutil.NewJWTService(f.clock), u)
}

func (f *authFixture) router(policy auth.Policy) *gin.Engine {
	r := gin.New()
	handlers := append(f.mw.Require(policy), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})
	r.GET("/resource/:userId", handlers...)
	return r
}

func do(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// captureLogs routes the package logger into a buffer at debug level
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Configure(logger.Config{Level: logger.DebugLevel, Output: &buf})
	t.Cleanup(func() { logger.Configure(logger.Config{Level: logger.InfoLevel}) })
	return &buf
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router(auth.Policy{Permission: auth.PermissionAuthenticated})
	valid := f.token(t, f.student)

	w := do(r, "/resource/x", "Bearer "+valid)
	assert.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", "Access token required"},
		{"raw token without scheme", valid, "Access token required"},
		{"lowercase scheme", "bearer " + valid, "Access token required"},
		{"garbage token", "Bearer not.a.jwt", "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, "/resource/x", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.want, message(t, w))
		})
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router(auth.Policy{Permission: auth.PermissionAuthenticated})
	token := f.token(t, f.student)

	f.clock.Advance(2 * time.Hour)
	w := do(r, "/resource/x", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router(auth.Policy{Permission: auth.PermissionAuthenticated})
	token := f.token(t, f.student)

	require.NoError(t, f.store.Repositories().UserRepository.Delete(context.Background(), f.student.ID))
	w := do(r, "/resource/x", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", message(t, w))
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router(auth.Policy{Permission: auth.PermissionAuthenticated})
	token := f.token(t, f.student)

	claims, err := testutil.NewJWTService(f.clock).ValidateAndExtractClaims(token)
	require.NoError(t, err)
	require.NoError(t, f.denylist.Revoke(context.Background(), claims.ID, time.Hour))

	logs := captureLogs(t)
	w := do(r, "/resource/x", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", message(t, w))

	lines := bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	assert.Equal(t, "Authentication failed", entry["message"])
	assert.Equal(t, apperrors.ErrTokenRevoked.Error(), entry["error"])
}

func TestRequireAdmin(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router(auth.Policy{Permission: auth.PermissionAdmin})

	assert.Equal(t, http.StatusOK, do(r, "/resource/x", "Bearer "+f.token(t, f.admin)).Code)

	w := do(r, "/resource/x", "Bearer "+f.token(t, f.student))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin access required", message(t, w))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/resource/x", "").Code)
}

func TestRequireAdminWithoutAuthenticateFailsClosed(t *testing.T) {
	f := newAuthFixture(t)
	r := gin.New()
	r.GET("/admin", f.mw.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
}

func TestRequireOwnershipOrAdmin(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router(auth.Policy{Permission: auth.PermissionSelfOrAdmin, OwnerParam: "userId"})
	studentToken := "Bearer " + f.token(t, f.student)

	assert.Equal(t, http.StatusOK, do(r, "/resource/"+f.student.ID, studentToken).Code)
	assert.Equal(t, http.StatusOK, do(r, "/resource/"+f.student.ID, "Bearer "+f.token(t, f.admin)).Code)

	w := do(r, "/resource/"+f.admin.ID, studentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied", message(t, w))
}
