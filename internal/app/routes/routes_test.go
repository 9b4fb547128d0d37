package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/controllers"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/cache"
	"github.com/yigit/coursehub/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestEveryOperationIsRoutedOnce(t *testing.T) {
	seen := map[auth.Operation]bool{}
	paths := map[string]bool{}

	for _, r := range Table(Controllers{}) {
		_, ok := auth.OperationPermissions[r.Operation]
		assert.True(t, ok, "operation %s has no policy", r.Operation)
		assert.False(t, seen[r.Operation], "operation %s routed twice", r.Operation)
		seen[r.Operation] = true

		key := r.Method + " " + r.Path
		assert.False(t, paths[key], "%s registered twice", key)
		paths[key] = true
	}

	for op := range auth.OperationPermissions {
		assert.True(t, seen[op], "operation %s has no route", op)
	}
}

func TestRoutePermissions(t *testing.T) {
	want := map[string]auth.Permission{
		"POST /auth/login":                         auth.PermissionPublic,
		"POST /auth/register":                      auth.PermissionAdmin,
		"GET /auth/me":                             auth.PermissionAuthenticated,
		"GET /courses":                             auth.PermissionAuthenticated,
		"GET /courses/creator/:userId":             auth.PermissionSelfOrAdmin,
		"POST /courses":                            auth.PermissionAdmin,
		"DELETE /courses/:id":                      auth.PermissionAdmin,
		"GET /course-structures/course/:courseId":  auth.PermissionPublic,
		"PUT /course-structures/reorder/:courseId": auth.PermissionAuthenticated,
		"GET /users/profile":                       auth.PermissionAuthenticated,
		"PUT /users/:id/password":                  auth.PermissionAdmin,
		"GET /health":                              auth.PermissionPublic,
	}

	got := map[string]auth.Permission{}
	for _, r := range Table(Controllers{}) {
		got[r.Method+" "+r.Path] = auth.PolicyFor(r.Operation).Permission
	}
	for route, perm := range want {
		assert.Equal(t, perm, got[route], route)
	}
}

type apiFixture struct {
	router  *gin.Engine
	store   *testutil.Store
	admin   *models.User
	student *models.User
	tokens  map[string]string
}

func newAPIFixture(t *testing.T, login LoginLimit) *apiFixture {
	t.Helper()
	clock := testutil.NewClock()
	store := testutil.NewStore(clock.Now)
	repos := store.Repositories()
	jwtService := testutil.NewJWTService(clock)
	denylist := cache.NewMemoryStore(clock.Now)

	authz := auth.NewAuthorizationService(repos.CourseRepository, repos.CourseStructureRepository)
	authService := services.NewAuthService(repos.UserRepository, jwtService, denylist, zerolog.Nop()).WithClock(clock.Now)

	router := gin.New()
	SetupRouter(router,
		Controllers{
			Auth:            controllers.NewAuthController(authService, zerolog.Nop()),
			Course:          controllers.NewCourseController(services.NewCourseService(repos.CourseRepository)),
			CourseStructure: controllers.NewCourseStructureController(services.NewCourseStructureService(repos.CourseRepository, repos.CourseStructureRepository, authz)),
			User:            controllers.NewUserController(services.NewUserService(repos.UserRepository)),
			Health:          controllers.NewHealthController(nil),
		},
		middleware.NewAuthMiddleware(jwtService, repos.UserRepository, denylist),
		middleware.NewRateLimiter(cache.NewMemoryStore(clock.Now)),
		login,
	)

	f := &apiFixture{
		router:  router,
		store:   store,
		admin:   testutil.CreateUser(t, store, "Admin", "admin@example.com", "admin123", models.RoleAdmin),
		student: testutil.CreateUser(t, store, "Student", "student@example.com", "student123", models.RoleStudent),
	}
	f.tokens = map[string]string{
		"admin":   testutil.Token(t, jwtService, f.admin),
		"student": testutil.Token(t, jwtService, f.student),
	}
	return f
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (f *apiFixture) call(t *testing.T, method, path, as string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, BasePath+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token, ok := f.tokens[as]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestCourseLifecycle(t *testing.T) {
	f := newAPIFixture(t, LoginLimit{})

	course := map[string]string{
		"title":       "Go Basics",
		"description": "Learn the Go language from scratch",
		"image":       "https://example.com/go.png",
		"instructor":  "Gopher",
		"category":    "Programming",
		"level":       "Beginner",
		"duration":    "10h",
	}

	code, env := f.call(t, http.MethodPost, "/courses", "student", course)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Admin access required", env.Message)

	code, env = f.call(t, http.MethodPost, "/courses", "admin", course)
	require.Equal(t, http.StatusCreated, code)
	var created models.Course
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, f.admin.ID, created.CreatedByID)

	code, env = f.call(t, http.MethodGet, "/courses/"+created.ID, "student", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Course retrieved successfully", env.Message)

	for i, title := range []string{"Intro", "Types"} {
		code, _ = f.call(t, http.MethodPost, "/course-structures", "admin", map[string]interface{}{
			"courseId": created.ID, "title": title, "lectures": 2, "duration": "30m", "order": i + 1,
		})
		require.Equal(t, http.StatusCreated, code)
	}

	code, env = f.call(t, http.MethodGet, "/course-structures/course/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	var structures []models.CourseStructure
	require.NoError(t, json.Unmarshal(env.Data, &structures))
	require.Len(t, structures, 2)
	assert.Equal(t, "Intro", structures[0].Title)

	code, env = f.call(t, http.MethodPut, "/course-structures/reorder/"+created.ID, "admin", map[string]interface{}{
		"structures": []map[string]interface{}{
			{"id": structures[0].ID, "order": 2},
			{"id": structures[1].ID, "order": 1},
		},
	})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &structures))
	assert.Equal(t, "Types", structures[0].Title)

	code, _ = f.call(t, http.MethodDelete, "/courses/"+created.ID, "admin", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = f.call(t, http.MethodGet, "/course-structures/course/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAuthenticationRequired(t *testing.T) {
	f := newAPIFixture(t, LoginLimit{})

	code, env := f.call(t, http.MethodGet, "/courses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Access token required", env.Message)

	f.tokens["forged"] = "not-a-jwt"
	code, env = f.call(t, http.MethodGet, "/courses", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", env.Message)
}

func TestProfileIsNotShadowedByUserID(t *testing.T) {
	f := newAPIFixture(t, LoginLimit{})

	code, env := f.call(t, http.MethodGet, "/users/profile", "student", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Profile retrieved successfully", env.Message)

	code, _ = f.call(t, http.MethodGet, "/users/"+f.student.ID, "student", nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestCreatorListingIsSelfOrAdmin(t *testing.T) {
	f := newAPIFixture(t, LoginLimit{})
	testutil.CreateCourse(t, f.store, f.student.ID, "Own Course")

	code, _ := f.call(t, http.MethodGet, "/courses/creator/"+f.student.ID, "student", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = f.call(t, http.MethodGet, "/courses/creator/"+f.admin.ID, "student", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = f.call(t, http.MethodGet, "/courses/creator/"+f.student.ID, "admin", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestLoginAndLogout(t *testing.T) {
	f := newAPIFixture(t, LoginLimit{})

	code, env := f.call(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "  ADMIN@example.com ", "password": "admin123",
	})
	require.Equal(t, http.StatusOK, code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	f.tokens["session"] = login.Token

	code, _ = f.call(t, http.MethodGet, "/auth/me", "session", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = f.call(t, http.MethodPost, "/auth/logout", "session", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = f.call(t, http.MethodGet, "/auth/me", "session", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", env.Message)

	code, env = f.call(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestLoginIsRateLimited(t *testing.T) {
	f := newAPIFixture(t, LoginLimit{Attempts: 2, Window: time.Minute})
	body := map[string]string{"email": "admin@example.com", "password": "wrong"}

	for i := 0; i < 2; i++ {
		code, _ := f.call(t, http.MethodPost, "/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, code)
	}

	code, env := f.call(t, http.MethodPost, "/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "Too many requests, please try again later", env.Message)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	f := newAPIFixture(t, LoginLimit{})

	code, env := f.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = f.call(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}
