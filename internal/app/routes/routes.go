package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/controllers"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/middleware"
)

// BasePath is the prefix of every API route
const BasePath = "/api"

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth            *controllers.AuthController
	Course          *controllers.CourseController
	CourseStructure *controllers.CourseStructureController
	User            *controllers.UserController
	Health          *controllers.HealthController
}

// LoginLimit configures the login rate limit. A zero Attempts disables it.
type LoginLimit struct {
	Attempts int
	Window   time.Duration
}

// Route is one API endpoint and the operation whose policy guards it
type Route struct {
	Method    string
	Path      string
	Operation auth.Operation
	Handler   gin.HandlerFunc
}

// Table lists every API route. Static segments are registered before
// parameters sharing the same prefix (/users/profile before /users/:id).
func Table(c Controllers) []Route {
	return []Route{
		{http.MethodPost, "/auth/login", auth.OpAuthLogin, c.Auth.Login},
		{http.MethodPost, "/auth/register", auth.OpAuthRegister, c.Auth.Register},
		{http.MethodGet, "/auth/me", auth.OpAuthMe, c.Auth.Me},
		{http.MethodPost, "/auth/logout", auth.OpAuthLogout, c.Auth.Logout},

		{http.MethodGet, "/courses", auth.OpCoursesList, c.Course.ListCourses},
		{http.MethodGet, "/courses/search", auth.OpCoursesSearch, c.Course.SearchCourses},
		{http.MethodGet, "/courses/creator/:userId", auth.OpCoursesByCreator, c.Course.GetCoursesByCreator},
		{http.MethodGet, "/courses/:id", auth.OpCoursesGet, c.Course.GetCourse},
		{http.MethodPost, "/courses", auth.OpCoursesCreate, c.Course.CreateCourse},
		{http.MethodPut, "/courses/:id", auth.OpCoursesUpdate, c.Course.UpdateCourse},
		{http.MethodDelete, "/courses/:id", auth.OpCoursesDelete, c.Course.DeleteCourse},

		{http.MethodGet, "/course-structures/course/:courseId", auth.OpStructuresByCourse, c.CourseStructure.ListByCourse},
		{http.MethodGet, "/course-structures/:id", auth.OpStructuresGet, c.CourseStructure.GetStructure},
		{http.MethodPost, "/course-structures", auth.OpStructuresCreate, c.CourseStructure.CreateStructure},
		{http.MethodPut, "/course-structures/reorder/:courseId", auth.OpStructuresReorder, c.CourseStructure.ReorderStructures},
		{http.MethodPut, "/course-structures/:id", auth.OpStructuresUpdate, c.CourseStructure.UpdateStructure},
		{http.MethodDelete, "/course-structures/:id", auth.OpStructuresDelete, c.CourseStructure.DeleteStructure},

		{http.MethodGet, "/users", auth.OpUsersList, c.User.ListUsers},
		{http.MethodPost, "/users", auth.OpUsersCreate, c.User.CreateUser},
		{http.MethodGet, "/users/profile", auth.OpUsersProfile, c.User.GetProfile},
		{http.MethodPut, "/users/profile", auth.OpUsersUpdateProfile, c.User.UpdateProfile},
		{http.MethodGet, "/users/:id", auth.OpUsersGet, c.User.GetUser},
		{http.MethodPut, "/users/:id", auth.OpUsersUpdate, c.User.UpdateUser},
		{http.MethodPut, "/users/:id/password", auth.OpUsersUpdatePassword, c.User.UpdatePassword},
		{http.MethodDelete, "/users/:id", auth.OpUsersDelete, c.User.DeleteUser},

		{http.MethodGet, "/health", auth.OpHealth, c.Health.Health},
	}
}

// SetupRouter mounts every route of Table under BasePath, guarded by the
// policy registered for its operation.
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	login LoginLimit,
) {
	api := router.Group(BasePath)

	for _, r := range Table(c) {
		var handlers []gin.HandlerFunc
		if r.Operation == auth.OpAuthLogin && rateLimiter != nil && login.Attempts > 0 {
			handlers = append(handlers, rateLimiter.Limit("login", login.Attempts, login.Window))
		}
		handlers = append(handlers, authMiddleware.Require(auth.PolicyFor(r.Operation))...)
		handlers = append(handlers, r.Handler)

		api.Handle(r.Method, r.Path, handlers...)
	}

	router.NoRoute(func(ctx *gin.Context) {
		middleware.AbortWithError(ctx, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Route not found")
	})
}
