package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// CourseController handles course endpoints
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// ListCourses lists courses
// @Summary List courses
// @Description Paginated course list with optional search over title, description and instructor
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Search text"
// @Param category query string false "Exact category"
// @Param level query string false "Exact level"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	courses, pagination, err := c.courseService.ListCourses(ctx.Request.Context(), dto.CourseListQuery{
		Page:     page,
		Limit:    limit,
		Search:   ctx.Query("search"),
		Category: ctx.Query("category"),
		Level:    ctx.Query("level"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse("Courses retrieved successfully", courses, pagination))
}

// SearchCourses searches courses with sorting
// @Summary Search courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Param category query string false "Exact category"
// @Param level query string false "Exact level"
// @Param instructor query string false "Instructor substring"
// @Param sortBy query string false "title, instructor, category, level, createdAt or duration" default(createdAt)
// @Param sortOrder query string false "asc or desc" default(desc)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses search completed successfully"
// @Router /courses/search [get]
func (c *CourseController) SearchCourses(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	courses, pagination, info, err := c.courseService.SearchCourses(ctx.Request.Context(), dto.CourseSearchQuery{
		Page:       page,
		Limit:      limit,
		Query:      ctx.Query("q"),
		Category:   ctx.Query("category"),
		Level:      ctx.Query("level"),
		Instructor: ctx.Query("instructor"),
		SortBy:     ctx.Query("sortBy"),
		SortOrder:  ctx.Query("sortOrder"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewPaginatedResponse("Courses search completed successfully", courses, pagination)
	resp.SearchInfo = info
	ctx.JSON(http.StatusOK, resp)
}

// GetCoursesByCreator lists the courses created by a user
// @Summary Courses by creator
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Creator user ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Creator courses retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Router /courses/creator/{userId} [get]
func (c *CourseController) GetCoursesByCreator(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	courses, pagination, err := c.courseService.GetCoursesByCreator(ctx.Request.Context(), ctx.Param("userId"), page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse("Creator courses retrieved successfully", courses, pagination))
}

// GetCourse returns one course with its structures
// @Summary Get course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.courseService.GetCourseByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Course retrieved successfully", course))
}

// CreateCourse creates a course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), &req, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Course created successfully", course))
}

// UpdateCourse partially updates a course
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req dto.UpdateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Course updated successfully", course))
}

// DeleteCourse deletes a course and its structures
// @Summary Delete course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse "Course deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.courseService.DeleteCourse(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Course deleted successfully", nil))
}
