package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
)

// CourseStructureController handles course structure endpoints
type CourseStructureController struct {
	structureService services.CourseStructureService
}

// NewCourseStructureController creates a new CourseStructureController
func NewCourseStructureController(structureService services.CourseStructureService) *CourseStructureController {
	return &CourseStructureController{
		structureService: structureService,
	}
}

// ListByCourse lists the structures of a course in order
// @Summary List course structures
// @Tags course-structures
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.CourseStructure} "Course structures retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /course-structures/course/{courseId} [get]
func (c *CourseStructureController) ListByCourse(ctx *gin.Context) {
	structures, err := c.structureService.ListByCourse(ctx.Request.Context(), ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Course structures retrieved successfully", structures))
}

// GetStructure returns one structure with its course summary
// @Summary Get course structure
// @Tags course-structures
// @Produce json
// @Param id path string true "Structure ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseStructure} "Course structure retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course structure not found"
// @Router /course-structures/{id} [get]
func (c *CourseStructureController) GetStructure(ctx *gin.Context) {
	structure, err := c.structureService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Course structure retrieved successfully", structure))
}

// CreateStructure adds a structure to a course
// @Summary Create course structure
// @Description Admin or the course creator
// @Tags course-structures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseStructureRequest true "Structure"
// @Success 201 {object} dto.APIResponse{data=models.CourseStructure} "Course structure created successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /course-structures [post]
func (c *CourseStructureController) CreateStructure(ctx *gin.Context) {
	var req dto.CreateCourseStructureRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	structure, err := c.structureService.Create(ctx.Request.Context(), &req, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Course structure created successfully", structure))
}

// ReorderStructures assigns new positions to structures of a course
// @Summary Reorder course structures
// @Description All positions are applied atomically
// @Tags course-structures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param request body dto.ReorderCourseStructuresRequest true "New positions"
// @Success 200 {object} dto.APIResponse{data=[]models.CourseStructure} "Course structures reordered successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Router /course-structures/reorder/{courseId} [put]
func (c *CourseStructureController) ReorderStructures(ctx *gin.Context) {
	var req dto.ReorderCourseStructuresRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	structures, err := c.structureService.Reorder(ctx.Request.Context(), ctx.Param("courseId"), &req, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Course structures reordered successfully", structures))
}

// UpdateStructure partially updates a structure
// @Summary Update course structure
// @Tags course-structures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Structure ID"
// @Param request body dto.UpdateCourseStructureRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.CourseStructure} "Course structure updated successfully"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Course structure not found"
// @Router /course-structures/{id} [put]
func (c *CourseStructureController) UpdateStructure(ctx *gin.Context) {
	var req dto.UpdateCourseStructureRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	structure, err := c.structureService.Update(ctx.Request.Context(), ctx.Param("id"), &req, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Course structure updated successfully", structure))
}

// DeleteStructure removes a structure
// @Summary Delete course structure
// @Tags course-structures
// @Produce json
// @Security BearerAuth
// @Param id path string true "Structure ID"
// @Success 200 {object} dto.APIResponse "Course structure deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Course structure not found"
// @Router /course-structures/{id} [delete]
func (c *CourseStructureController) DeleteStructure(ctx *gin.Context) {
	if err := c.structureService.Delete(ctx.Request.Context(), ctx.Param("id"), middleware.CurrentUser(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Course structure deleted successfully", nil))
}
