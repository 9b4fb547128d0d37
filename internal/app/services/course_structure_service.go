package services

import (
	"context"

	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// CourseStructureService defines the interface for course structure operations
type CourseStructureService interface {
	ListByCourse(ctx context.Context, courseID string) ([]*models.CourseStructure, error)
	GetByID(ctx context.Context, id string) (*models.CourseStructure, error)
	Create(ctx context.Context, req *dto.CreateCourseStructureRequest, actor *auth.Identity) (*models.CourseStructure, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseStructureRequest, actor *auth.Identity) (*models.CourseStructure, error)
	Delete(ctx context.Context, id string, actor *auth.Identity) error
	Reorder(ctx context.Context, courseID string, req *dto.ReorderCourseStructuresRequest, actor *auth.Identity) ([]*models.CourseStructure, error)
}

// courseStructureServiceImpl implements the CourseStructureService interface
type courseStructureServiceImpl struct {
	courseRepo    repositories.ICourseRepository
	structureRepo repositories.ICourseStructureRepository
	authzService  *auth.AuthorizationService
}

// NewCourseStructureService creates a new course structure service instance
func NewCourseStructureService(
	courseRepo repositories.ICourseRepository,
	structureRepo repositories.ICourseStructureRepository,
	authzService *auth.AuthorizationService,
) CourseStructureService {
	return &courseStructureServiceImpl{
		courseRepo:    courseRepo,
		structureRepo: structureRepo,
		authzService:  authzService,
	}
}

func (s *courseStructureServiceImpl) ListByCourse(ctx context.Context, courseID string) ([]*models.CourseStructure, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrCourseNotFound
	}
	return s.structureRepo.ListByCourse(ctx, courseID)
}

func (s *courseStructureServiceImpl) GetByID(ctx context.Context, id string) (*models.CourseStructure, error) {
	return s.structureRepo.GetByID(ctx, id)
}

func (s *courseStructureServiceImpl) Create(ctx context.Context, req *dto.CreateCourseStructureRequest, actor *auth.Identity) (*models.CourseStructure, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateCourseOwnership(ctx, req.CourseID, actor); err != nil {
		return nil, err
	}

	structure := &models.CourseStructure{
		CourseID: req.CourseID,
		Title:    req.Title,
		Lectures: req.Lectures,
		Duration: req.Duration,
		Order:    req.Order,
		VideoURL: req.VideoURL,
		PDFURL:   req.PDFURL,
	}
	if err := s.structureRepo.Create(ctx, structure); err != nil {
		return nil, err
	}
	logger.Info().Str("structureID", structure.ID).Str("courseID", structure.CourseID).Msg("Course structure created")
	return s.structureRepo.GetByID(ctx, structure.ID)
}

func (s *courseStructureServiceImpl) Update(ctx context.Context, id string, req *dto.UpdateCourseStructureRequest, actor *auth.Identity) (*models.CourseStructure, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.authzService.ValidateStructureOwnership(ctx, id, actor); err != nil {
		return nil, err
	}

	if changes := req.Changes(); len(changes) > 0 {
		if err := s.structureRepo.Update(ctx, id, changes); err != nil {
			return nil, err
		}
		logger.Info().Str("structureID", id).Int("fields", len(changes)).Msg("Course structure updated")
	}
	return s.structureRepo.GetByID(ctx, id)
}

func (s *courseStructureServiceImpl) Delete(ctx context.Context, id string, actor *auth.Identity) error {
	if _, err := s.authzService.ValidateStructureOwnership(ctx, id, actor); err != nil {
		return err
	}
	if err := s.structureRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Str("structureID", id).Msg("Course structure deleted")
	return nil
}

func (s *courseStructureServiceImpl) Reorder(ctx context.Context, courseID string, req *dto.ReorderCourseStructuresRequest, actor *auth.Identity) ([]*models.CourseStructure, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(req.Structures))
	items := make([]models.StructureOrder, 0, len(req.Structures))
	for _, item := range req.Structures {
		if _, dup := seen[item.ID]; dup {
			return nil, validation.Field("structures", "Each structure may appear only once")
		}
		seen[item.ID] = struct{}{}
		items = append(items, models.StructureOrder{ID: item.ID, Order: item.Order})
	}

	if err := s.authzService.ValidateCourseOwnership(ctx, courseID, actor); err != nil {
		return nil, err
	}
	if err := s.structureRepo.Reorder(ctx, courseID, items); err != nil {
		return nil, err
	}
	logger.Info().Str("courseID", courseID).Int("count", len(items)).Msg("Course structures reordered")
	return s.structureRepo.ListByCourse(ctx, courseID)
}
