package services

import (
	"context"

	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/helpers"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// CourseService defines the interface for course operations
type CourseService interface {
	ListCourses(ctx context.Context, query dto.CourseListQuery) ([]*models.Course, *dto.PaginationInfo, error)
	SearchCourses(ctx context.Context, query dto.CourseSearchQuery) ([]*models.Course, *dto.PaginationInfo, *dto.SearchInfo, error)
	GetCoursesByCreator(ctx context.Context, userID string, page, limit int) ([]*models.Course, *dto.PaginationInfo, error)
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, actor *auth.Identity) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo repositories.ICourseRepository
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo repositories.ICourseRepository) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
	}
}

func (s *courseServiceImpl) list(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, *dto.PaginationInfo, error) {
	filter.Page, filter.Limit = helpers.NormalizePage(filter.Page, filter.Limit)
	courses, total, err := s.courseRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return courses, helpers.NewPaginationInfo(total, filter.Page, filter.Limit), nil
}

func (s *courseServiceImpl) ListCourses(ctx context.Context, query dto.CourseListQuery) ([]*models.Course, *dto.PaginationInfo, error) {
	return s.list(ctx, repositories.CourseFilter{
		Page:     query.Page,
		Limit:    query.Limit,
		Search:   query.Search,
		Category: query.Category,
		Level:    query.Level,
	})
}

func (s *courseServiceImpl) SearchCourses(ctx context.Context, query dto.CourseSearchQuery) ([]*models.Course, *dto.PaginationInfo, *dto.SearchInfo, error) {
	query.SortBy, query.SortOrder = repositories.ResolveCourseSort(query.SortBy, query.SortOrder)
	courses, pagination, err := s.list(ctx, repositories.CourseFilter{
		Page:       query.Page,
		Limit:      query.Limit,
		Search:     query.Query,
		Extended:   true,
		Category:   query.Category,
		Level:      query.Level,
		Instructor: query.Instructor,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return courses, pagination, query.Info(), nil
}

func (s *courseServiceImpl) GetCoursesByCreator(ctx context.Context, userID string, page, limit int) ([]*models.Course, *dto.PaginationInfo, error) {
	if userID == "" {
		return nil, nil, validation.Field("userId", "User ID is required")
	}
	return s.list(ctx, repositories.CourseFilter{
		Page:        page,
		Limit:       limit,
		CreatedByID: userID,
	})
}

func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, actor *auth.Identity) (*models.Course, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Instructor:  req.Instructor,
		Category:    req.Category,
		Level:       req.Level,
		Duration:    req.Duration,
		CreatedByID: actor.ID,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	logger.Info().Str("courseID", course.ID).Str("userID", actor.ID).Msg("Course created")
	return s.courseRepo.GetByID(ctx, course.ID)
}

func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*models.Course, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if changes := req.Changes(); len(changes) > 0 {
		if err := s.courseRepo.Update(ctx, id, changes); err != nil {
			return nil, err
		}
		logger.Info().Str("courseID", id).Int("fields", len(changes)).Msg("Course updated")
	}
	return s.courseRepo.GetByID(ctx, id)
}

func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id string) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Str("courseID", id).Msg("Course deleted")
	return nil
}
