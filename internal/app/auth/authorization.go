package auth

import (
	"context"
	"fmt"

	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// ErrPermissionDenied is returned when the caller may not modify a resource
var ErrPermissionDenied = apperrors.NewForbiddenError("Access denied")

// AuthorizationService handles resource ownership checks
type AuthorizationService struct {
	courseRepo    repositories.ICourseRepository
	structureRepo repositories.ICourseStructureRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(courseRepo repositories.ICourseRepository, structureRepo repositories.ICourseStructureRepository) *AuthorizationService {
	return &AuthorizationService{
		courseRepo:    courseRepo,
		structureRepo: structureRepo,
	}
}

// CanModifyCourse checks whether the caller is an admin or created the course
func (s *AuthorizationService) CanModifyCourse(ctx context.Context, courseID string, identity *Identity) (bool, error) {
	if identity == nil {
		return false, apperrors.ErrUnauthorized
	}

	ownerID, err := s.courseRepo.GetOwnerID(ctx, courseID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return false, err
		}
		logger.Error().Err(err).Str("courseID", courseID).Str("userID", identity.ID).Msg("Error fetching course owner ID")
		return false, fmt.Errorf("failed to check course ownership: %w", err)
	}

	if identity.IsAdmin() {
		return true, nil
	}
	return ownerID == identity.ID, nil
}

// ValidateCourseOwnership returns ErrPermissionDenied unless the caller may
// modify the course. A missing course yields a not found error.
func (s *AuthorizationService) ValidateCourseOwnership(ctx context.Context, courseID string, identity *Identity) error {
	canModify, err := s.CanModifyCourse(ctx, courseID, identity)
	if err != nil {
		return err
	}
	if !canModify {
		return ErrPermissionDenied
	}
	return nil
}

// ValidateStructureOwnership derives ownership from the structure's parent
// course and returns the parent course id.
func (s *AuthorizationService) ValidateStructureOwnership(ctx context.Context, structureID string, identity *Identity) (string, error) {
	if identity == nil {
		return "", apperrors.ErrUnauthorized
	}
	structure, err := s.structureRepo.GetByID(ctx, structureID)
	if err != nil {
		return "", err
	}
	if err := s.ValidateCourseOwnership(ctx, structure.CourseID, identity); err != nil {
		return "", err
	}
	return structure.CourseID, nil
}
