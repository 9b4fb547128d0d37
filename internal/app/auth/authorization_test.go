package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/testutil"
)

func TestValidateCourseOwnership(t *testing.T) {
	store := testutil.NewStore(nil)
	repos := store.Repositories()
	svc := auth.NewAuthorizationService(repos.CourseRepository, repos.CourseStructureRepository)

	admin := testutil.CreateUser(t, store, "Admin", "admin@example.com", "admin123", models.RoleAdmin)
	owner := testutil.CreateUser(t, store, "Owner", "owner@example.com", "owner123", models.RoleInstructor)
	other := testutil.CreateUser(t, store, "Other", "other@example.com", "other123", models.RoleStudent)
	course := testutil.CreateCourse(t, store, owner.ID, "Go basics")
	ctx := context.Background()

	assert.NoError(t, svc.ValidateCourseOwnership(ctx, course.ID, auth.NewIdentity(admin)))
	assert.NoError(t, svc.ValidateCourseOwnership(ctx, course.ID, auth.NewIdentity(owner)))

	err := svc.ValidateCourseOwnership(ctx, course.ID, auth.NewIdentity(other))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.ValidateCourseOwnership(ctx, "missing", auth.NewIdentity(admin))
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	err = svc.ValidateCourseOwnership(ctx, course.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestValidateStructureOwnership(t *testing.T) {
	store := testutil.NewStore(nil)
	repos := store.Repositories()
	svc := auth.NewAuthorizationService(repos.CourseRepository, repos.CourseStructureRepository)

	owner := testutil.CreateUser(t, store, "Owner", "owner@example.com", "owner123", models.RoleInstructor)
	other := testutil.CreateUser(t, store, "Other", "other@example.com", "other123", models.RoleStudent)
	course := testutil.CreateCourse(t, store, owner.ID, "Go basics")
	st := testutil.CreateStructure(t, store, course.ID, "Intro", 1)

	courseID, err := svc.ValidateStructureOwnership(context.Background(), st.ID, auth.NewIdentity(owner))
	require.NoError(t, err)
	assert.Equal(t, course.ID, courseID)

	_, err = svc.ValidateStructureOwnership(context.Background(), st.ID, auth.NewIdentity(other))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.ValidateStructureOwnership(context.Background(), "nope", auth.NewIdentity(owner))
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
