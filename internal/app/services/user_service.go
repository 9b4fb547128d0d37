package services

import (
	"context"
	"fmt"

	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	pkgauth "github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/helpers"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// UserService defines the interface for user management operations
type UserService interface {
	ListUsers(ctx context.Context, query dto.UserListQuery) ([]*dto.UserResponse, *dto.PaginationInfo, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUserByID(ctx context.Context, id string) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	UpdatePassword(ctx context.Context, id string, req *dto.UpdatePasswordRequest) error
	DeleteUser(ctx context.Context, id string, actor *auth.Identity) error
	GetProfile(ctx context.Context, actor *auth.Identity) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor *auth.Identity, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userRepo repositories.IUserRepository
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repositories.IUserRepository) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
	}
}

func (s *userServiceImpl) ListUsers(ctx context.Context, query dto.UserListQuery) ([]*dto.UserResponse, *dto.PaginationInfo, error) {
	page, limit := helpers.NormalizePage(query.Page, query.Limit)
	users, total, err := s.userRepo.List(ctx, repositories.UserFilter{
		Page:   page,
		Limit:  limit,
		Search: query.Search,
		Role:   query.Role,
	})
	if err != nil {
		return nil, nil, err
	}
	return dto.NewUserResponses(users), helpers.NewPaginationInfo(total, page, limit), nil
}

func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	user, err := createUser(ctx, s.userRepo, req)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User created")
	return dto.NewUserResponse(user), nil
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// applyUpdate validates and persists a partial user update
func (s *userServiceImpl) applyUpdate(ctx context.Context, id string, req interface{ Changes() map[string]interface{} }) (*dto.UserResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	changes := req.Changes()
	if email, ok := changes["email"].(string); ok {
		current, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if email != current.Email {
			exists, err := s.userRepo.EmailExists(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("error checking email: %w", err)
			}
			if exists {
				return nil, apperrors.ErrEmailAlreadyExists
			}
		}
	}

	user, err := s.userRepo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	req.Normalize()
	return s.applyUpdate(ctx, id, req)
}

func (s *userServiceImpl) UpdatePassword(ctx context.Context, id string, req *dto.UpdatePasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	hash, err := pkgauth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	logger.Info().Str("userID", id).Msg("User password updated")
	return nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, id string, actor *auth.Identity) error {
	if actor != nil && actor.ID == id {
		return apperrors.ErrCannotDeleteSelf
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	hasCourses, err := s.userRepo.HasCourses(ctx, id)
	if err != nil {
		return err
	}
	if hasCourses {
		return apperrors.ErrUserHasCourses
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Str("userID", id).Msg("User deleted")
	return nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, actor *auth.Identity) (*dto.UserResponse, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return s.GetUserByID(ctx, actor.ID)
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, actor *auth.Identity, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	req.Normalize()
	return s.applyUpdate(ctx, actor.ID, req)
}
