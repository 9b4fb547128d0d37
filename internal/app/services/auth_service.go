package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	pkgauth "github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/cache"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// ErrInvalidCredentials is returned for an unknown email and a wrong password alike
var ErrInvalidCredentials = apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid credentials")

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	jwtService *pkgauth.JWTService
	denylist   cache.TokenDenylist
	now        func() time.Time
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *pkgauth.JWTService,
	denylist cache.TokenDenylist,
	logger zerolog.Logger,
) *AuthService {
	if denylist == nil {
		denylist = cache.NoopTokenDenylist{}
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		denylist:   denylist,
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock replaces the time source used for revocation TTLs
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func (s *AuthService) issue(user *models.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.jwtService.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to generate token")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &dto.AuthResponse{
		User:      dto.NewUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Login verifies credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			// Keep response time independent of whether the email exists
			pkgauth.CheckPasswordAgainstDummy(req.Password)
			s.logger.Debug().Str("email", req.Email).Msg("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkgauth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Str("userID", user.ID).Msg("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("userID", user.ID).Msg("User logged in")
	return s.issue(user)
}

// Register creates a user on behalf of an admin and issues a token for it
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	user, err := createUser(ctx, s.userRepo, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return s.issue(user)
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, claims *pkgauth.Claims) error {
	if claims == nil {
		return apperrors.ErrUnauthorized
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error().Err(err).Str("userID", claims.UserID).Msg("Failed to revoke token")
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// CurrentUser returns the profile of the authenticated caller
func (s *AuthService) CurrentUser(ctx context.Context, identity *auth.Identity) (*dto.UserResponse, error) {
	if identity == nil {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// createUser is shared by registration and admin user creation
func createUser(ctx context.Context, repo repositories.IUserRepository, req *dto.CreateUserRequest) (*models.User, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	exists, err := repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    req.Email,
		Password: hash,
		Name:     req.Name,
		Role:     req.Role,
		Avatar:   req.Avatar,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
