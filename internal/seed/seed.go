package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
)

// AdminAccount describes the default administrator
type AdminAccount struct {
	Email    string
	Password string
	Name     string
}

// CreateDefaultAdmin creates the default admin user unless the email is
// already registered. It returns true when a user was created.
func CreateDefaultAdmin(ctx context.Context, userRepo repositories.IUserRepository, account AdminAccount, lgr zerolog.Logger) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(account.Email))
	if email == "" || account.Password == "" {
		return false, errors.New("seed admin email and password are required")
	}

	exists, err := userRepo.EmailExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("checking admin user: %w", err)
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
		return false, nil
	}

	hashedPassword, err := auth.HashPassword(account.Password)
	if err != nil {
		return false, fmt.Errorf("hashing admin password: %w", err)
	}

	name := strings.TrimSpace(account.Name)
	if name == "" {
		name = "Administrator"
	}

	admin := &models.User{
		Email:    email,
		Password: hashedPassword,
		Name:     name,
		Role:     models.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		// Another instance may have seeded concurrently
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("creating admin user: %w", err)
	}

	lgr.Info().Str("adminID", admin.ID).Str("email", email).Msg("Default admin user created successfully")
	return true, nil
}
