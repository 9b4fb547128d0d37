package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/testutil"
)

func TestCreateDefaultAdmin(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewStore(testutil.NewClock().Now).Repositories().UserRepository
	account := AdminAccount{Email: " Admin@Dialogika.com ", Password: "admin123"}

	created, err := CreateDefaultAdmin(ctx, repo, account, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := repo.GetByEmail(ctx, "admin@dialogika.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "Administrator", admin.Name)
	assert.True(t, auth.CheckPassword(admin.Password, "admin123"))

	created, err = CreateDefaultAdmin(ctx, repo, account, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCreateDefaultAdminRequiresCredentials(t *testing.T) {
	repo := testutil.NewStore(testutil.NewClock().Now).Repositories().UserRepository

	_, err := CreateDefaultAdmin(context.Background(), repo, AdminAccount{Email: "admin@example.com"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestCreateDefaultAdminRejectsOverlongPassword(t *testing.T) {
	repo := testutil.NewStore(testutil.NewClock().Now).Repositories().UserRepository
	account := AdminAccount{Email: "admin@example.com", Password: strings.Repeat("x", 100)}

	created, err := CreateDefaultAdmin(context.Background(), repo, account, zerolog.Nop())
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.False(t, created)

	exists, err := repo.EmailExists(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
