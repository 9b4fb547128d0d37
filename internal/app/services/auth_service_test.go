package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/cache"
	"github.com/yigit/coursehub/internal/pkg/validation"
	"github.com/yigit/coursehub/internal/testutil"
)

func newAuthFixture(t *testing.T) (*AuthService, *testutil.Store, *testutil.Clock, *cache.MemoryStore) {
	t.Helper()
	clock := testutil.NewClock()
	store := testutil.NewStore(clock.Now)
	denylist := cache.NewMemoryStore(clock.Now)
	svc := NewAuthService(store.Repositories().UserRepository, testutil.NewJWTService(clock), denylist, zerolog.Nop()).
		WithClock(clock.Now)
	return svc, store, clock, denylist
}

func TestLogin(t *testing.T) {
	svc, store, _, _ := newAuthFixture(t)
	user := testutil.CreateUser(t, store, "Admin", "admin@dialogika.com", "admin123", models.RoleAdmin)

	t.Run("success with mixed case email", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: " Admin@Dialogika.com ", Password: "admin123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.Equal(t, testutil.FixedTime.Add(time.Hour), resp.ExpiresAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "admin@dialogika.com", Password: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@dialogika.com", Password: "admin123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		assert.Equal(t, "Invalid credentials", apperrors.Message(err, ""))
	})

	t.Run("invalid email format", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "not-an-email", Password: "x"})
		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "email", verrs[0].Field)
	})
}

func TestRegister(t *testing.T) {
	svc, store, _, _ := newAuthFixture(t)
	testutil.CreateUser(t, store, "Existing", "taken@example.com", "secret1", models.RoleStudent)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "New Student", Email: "New@Example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Dup", Email: "TAKEN@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "X", Email: "short@example.com", Password: "123", Role: "ROOT",
	})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	fields := map[string]bool{}
	for _, fe := range verrs {
		fields[fe.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["password"])
	assert.True(t, fields["role"])
}

func TestLogoutRevokesUntilExpiry(t *testing.T) {
	svc, store, clock, denylist := newAuthFixture(t)
	user := testutil.CreateUser(t, store, "Student", "s@example.com", "secret1", models.RoleStudent)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)

	claims, err := testutil.NewJWTService(clock).ValidateAndExtractClaims(resp.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), claims))

	revoked, err := denylist.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	clock.Advance(2 * time.Hour)
	revoked, err = denylist.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCurrentUser(t *testing.T) {
	svc, store, _, _ := newAuthFixture(t)
	user := testutil.CreateUser(t, store, "Student", "s@example.com", "secret1", models.RoleStudent)

	profile, err := svc.CurrentUser(context.Background(), auth.NewIdentity(user))
	require.NoError(t, err)
	assert.Equal(t, "Student", profile.Name)

	_, err = svc.CurrentUser(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
