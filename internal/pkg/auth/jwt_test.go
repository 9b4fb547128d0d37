package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newTestService(now time.Time) (*JWTService, *time.Time) {
	clock := now
	svc := NewJWTService(JWTConfig{SecretKey: testSecret, TokenIssuer: "coursehub.test"})
	svc.WithClock(func() time.Time { return clock })
	return svc, &clock
}

func TestGenerateAndValidateToken(t *testing.T) {
	start := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(start)

	token, expiresAt, err := svc.GenerateToken("user-1", "admin@example.com", "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, start.Add(7*24*time.Hour), expiresAt)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "coursehub.test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenExpired(t *testing.T) {
	start := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc, clock := newTestService(start)

	token, _, err := svc.GenerateToken("user-1", "student@example.com", "STUDENT")
	require.NoError(t, err)

	*clock = start.Add(6 * 24 * time.Hour)
	_, err = svc.ValidateToken(token)
	require.NoError(t, err)

	*clock = start.Add(7*24*time.Hour + time.Minute)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _ := newTestService(time.Now())

	token, _, err := svc.GenerateToken("user-1", "student@example.com", "STUDENT")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "another-secret"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	svc, _ := newTestService(time.Now())
	claims := &Claims{
		UserID: "user-1",
		Email:  "student@example.com",
		Role:   "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAndExtractClaimsRequiresIdentity(t *testing.T) {
	svc, _ := newTestService(time.Now())

	token, _, err := svc.GenerateToken("", "student@example.com", "STUDENT")
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty", header: "", wantErr: true},
		{name: "raw token", header: "abc.def.ghi", wantErr: true},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", wantErr: true},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "missing token", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
