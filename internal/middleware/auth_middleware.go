package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	pkgauth "github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/cache"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

const (
	identityKey = "identity"
	claimsKey   = "claims"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *pkgauth.JWTService
	userRepo   repositories.IUserRepository
	denylist   cache.TokenDenylist
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *pkgauth.JWTService, userRepo repositories.IUserRepository, denylist cache.TokenDenylist) *AuthMiddleware {
	if denylist == nil {
		denylist = cache.NoopTokenDenylist{}
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
		denylist:   denylist,
	}
}

func unauthorized(c *gin.Context, message string, err error) {
	logger.Debug().Err(err).Str("path", c.FullPath()).Msg("Authentication failed")
	AbortWithError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, message)
}

// Authenticate verifies the bearer token, re-loads the user and attaches the
// identity to the context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := pkgauth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			unauthorized(c, "Access token required", err)
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			unauthorized(c, "Invalid token", err)
			return
		}

		if claims.ID != "" {
			revoked, err := m.denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn().Err(err).Msg("Token denylist lookup failed")
			}
			if revoked {
				unauthorized(c, "Invalid token", apperrors.ErrTokenRevoked)
				return
			}
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			unauthorized(c, "Invalid token", fmt.Errorf("user lookup failed: %w", err))
			return
		}

		c.Set(identityKey, auth.NewIdentity(user))
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects callers without the ADMIN role. Without an identity it
// fails closed with 401.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentUser(c)
		if identity == nil {
			AbortWithError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}
		if !identity.IsAdmin() {
			AbortWithError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// RequireOwnershipOrAdmin passes admins and callers whose id equals the named
// path parameter
func (m *AuthMiddleware) RequireOwnershipOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentUser(c)
		if identity == nil {
			AbortWithError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}
		if identity.IsAdmin() || (identity.ID != "" && identity.ID == c.Param(param)) {
			c.Next()
			return
		}
		AbortWithError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Access denied")
	}
}

// Require builds the handler chain enforcing a policy
func (m *AuthMiddleware) Require(policy auth.Policy) []gin.HandlerFunc {
	switch policy.Permission {
	case auth.PermissionPublic:
		return nil
	case auth.PermissionAuthenticated:
		return []gin.HandlerFunc{m.Authenticate()}
	case auth.PermissionSelfOrAdmin:
		return []gin.HandlerFunc{m.Authenticate(), m.RequireOwnershipOrAdmin(policy.OwnerParam)}
	default:
		return []gin.HandlerFunc{m.Authenticate(), m.RequireAdmin()}
	}
}

// CurrentUser returns the identity attached by Authenticate, or nil
func CurrentUser(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}

// CurrentClaims returns the verified token claims attached by Authenticate, or nil
func CurrentClaims(c *gin.Context) *pkgauth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*pkgauth.Claims)
	return claims
}
