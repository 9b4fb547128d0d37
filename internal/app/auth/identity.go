package auth

import (
	"time"

	"github.com/yigit/coursehub/internal/app/models"
)

// Identity is the authenticated caller attached to a request
type Identity struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	Avatar    *string     `json:"avatar"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewIdentity projects a user row into an identity
func NewIdentity(u *models.User) *Identity {
	return &Identity{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// IsAdmin reports whether the identity has the ADMIN role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}
