package dto

import (
	"strings"
	"time"

	"github.com/yigit/coursehub/internal/app/models"
)

// UserResponse is the identity projection of a user, without the password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	Avatar    *string     `json:"avatar"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewUserResponse converts a user model into a response
func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserResponses converts a list of users
func NewUserResponses(users []*models.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// CreateUserRequest represents the data needed to create a user
type CreateUserRequest struct {
	Name     string      `json:"name" validate:"required,min=2,max=50" example:"Jane Doe"`
	Email    string      `json:"email" validate:"required,email" example:"student1@example.com"`
	Password string      `json:"password" validate:"required,min=6,maxbytes=72" example:"student123"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=ADMIN STUDENT INSTRUCTOR" example:"STUDENT"`
	Avatar   *string     `json:"avatar" validate:"omitempty,url"`
}

// Normalize trims input, lower-cases the email and defaults the role to STUDENT
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Role = models.Role(strings.ToUpper(strings.TrimSpace(string(r.Role))))
	if r.Role == "" {
		r.Role = models.RoleStudent
	}
	optionalURL(&r.Avatar)
}

// UpdateUserRequest is an admin partial update; nil fields are left unchanged
type UpdateUserRequest struct {
	Name   *string      `json:"name" validate:"omitempty,min=2,max=50"`
	Email  *string      `json:"email" validate:"omitempty,email"`
	Avatar *string      `json:"avatar" validate:"omitempty,url"`
	Role   *models.Role `json:"role" validate:"omitempty,oneof=ADMIN STUDENT INSTRUCTOR"`

	clearAvatar bool
}

// Normalize trims input. An empty avatar clears the stored avatar.
func (r *UpdateUserRequest) Normalize() {
	trimPtr(r.Name)
	normalizeEmailPtr(r.Email)
	if r.Role != nil {
		role := models.Role(strings.ToUpper(strings.TrimSpace(string(*r.Role))))
		r.Role = &role
	}
	r.clearAvatar = optionalURL(&r.Avatar)
}

// Changes returns the column updates carried by the request
func (r *UpdateUserRequest) Changes() map[string]interface{} {
	changes := profileChanges(r.Name, r.Email, r.Avatar, r.clearAvatar)
	if r.Role != nil {
		changes["role"] = string(*r.Role)
	}
	return changes
}

// UpdateProfileRequest is a self-service update. Role is not accepted.
type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=50"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`

	clearAvatar bool
}

// Normalize trims input. An empty avatar clears the stored avatar.
func (r *UpdateProfileRequest) Normalize() {
	trimPtr(r.Name)
	normalizeEmailPtr(r.Email)
	r.clearAvatar = optionalURL(&r.Avatar)
}

// Changes returns the column updates carried by the request
func (r *UpdateProfileRequest) Changes() map[string]interface{} {
	return profileChanges(r.Name, r.Email, r.Avatar, r.clearAvatar)
}

func profileChanges(name, email, avatar *string, clearAvatar bool) map[string]interface{} {
	changes := map[string]interface{}{}
	if name != nil {
		changes["name"] = *name
	}
	if email != nil {
		changes["email"] = *email
	}
	if avatar != nil {
		changes["avatar"] = *avatar
	} else if clearAvatar {
		changes["avatar"] = nil
	}
	return changes
}

// UpdatePasswordRequest sets a new password for a user
type UpdatePasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6,maxbytes=72"`
}

// UserListQuery filters the admin user list
type UserListQuery struct {
	Page   int
	Limit  int
	Search string
	Role   models.Role
}
