package dto

import "time"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"admin@dialogika.com"`
	Password string `json:"password" validate:"required" example:"admin123"`
}

// Normalize trims the email and lower-cases it
func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

// RegisterRequest is the admin only registration body
type RegisterRequest = CreateUserRequest

// AuthResponse is returned by login and register
type AuthResponse struct {
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
}
