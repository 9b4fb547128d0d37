package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        string    `json:"id" db:"id" example:"5f0c7a1e-3b1d-4c8e-9a57-2f8d6f1b9c10"`
	Email     string    `json:"email" db:"email" example:"student1@example.com"` // stored lower-cased
	Password  string    `json:"-" db:"password"`                                 // bcrypt hash, never serialized
	Name      string    `json:"name" db:"name" example:"Jane Doe"`
	Role      Role      `json:"role" db:"role" example:"STUDENT"`
	Avatar    *string   `json:"avatar,omitempty" db:"avatar"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user has the ADMIN role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserSummary is the minimal creator projection embedded in courses
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
