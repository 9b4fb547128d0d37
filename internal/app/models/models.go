package models

// Role defines the user role
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
)

// Roles lists every valid role
var Roles = []Role{RoleAdmin, RoleStudent, RoleInstructor}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleInstructor:
		return true
	}
	return false
}
