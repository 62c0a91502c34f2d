package models

// Role is the role name stored in the users table
type Role string

// Role constants
const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// User represents an account of the learning platform
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsStudent reports whether access to course content is limited to enrolled courses
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}
