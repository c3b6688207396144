package models

// Role is the access level a user logs in with.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User represents an account of the application
type User struct {
	ID         int64     `json:"user_id" db:"user_id"`
	Username   string    `json:"username" db:"username"`
	Role       Role      `json:"role" db:"role"`
	Email      string    `json:"email,omitempty" db:"email"`
	CreateTime Timestamp `json:"create_time" db:"create_time"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// RegisterRequest is the body of POST /auth/register and of admin user creation.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// AuthResponse is returned by login and registration. A rejected attempt
// carries Success=false and a human readable Message.
type AuthResponse struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

// UserUpdate holds the fields an admin may change. Empty fields are left as is.
type UserUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role,omitempty"`
	Password string `json:"password,omitempty"`
}
