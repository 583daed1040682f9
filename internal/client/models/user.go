package models

// Role is the account role assigned by the backend.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AuthResult is the payload returned by login and registration.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
