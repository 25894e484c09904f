package models

// Role enumerates the operator roles issued by the backend.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleSeller Role = "VENDEDOR"
)

// User is the authenticated operator as returned by the backend.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the user carries the administrator role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the user it was issued for.
type LoginResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
	User  User   `json:"usuario"`
}

// UserRequest is the create/update payload for operator accounts.
type UserRequest struct {
	Name      string `json:"nome" binding:"notblank"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password,omitempty" binding:"omitempty,min=6"`
	Role      Role   `json:"role" binding:"required,oneof=ADMIN VENDEDOR"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}
