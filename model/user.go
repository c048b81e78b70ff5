package model

import "time"

// Role is the immutable role chosen at signup.
type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

// User represents a registered user in the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose password in JSON
}

// IsProfessor reports whether the user holds the professor role.
func (u *User) IsProfessor() bool {
	return u != nil && u.Role == RoleProfessor
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
	Role     Role   `json:"role" form:"role" validate:"required,oneof=student professor"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
