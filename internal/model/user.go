package model

import "time"

// Roles stored in user_roles.
const (
	RoleAdmin = "admin"
)

// User is an authenticated admin identity (Google sign-in).
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	GoogleID  string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
