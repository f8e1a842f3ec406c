package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string // único
	Email        string // único
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// IsAdmin indica si el usuario tiene rol administrador.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor es la identidad autenticada que ejecuta una operación.
type Actor struct {
	UserID string
	Role   string
}
