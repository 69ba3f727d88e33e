package users

import "time"

type Status string

const (
	StatusActive   Status = "activo"
	StatusInactive Status = "inactivo"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User es una cuenta del personal. PasswordHash guarda bcrypt, nunca la
// contraseña en claro, y no se serializa hacia afuera.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	RoleID       string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ResetToken es un token de un solo uso para recuperar la contraseña.
// Se persiste ANTES de notificar al usuario: si la notificación falla,
// el token sigue siendo válido y se puede reenviar.
type ResetToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
