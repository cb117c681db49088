package users

import "time"

// User es una cuenta local (modo AUTH_MODE=local).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
