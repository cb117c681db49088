package auth

import "time"

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
}

// Session es lo que devuelve un alta o login exitoso.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	UserID      string
	Email       string
}
