package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medicine-reminder/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTTL = 24 * time.Hour

	// DefaultAudience coincide con el aud de los tokens de Supabase/GoTrue,
	// así el mismo verificador sirve para tokens locales y del backend gestionado.
	DefaultAudience = "authenticated"
)

var (
	ErrSecretRequired = errors.New("jwt secret required")
	ErrInvalidToken   = errors.New("invalid token")
)

type Config struct {
	Secret   string
	TTL      time.Duration
	Issuer   string
	Audience string
}

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Manager emite y verifica tokens HS256.
type Manager struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

func New(cfg Config) (*Manager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrSecretRequired
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	aud := strings.TrimSpace(cfg.Audience)
	if aud == "" {
		aud = DefaultAudience
	}
	return &Manager{
		secret:   []byte(cfg.Secret),
		ttl:      ttl,
		issuer:   strings.TrimSpace(cfg.Issuer),
		audience: aud,
		now:      time.Now,
	}, nil
}

var _ auth.AuthVerifier = (*Manager)(nil)

func (m *Manager) Issue(userID, email string) (auth.Session, error) {
	now := m.now().UTC()
	exp := now.Add(m.ttl)

	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return auth.Session{}, fmt.Errorf("sign token: %w", err)
	}

	return auth.Session{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   exp,
		UserID:      userID,
		Email:       email,
	}, nil
}

func (m *Manager) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	return auth.Claims{UserID: sub, Email: claims.Email}, nil
}
