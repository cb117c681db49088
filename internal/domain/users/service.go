package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"medicine-reminder/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var ErrInvalidInput = errors.New("invalid input")

// TokenIssuer firma tokens de acceso para una cuenta.
type TokenIssuer interface {
	Issue(userID, email string) (auth.Session, error)
}

// Service implementa auth.Accounts con cuentas locales (bcrypt + tokens propios).
type Service struct {
	repo   Repository
	issuer TokenIssuer
	cost   int
	now    func() time.Time
}

func NewService(repo Repository, issuer TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
}

var _ auth.Accounts = (*Service)(nil)

func (s *Service) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return auth.Session{}, err
	}
	if len(password) < MinPasswordLength {
		return auth.Session{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return auth.Session{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return auth.Session{}, auth.ErrEmailTaken
		}
		return auth.Session{}, err
	}

	return s.issuer.Issue(u.ID, u.Email)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.Session{}, auth.ErrInvalidCredentials
		}
		return auth.Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	return s.issuer.Issue(u.ID, u.Email)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return email, nil
}
