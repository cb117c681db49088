package gotrue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medicine-reminder/internal/platform/httpclient"
	"medicine-reminder/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("gotrue client not configured")
	ErrUnauthorized  = errors.New("gotrue unauthorized")
	ErrUpstream      = errors.New("gotrue upstream error")
)

// Config del cliente GoTrue (auth de Supabase u otro despliegue compatible).
// BaseURL es la URL del proyecto; los paths /auth/v1/* se agregan aquí.
type Config struct {
	BaseURL string
	APIKey  string

	Timeout time.Duration
}

type Client struct {
	http   *httpclient.Client
	apiKey string
	now    func() time.Time
}

func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:   hc,
		apiKey: strings.TrimSpace(cfg.APIKey),
		now:    time.Now,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

var _ auth.Accounts = (*Client)(nil)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionPayload struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	ExpiresAt   int64       `json:"expires_at"`
	User        userPayload `json:"user"`

	// signup con confirmación por email devuelve el usuario plano
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignUp crea el usuario. Si el proyecto exige confirmar el email la sesión vuelve sin token.
func (c *Client) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, ErrNotConfigured
	}

	var out sessionPayload
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/v1/signup", c.headers(""), credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, &out)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) && strings.Contains(strings.ToLower(he.Body), "already registered") {
			return auth.Session{}, auth.ErrEmailTaken
		}
		return auth.Session{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return c.toSession(out), nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, ErrNotConfigured
	}

	var out sessionPayload
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.headers(""), credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, &out)
	if err != nil {
		if httpclient.IsStatus(err, http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity) {
			return auth.Session{}, auth.ErrInvalidCredentials
		}
		return auth.Session{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return auth.Session{}, fmt.Errorf("%w: missing access_token", ErrUpstream)
	}

	return c.toSession(out), nil
}

// GetUser resuelve el usuario dueño del token.
func (c *Client) GetUser(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	var out userPayload
	if err := c.http.GetJSON(ctx, "/auth/v1/user", c.headers(token), &out); err != nil {
		if httpclient.IsStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user id", ErrUpstream)
	}
	return auth.Claims{UserID: out.ID, Email: strings.TrimSpace(out.Email)}, nil
}

func (c *Client) headers(token string) map[string]string {
	h := map[string]string{"apikey": c.apiKey}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

func (c *Client) toSession(p sessionPayload) auth.Session {
	uid, email := p.User.ID, p.User.Email
	if uid == "" {
		uid, email = p.ID, p.Email
	}

	var exp time.Time
	switch {
	case p.ExpiresAt > 0:
		exp = time.Unix(p.ExpiresAt, 0).UTC()
	case p.ExpiresIn > 0:
		exp = c.now().UTC().Add(time.Duration(p.ExpiresIn) * time.Second)
	}

	return auth.Session{
		AccessToken: p.AccessToken,
		TokenType:   p.TokenType,
		ExpiresAt:   exp,
		UserID:      uid,
		Email:       email,
	}
}
