package gotrue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medicine-reminder/internal/ports/auth"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon" {
			http.Error(w, "no apikey", http.StatusUnauthorized)
			return
		}
		var body credentials
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email == "taken@example.com" {
			http.Error(w, `{"msg":"User already registered"}`, http.StatusUnprocessableEntity)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600,"user":{"id":"u-1","email":"` + body.Email + `"}}`))
	})
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "password" {
			http.Error(w, "bad grant", http.StatusBadRequest)
			return
		}
		var body credentials
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "secret123" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_at":1893456000,"user":{"id":"u-1","email":"ana@example.com"}}`))
	})
	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1","email":"ana@example.com"}`))
	})
	return httptest.NewServer(mux)
}

func TestClient_SignUpSignInVerify(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "anon", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	sess, err := c.SignUp(context.Background(), "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if sess.UserID != "u-1" || sess.AccessToken != "tok" || !sess.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected signup session %#v", sess)
	}

	if _, err := c.SignUp(context.Background(), "taken@example.com", "secret123"); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := c.SignIn(context.Background(), "ana@example.com", "bad"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	sess, err = c.SignIn(context.Background(), "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if sess.ExpiresAt.Unix() != 1893456000 {
		t.Fatalf("expected expires_at honored, got %v", sess.ExpiresAt)
	}

	claims, err := NewVerifier(c).Verify(context.Background(), sess.AccessToken)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "ana@example.com" {
		t.Fatalf("unexpected claims %#v", claims)
	}

	if _, err := NewVerifier(c).Verify(context.Background(), "other"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.IsConfigured() {
		t.Fatalf("expected not configured")
	}
	if _, err := c.SignIn(context.Background(), "a@b.c", "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
