package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"medicine-reminder/internal/middleware"
	"medicine-reminder/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, accounts auth.Accounts) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signUpHandler(accounts))
		ar.Post("/signin", signInHandler(accounts))
	})

	r.Get("/me", meHandler())
}

// credentialsRequest es el cuerpo de alta y login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse es la sesión emitida tras alta o login.
type sessionResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
}

type meResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// signUpHandler godoc
// @Summary Registrar usuario
// @Description Crea una cuenta (local o en el backend de auth configurado) y devuelve una sesión.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "Email y contraseña"
// @Success 201 {object} sessionResponse
// @Failure 400 {string} string "invalid json / email o contraseña inválidos"
// @Failure 409 {string} string "email already registered"
// @Router /auth/signup [post]
func signUpHandler(accounts auth.Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if accounts == nil {
			http.Error(w, "accounts not configured", http.StatusNotImplemented)
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := accounts.SignUp(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrEmailTaken):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toSessionResponse(sess))
	}
}

// signInHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "Email y contraseña"
// @Success 200 {object} sessionResponse
// @Failure 401 {string} string "invalid credentials"
// @Router /auth/signin [post]
func signInHandler(accounts auth.Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if accounts == nil {
			http.Error(w, "accounts not configured", http.StatusNotImplemented)
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := accounts.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}

func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, meResponse{UserID: claims.UserID, Email: claims.Email})
	}
}

func toSessionResponse(s auth.Session) sessionResponse {
	tt := s.TokenType
	if tt == "" {
		tt = "bearer"
	}
	return sessionResponse{
		AccessToken: s.AccessToken,
		TokenType:   tt,
		ExpiresAt:   s.ExpiresAt,
		UserID:      s.UserID,
		Email:       s.Email,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
