package registry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/middleware"
)

const msgExpiryFormat = "Expiry date must be YYYY-MM-DD"

func RegisterRoutes(r chi.Router, hub *Hub) {
	now := time.Now

	r.Route("/medicines", func(mr chi.Router) {
		mr.Get("/", listMedicinesHandler(hub, now))
		mr.Post("/", createMedicineHandler(hub, now))
		mr.Get("/stats", statsHandler(hub, now))

		mr.Get("/{medicineID}", getMedicineHandler(hub, now))
		mr.Patch("/{medicineID}", updateMedicineHandler(hub, now))
		mr.Delete("/{medicineID}", deleteMedicineHandler(hub))
	})
}

type createMedicineRequest struct {
	Name            string   `json:"name"`
	Dosage          string   `json:"dosage"`
	ScheduleTimes   []string `json:"schedule_times"`
	ExpiryDate      *string  `json:"expiry_date"` // YYYY-MM-DD o null
	Barcode         *string  `json:"barcode"`
	Description     *string  `json:"description"`
	UsedFor         *string  `json:"used_for"`
	Precautions     *string  `json:"precautions"`
	ReminderEnabled *bool    `json:"reminder_enabled"`
}

type updateMedicineRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name            *string   `json:"name"`
	Dosage          *string   `json:"dosage"`
	ScheduleTimes   *[]string `json:"schedule_times"`
	ReminderEnabled *bool     `json:"reminder_enabled"`
}

type medicineResponse struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	Name            string                 `json:"name"`
	Dosage          string                 `json:"dosage"`
	ScheduleTimes   []string               `json:"schedule_times"`
	ExpiryDate      *string                `json:"expiry_date"`
	Barcode         *string                `json:"barcode"`
	Description     *string                `json:"description"`
	UsedFor         *string                `json:"used_for"`
	Precautions     *string                `json:"precautions"`
	ReminderEnabled bool                   `json:"reminder_enabled"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	ExpiryStatus    medicines.ExpiryStatus `json:"expiry_status"`
	DaysUntilExpiry *int                   `json:"days_until_expiry"`
	OrderLinks      []medicines.OrderLink  `json:"order_links"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// listMedicinesHandler godoc
// @Summary Listar medicamentos
// @Description Medicamentos del usuario, más nuevos primero. q filtra por nombre o dosis.
// @Tags medicines
// @Produce json
// @Param q query string false "Búsqueda"
// @Success 200 {array} medicineResponse
// @Failure 401 {string} string "unauthorized"
// @Router /medicines [get]
func listMedicinesHandler(hub *Hub, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		reg, err := hub.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		q := r.URL.Query().Get("q")
		t := now()
		out := make([]medicineResponse, 0)
		for _, m := range reg.List() {
			if m.Matches(q) {
				out = append(out, toMedicineResponse(m, t))
			}
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// statsHandler godoc
// @Summary Resumen del dashboard
// @Tags medicines
// @Produce json
// @Success 200 {object} medicines.Stats
// @Router /medicines/stats [get]
func statsHandler(hub *Hub, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		reg, err := hub.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, medicines.ComputeStats(reg.List(), now()))
	}
}

// createMedicineHandler godoc
// @Summary Agregar medicamento
// @Tags medicines
// @Accept json
// @Produce json
// @Param body body createMedicineRequest true "Medicamento"
// @Success 201 {object} medicineResponse
// @Failure 400 {object} validationResponse
// @Router /medicines [post]
func createMedicineHandler(hub *Hub, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var exp *time.Time
		if req.ExpiryDate != nil && strings.TrimSpace(*req.ExpiryDate) != "" {
			t, err := time.Parse(medicines.DateLayout, strings.TrimSpace(*req.ExpiryDate))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, validationResponse{
					Error:  "validation failed",
					Fields: map[string]string{"expiry_date": msgExpiryFormat},
				})
				return
			}
			exp = &t
		}

		reg, err := hub.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		m, err := reg.Create(r.Context(), medicines.CreateInput{
			Name:            req.Name,
			Dosage:          req.Dosage,
			ScheduleTimes:   req.ScheduleTimes,
			ExpiryDate:      exp,
			Barcode:         deref(req.Barcode),
			Description:     deref(req.Description),
			UsedFor:         deref(req.UsedFor),
			Precautions:     deref(req.Precautions),
			ReminderEnabled: req.ReminderEnabled,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicineResponse(m, now()))
	}
}

// getMedicineHandler godoc
// @Summary Ver medicamento
// @Tags medicines
// @Produce json
// @Param medicineID path string true "ID"
// @Success 200 {object} medicineResponse
// @Failure 404 {string} string "medicine not found"
// @Router /medicines/{medicineID} [get]
func getMedicineHandler(hub *Hub, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		reg, err := hub.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		m, found := reg.Get(chi.URLParam(r, "medicineID"))
		if !found {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toMedicineResponse(m, now()))
	}
}

// updateMedicineHandler godoc
// @Summary Actualizar medicamento
// @Description PATCH: los campos ausentes no se tocan; null limpia expiry_date, barcode, description, used_for y precautions.
// @Tags medicines
// @Accept json
// @Produce json
// @Param medicineID path string true "ID"
// @Success 200 {object} medicineResponse
// @Failure 400 {object} validationResponse
// @Failure 404 {string} string "medicine not found"
// @Router /medicines/{medicineID} [patch]
func updateMedicineHandler(hub *Hub, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Decodificamos a map primero para distinguir "null" de "no enviado".
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateMedicineRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		in := medicines.UpdateInput{
			Name:            req.Name,
			Dosage:          req.Dosage,
			ScheduleTimes:   req.ScheduleTimes,
			ReminderEnabled: req.ReminderEnabled,
		}

		var err error
		if in.Barcode, err = nullableText(raw, "barcode"); err != nil {
			http.Error(w, "barcode must be a string or null", http.StatusBadRequest)
			return
		}
		if in.Description, err = nullableText(raw, "description"); err != nil {
			http.Error(w, "description must be a string or null", http.StatusBadRequest)
			return
		}
		if in.UsedFor, err = nullableText(raw, "used_for"); err != nil {
			http.Error(w, "used_for must be a string or null", http.StatusBadRequest)
			return
		}
		if in.Precautions, err = nullableText(raw, "precautions"); err != nil {
			http.Error(w, "precautions must be a string or null", http.StatusBadRequest)
			return
		}

		exp, err := nullableText(raw, "expiry_date")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, validationResponse{
				Error:  "validation failed",
				Fields: map[string]string{"expiry_date": msgExpiryFormat},
			})
			return
		}
		if exp.Present {
			in.ExpiryDate.Present = true
			if exp.Value != nil && strings.TrimSpace(*exp.Value) != "" {
				t, err := time.Parse(medicines.DateLayout, strings.TrimSpace(*exp.Value))
				if err != nil {
					writeJSON(w, http.StatusBadRequest, validationResponse{
						Error:  "validation failed",
						Fields: map[string]string{"expiry_date": msgExpiryFormat},
					})
					return
				}
				in.ExpiryDate.Value = &t
			}
		}

		reg, err := hub.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		updated, err := reg.Update(r.Context(), chi.URLParam(r, "medicineID"), in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMedicineResponse(updated, now()))
	}
}

// deleteMedicineHandler godoc
// @Summary Eliminar medicamento
// @Tags medicines
// @Param medicineID path string true "ID"
// @Success 204
// @Failure 404 {string} string "medicine not found"
// @Router /medicines/{medicineID} [delete]
func deleteMedicineHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		reg, err := hub.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := reg.Remove(r.Context(), chi.URLParam(r, "medicineID")); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var ve *medicines.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: ve.Fields})
	case errors.Is(err, medicines.ErrNotFound):
		http.Error(w, "medicine not found", http.StatusNotFound)
	case errors.Is(err, medicines.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// nullableText detecta presencia del campo para permitir null = limpiar.
func nullableText(raw map[string]json.RawMessage, key string) (medicines.NullableText, error) {
	v, exists := raw[key]
	if !exists {
		return medicines.NullableText{}, nil
	}
	if string(v) == "null" {
		return medicines.NullableText{Present: true}, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return medicines.NullableText{}, err
	}
	return medicines.NullableText{Present: true, Value: &s}, nil
}

func toMedicineResponse(m medicines.Medicine, now time.Time) medicineResponse {
	status, days := m.Expiry(now)

	var exp *string
	if m.ExpiryDate != nil {
		s := m.ExpiryDate.Format(medicines.DateLayout)
		exp = &s
	}

	times := m.ScheduleTimes
	if times == nil {
		times = []string{}
	}

	return medicineResponse{
		ID:              m.ID,
		UserID:          m.OwnerUserID,
		Name:            m.Name,
		Dosage:          m.Dosage,
		ScheduleTimes:   times,
		ExpiryDate:      exp,
		Barcode:         optional(m.Barcode),
		Description:     optional(m.Description),
		UsedFor:         optional(m.UsedFor),
		Precautions:     optional(m.Precautions),
		ReminderEnabled: m.ReminderEnabled,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		ExpiryStatus:    status,
		DaysUntilExpiry: days,
		OrderLinks:      medicines.OrderLinks(m.Name),
	}
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
