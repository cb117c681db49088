package medicines

import (
	"net/url"
	"strings"
	"time"
)

// Medicine es un registro de medicamento de un usuario.
// Los textos opcionales vacíos se consideran ausentes.
type Medicine struct {
	ID          string
	OwnerUserID string

	Name   string
	Dosage string

	ScheduleTimes []string // HH:MM 24h, únicos y ordenados

	ExpiryDate *time.Time // solo fecha
	Barcode    string

	Description string
	UsedFor     string
	Precautions string

	ReminderEnabled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone copia slices y punteros para que el snapshot no comparta memoria con el caller.
func (m Medicine) Clone() Medicine {
	out := m
	if m.ScheduleTimes != nil {
		out.ScheduleTimes = append([]string(nil), m.ScheduleTimes...)
	}
	if m.ExpiryDate != nil {
		d := *m.ExpiryDate
		out.ExpiryDate = &d
	}
	return out
}

// HasActiveReminders: recordatorio habilitado y al menos un horario.
func (m Medicine) HasActiveReminders() bool {
	return m.ReminderEnabled && len(m.ScheduleTimes) > 0
}

// Matches busca query (case-insensitive) en nombre y dosis.
func (m Medicine) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.Dosage), q)
}

type OrderLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// OrderLinks arma búsquedas en farmacias online para el nombre del medicamento.
func OrderLinks(name string) []OrderLink {
	q := strings.ReplaceAll(url.QueryEscape(strings.TrimSpace(name)), "+", "%20")
	return []OrderLink{
		{Name: "Tata 1mg", URL: "https://www.1mg.com/search/all?name=" + q},
		{Name: "NetMeds", URL: "https://www.netmeds.com/catalogsearch/result?q=" + q},
		{Name: "PharmEasy", URL: "https://pharmeasy.in/search/all?name=" + q},
	}
}
