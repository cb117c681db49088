package medicines

import "time"

type ExpiryStatus string

const (
	ExpiryNone         ExpiryStatus = "none"
	ExpiryOK           ExpiryStatus = "ok"
	ExpiryExpiringSoon ExpiryStatus = "expiring_soon"
	ExpiryExpired      ExpiryStatus = "expired"
)

// ExpiringSoonDays es la ventana de aviso antes del vencimiento.
const ExpiringSoonDays = 7

// DateLayout es el formato de expiry_date.
const DateLayout = "2006-01-02"

// DaysUntilExpiry cuenta días de calendario entre hoy (en la zona de now) y la fecha de vencimiento.
func DaysUntilExpiry(expiry, now time.Time) int {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := expiry.Date()
	exp := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(exp.Sub(today).Hours() / 24)
}

// Expiry devuelve el estado de vencimiento y los días restantes (nil si no hay fecha).
func (m Medicine) Expiry(now time.Time) (ExpiryStatus, *int) {
	if m.ExpiryDate == nil {
		return ExpiryNone, nil
	}
	days := DaysUntilExpiry(*m.ExpiryDate, now)
	switch {
	case days < 0:
		return ExpiryExpired, &days
	case days <= ExpiringSoonDays:
		return ExpiryExpiringSoon, &days
	default:
		return ExpiryOK, &days
	}
}

// Stats resume el listado para el dashboard.
type Stats struct {
	Total           int `json:"total"`
	ExpiringSoon    int `json:"expiring_soon"`
	Expired         int `json:"expired"`
	ActiveReminders int `json:"active_reminders"`
}

func ComputeStats(items []Medicine, now time.Time) Stats {
	s := Stats{Total: len(items)}
	for _, m := range items {
		switch st, _ := m.Expiry(now); st {
		case ExpiryExpired:
			s.Expired++
		case ExpiryExpiringSoon:
			s.ExpiringSoon++
		}
		if m.HasActiveReminders() {
			s.ActiveReminders++
		}
	}
	return s
}
