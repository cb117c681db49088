package reminders

import (
	"context"
	"strings"

	"medicine-reminder/internal/domain/medicines"
)

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// ParsePermission: cualquier valor desconocido es "default" (sin decidir).
func ParsePermission(s string) Permission {
	switch Permission(strings.ToLower(strings.TrimSpace(s))) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionDefault
	}
}

// PermissionRequester pide permiso de notificaciones nativas. Puede bloquear hasta que el usuario responda.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) (Permission, error)
}

const NotificationTitle = "Medicine Reminder"

// Notification es un recordatorio listo para mostrar.
type Notification struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	Tag                string `json:"tag"`
	RequireInteraction bool   `json:"require_interaction"`
	MedicineID         string `json:"medicine_id"`
	Slot               string `json:"slot"`
}

func NewNotification(m medicines.Medicine, slot string) Notification {
	return Notification{
		Title:              NotificationTitle,
		Body:               "Time to take " + m.Name + " (" + m.Dosage + ")",
		Tag:                m.ID + "-" + slot,
		RequireInteraction: true,
		MedicineID:         m.ID,
		Slot:               slot,
	}
}

// Notifier entrega una notificación sin bloquear (encola).
type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

// Source es el snapshot de medicamentos del usuario (registry.Registry lo implementa).
type Source interface {
	List() []medicines.Medicine
}
