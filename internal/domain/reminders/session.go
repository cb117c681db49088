package reminders

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"medicine-reminder/internal/domain/registry"
	"medicine-reminder/internal/platform/logger"
)

const (
	FrameWelcome           = "welcome"
	FrameNotification      = "notification"
	FrameToast             = "toast"
	FramePermissionRequest = "permission_request"
	FramePermission        = "permission" // respuesta del cliente; el servidor la confirma con el mismo tipo
)

// Frame es el sobre de todo mensaje websocket.
type Frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type permissionPayload struct {
	Permission Permission `json:"permission"`
}

const sendBuffer = 64

// Session es una conexión de recordatorios (una pestaña). Todo lo que se le envía
// se encola en send; el write pump lo saca hacia la red.
type Session struct {
	ID     string
	UserID string

	initial Permission
	log     logger.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool

	permCh chan Permission
}

func NewSession(userID string, initial Permission, log logger.Logger) *Session {
	if log == nil {
		log = logger.Discard()
	}
	id := uuid.NewString()
	return &Session{
		ID:      id,
		UserID:  userID,
		initial: initial,
		log:     log.With(logger.Fields{"session_id": id, "user_id": userID}),
		send:    make(chan []byte, sendBuffer),
		permCh:  make(chan Permission, 1),
	}
}

// Outbound es el canal que consume el write pump. Se cierra con Close.
func (s *Session) Outbound() <-chan []byte { return s.send }

// Enqueue no bloquea: si el buffer está lleno el frame se descarta.
func (s *Session) Enqueue(f Frame) bool {
	b, err := json.Marshal(f)
	if err != nil {
		s.log.Error("marshal frame", logger.Fields{"type": f.Type, "err": err})
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.send <- b:
		return true
	default:
		s.log.Warn("session buffer full, frame dropped", logger.Fields{"type": f.Type})
		return false
	}
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// RequestPermission: granted y denied son definitivos (denied no se puede volver a preguntar);
// con default se le pide al cliente y se espera su respuesta.
func (s *Session) RequestPermission(ctx context.Context) (Permission, error) {
	if s.initial == PermissionGranted || s.initial == PermissionDenied {
		return s.initial, nil
	}

	s.Enqueue(Frame{Type: FramePermissionRequest})

	select {
	case p := <-s.permCh:
		return p, nil
	case <-ctx.Done():
		return PermissionDefault, ctx.Err()
	}
}

// DeliverPermission entrega la respuesta del cliente a un RequestPermission pendiente.
func (s *Session) DeliverPermission(p Permission) {
	select {
	case s.permCh <- p:
	default:
		// ya había una respuesta sin leer; gana la más nueva
		select {
		case <-s.permCh:
		default:
		}
		select {
		case s.permCh <- p:
		default:
		}
	}
}

// NativeNotifier envía el recordatorio como notificación del sistema.
func (s *Session) NativeNotifier() Notifier {
	return NotifierFunc(func(n Notification) {
		s.Enqueue(Frame{Type: FrameNotification, Payload: n})
	})
}

// ToastNotifier envía el recordatorio como toast dentro de la app.
func (s *Session) ToastNotifier() Notifier {
	return NotifierFunc(func(n Notification) {
		s.Enqueue(Frame{Type: FrameToast, Payload: registry.Toast{
			Title:       n.Title,
			Description: n.Body,
			Variant:     registry.ToastDefault,
		}})
	})
}

// Sessions indexa las sesiones abiertas por usuario. Implementa registry.Reporter:
// los toasts del registry llegan a todas las pestañas del usuario.
type Sessions struct {
	mu     sync.RWMutex
	byUser map[string]map[*Session]struct{}
}

var _ registry.Reporter = (*Sessions)(nil)

func NewSessions() *Sessions {
	return &Sessions{byUser: make(map[string]map[*Session]struct{})}
}

func (h *Sessions) Add(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.byUser[s.UserID]
	if !ok {
		set = make(map[*Session]struct{})
		h.byUser[s.UserID] = set
	}
	set[s] = struct{}{}
}

func (h *Sessions) Remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.byUser[s.UserID]
	if !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.byUser, s.UserID)
	}
}

func (h *Sessions) Count(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

func (h *Sessions) Report(userID string, t registry.Toast) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.byUser[userID] {
		s.Enqueue(Frame{Type: FrameToast, Payload: t})
	}
}
