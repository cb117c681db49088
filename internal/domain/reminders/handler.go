package reminders

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"medicine-reminder/internal/domain/registry"
	"medicine-reminder/internal/middleware"
	"medicine-reminder/internal/platform/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Registries da el snapshot compartido de cada usuario (registry.Hub lo implementa).
type Registries interface {
	Get(ctx context.Context, userID string) (*registry.Registry, error)
}

type Handler struct {
	Sessions   *Sessions
	Registries Registries
	Clock      Clock
	Interval   time.Duration
	Location   *time.Location // default si el cliente no manda tz
	Logger     logger.Logger

	upgrader websocket.Upgrader
}

func RegisterRoutes(r chi.Router, h *Handler) {
	if h.Logger == nil {
		h.Logger = logger.Discard()
	}
	if h.Location == nil {
		h.Location = time.Local
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // el token ya autentica la conexión
		},
	}

	r.Get("/reminders/ws", h.serveWS)
}

type welcomePayload struct {
	SessionID       string     `json:"session_id"`
	Permission      Permission `json:"permission"`
	Timezone        string     `json:"timezone"`
	IntervalSeconds int        `json:"interval_seconds"`
	Medicines       int        `json:"medicines"`
}

// serveWS godoc
// @Summary Sesión de recordatorios (websocket)
// @Description Abre una sesión: el servidor revisa los horarios cada minuto y envía frames notification/toast.
// @Description Para autenticar en el handshake usar ?access_token= (o ?debug_user_id= en modo dev).
// @Tags reminders
// @Param permission query string false "granted | denied | default"
// @Param tz query string false "Zona horaria IANA (ej. Asia/Kolkata)"
// @Success 101
// @Failure 401 {string} string "unauthorized"
// @Router /reminders/ws [get]
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	loc := h.Location
	if tz := strings.TrimSpace(r.URL.Query().Get("tz")); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			http.Error(w, "invalid tz", http.StatusBadRequest)
			return
		}
		loc = l
	}
	permission := ParsePermission(r.URL.Query().Get("permission"))

	reg, err := h.Registries.Get(r.Context(), claims.UserID)
	if err != nil {
		// la sesión sigue con snapshot vacío; el fallo ya se reportó
		h.Logger.Warn("registry load failed for session", logger.Fields{"user_id": claims.UserID, "err": err})
	}
	if reg == nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", logger.Fields{"user_id": claims.UserID, "err": err})
		return
	}

	sess := NewSession(claims.UserID, permission, h.Logger)
	log := sess.log

	interval := h.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	welcome, _ := json.Marshal(Frame{Type: FrameWelcome, Payload: welcomePayload{
		SessionID:       sess.ID,
		Permission:      permission,
		Timezone:        loc.String(),
		IntervalSeconds: int(interval / time.Second),
		Medicines:       len(reg.List()),
	}})
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, welcome); err != nil {
		log.Warn("welcome write failed", logger.Fields{"err": err})
		_ = conn.Close()
		return
	}

	h.Sessions.Add(sess)
	log.Info("reminder session opened", logger.Fields{"permission": string(permission), "tz": loc.String()})

	// la sesión vive lo que viva la conexión, no el request
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		writePump(conn, sess, log)
	}()

	d := NewDispatcher(Config{
		Source:      reg,
		Clock:       h.Clock,
		Permissions: sess,
		Native:      sess.NativeNotifier(),
		Toast:       sess.ToastNotifier(),
		Location:    loc,
		Interval:    interval,
		Logger:      log,
	})
	if permission != PermissionDefault {
		d.SetPermission(permission)
	}
	if err := d.Start(ctx); err != nil {
		log.Error("dispatcher start failed", logger.Fields{"err": err})
	}

	readPump(conn, sess, d, log)

	cancel()
	d.Stop()
	h.Sessions.Remove(sess)
	sess.Close()
	<-pumpDone
	log.Info("reminder session closed", nil)
}

// readPump procesa frames del cliente hasta que la conexión se corta.
func readPump(conn *websocket.Conn, sess *Session, d *Dispatcher, log logger.Logger) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", logger.Fields{"err": err})
			}
			return
		}

		var f struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(message, &f); err != nil {
			log.Debug("invalid frame", logger.Fields{"err": err})
			continue
		}

		switch f.Type {
		case FramePermission:
			var p permissionPayload
			if err := json.Unmarshal(f.Payload, &p); err != nil {
				log.Debug("invalid permission frame", logger.Fields{"err": err})
				continue
			}
			perm := ParsePermission(string(p.Permission))
			sess.DeliverPermission(perm)
			cur := d.SetPermission(perm)
			sess.Enqueue(Frame{Type: FramePermission, Payload: permissionPayload{Permission: cur}})
		default:
			log.Debug("unknown frame type", logger.Fields{"type": f.Type})
		}
	}
}

// writePump saca los frames encolados y manda pings periódicos.
func writePump(conn *websocket.Conn, sess *Session, log logger.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-sess.Outbound():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug("websocket write error", logger.Fields{"err": err})
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
