package registry

import (
	"context"
	"strings"
	"sync"

	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/platform/logger"
)

type Options struct {
	Reporter  Reporter
	Publisher EventPublisher
	Logger    logger.Logger
}

// Hub mantiene un Registry por usuario, compartido entre handlers HTTP y sesiones de recordatorios.
type Hub struct {
	store     Store
	reporter  Reporter
	publisher EventPublisher
	log       logger.Logger

	mu     sync.Mutex
	byUser map[string]*Registry
}

func NewHub(store Store, opts Options) *Hub {
	h := &Hub{
		store:     store,
		reporter:  opts.Reporter,
		publisher: opts.Publisher,
		log:       opts.Logger,
		byUser:    make(map[string]*Registry),
	}
	if h.reporter == nil {
		h.reporter = nopReporter{}
	}
	if h.publisher == nil {
		h.publisher = NoopPublisher{}
	}
	if h.log == nil {
		h.log = logger.Discard()
	}
	return h
}

// Get devuelve el registry del usuario y lo carga la primera vez.
// Si la carga falla el registry igual se devuelve (snapshot vacío) junto al error;
// el próximo Get reintenta.
func (h *Hub) Get(ctx context.Context, userID string) (*Registry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, medicines.ErrInvalidInput
	}

	h.mu.Lock()
	reg, ok := h.byUser[userID]
	if !ok {
		reg = newRegistry(userID, h.store, h.reporter, h.publisher, h.log)
		h.byUser[userID] = reg
	}
	h.mu.Unlock()

	if err := reg.ensureLoaded(ctx); err != nil {
		return reg, err
	}
	return reg, nil
}
