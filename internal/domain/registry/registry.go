package registry

import (
	"context"
	"errors"
	"sync"
	"time"

	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/platform/logger"
)

// Store es el record store remoto (medicines.Service lo implementa).
type Store interface {
	ListByOwner(ctx context.Context, ownerUserID string) ([]medicines.Medicine, error)
	Create(ctx context.Context, ownerUserID string, in medicines.CreateInput) (medicines.Medicine, error)
	Update(ctx context.Context, id, ownerUserID string, in medicines.UpdateInput) (medicines.Medicine, error)
	Delete(ctx context.Context, id, ownerUserID string) error
}

// Registry es la copia local de los medicamentos de un usuario.
// Toda mutación va primero al store; el snapshot solo cambia si el store confirmó.
// Un fallo se reporta una sola vez y no se reintenta.
type Registry struct {
	userID    string
	store     Store
	reporter  Reporter
	publisher EventPublisher
	log       logger.Logger
	now       func() time.Time

	loadMu sync.Mutex

	mu     sync.RWMutex
	items  []medicines.Medicine // created_at desc
	loaded bool
}

func newRegistry(userID string, store Store, reporter Reporter, publisher EventPublisher, log logger.Logger) *Registry {
	return &Registry{
		userID:    userID,
		store:     store,
		reporter:  reporter,
		publisher: publisher,
		log:       log.With(logger.Fields{"user_id": userID}),
		now:       time.Now,
		items:     []medicines.Medicine{},
	}
}

func (r *Registry) UserID() string { return r.userID }

// List devuelve una copia; el caller puede mutarla sin afectar al snapshot.
func (r *Registry) List() []medicines.Medicine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medicines.Medicine, len(r.items))
	for i, m := range r.items {
		out[i] = m.Clone()
	}
	return out
}

// Get busca en el snapshot; no consulta el store.
func (r *Registry) Get(id string) (medicines.Medicine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.items {
		if m.ID == id {
			return m.Clone(), true
		}
	}
	return medicines.Medicine{}, false
}

func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// ensureLoaded serializa la primera carga para que ninguna mutación la pise.
func (r *Registry) ensureLoaded(ctx context.Context) error {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	if r.Loaded() {
		return nil
	}
	return r.Load(ctx)
}

// Load reemplaza el snapshot con lo que tenga el store.
func (r *Registry) Load(ctx context.Context) error {
	items, err := r.store.ListByOwner(ctx, r.userID)
	if err != nil {
		r.fail("load", MsgFetchFailed, err)
		return err
	}

	snapshot := make([]medicines.Medicine, len(items))
	for i, m := range items {
		snapshot[i] = m.Clone()
	}

	r.mu.Lock()
	r.items = snapshot
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// Create agrega al principio del snapshot (created_at desc).
func (r *Registry) Create(ctx context.Context, in medicines.CreateInput) (medicines.Medicine, error) {
	m, err := r.store.Create(ctx, r.userID, in)
	if err != nil {
		r.fail("create", MsgAddFailed, err)
		return medicines.Medicine{}, err
	}

	r.mu.Lock()
	r.items = append([]medicines.Medicine{m.Clone()}, r.items...)
	r.mu.Unlock()

	r.succeed(ctx, EventCreated, m.ID, &m, MsgAdded)
	return m, nil
}

// Update reemplaza el registro en su lugar; el orden no cambia.
func (r *Registry) Update(ctx context.Context, id string, in medicines.UpdateInput) (medicines.Medicine, error) {
	m, err := r.store.Update(ctx, id, r.userID, in)
	if err != nil {
		r.fail("update", MsgUpdateFailed, err)
		return medicines.Medicine{}, err
	}

	r.mu.Lock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i] = m.Clone()
			break
		}
	}
	r.mu.Unlock()

	r.succeed(ctx, EventUpdated, m.ID, &m, MsgUpdated)
	return m, nil
}

func (r *Registry) Remove(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id, r.userID); err != nil {
		r.fail("delete", MsgDeleteFailed, err)
		return err
	}

	r.mu.Lock()
	kept := make([]medicines.Medicine, 0, len(r.items))
	for _, m := range r.items {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	r.items = kept
	r.mu.Unlock()

	r.succeed(ctx, EventDeleted, id, nil, MsgDeleted)
	return nil
}

// fail reporta un fallo del store. Los errores de validación se muestran por campo, no como toast.
func (r *Registry) fail(op, msg string, err error) {
	var ve *medicines.ValidationError
	if errors.As(err, &ve) {
		return
	}
	r.log.Warn("registry "+op+" failed", logger.Fields{"err": err})
	r.reporter.Report(r.userID, errorToast(msg))
}

func (r *Registry) succeed(ctx context.Context, typ EventType, id string, m *medicines.Medicine, msg string) {
	r.reporter.Report(r.userID, successToast(msg))

	e := Event{Type: typ, UserID: r.userID, MedicineID: id, At: r.now().UTC()}
	if m != nil {
		c := m.Clone()
		e.Medicine = &c
	}

	// el request puede terminar antes que el publish
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.publisher.Publish(pctx, e); err != nil {
		r.log.Warn("publish event failed", logger.Fields{"event": string(typ), "medicine_id": id, "err": err})
	}
}
