package reminders

import (
	"context"
	"errors"
	"sync"
	"time"

	"medicine-reminder/internal/platform/logger"
)

const DefaultInterval = time.Minute

var ErrAlreadyRunning = errors.New("dispatcher already running")

const (
	slotLayout = "15:04"
	dayLayout  = "2006-01-02"
)

// DedupKey identifica un disparo: un medicamento, un horario, un día.
type DedupKey struct {
	MedicineID string
	Slot       string
	Day        string
}

type Config struct {
	Source      Source
	Clock       Clock
	Permissions PermissionRequester // nil => sin soporte => denied
	Native      Notifier
	Toast       Notifier
	Location    *time.Location
	Interval    time.Duration
	Logger      logger.Logger
}

// Dispatcher revisa el snapshot una vez por intervalo y dispara los recordatorios
// cuyo horario coincide con el minuto actual. Cada (medicamento, horario, día)
// se dispara a lo sumo una vez por dispatcher. Un minuto que no se revisa se pierde.
type Dispatcher struct {
	source   Source
	clock    Clock
	perms    PermissionRequester
	native   Notifier
	toast    Notifier
	loc      *time.Location
	interval time.Duration
	log      logger.Logger

	mu         sync.Mutex
	permission Permission
	fired      map[DedupKey]struct{}

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewDispatcher(cfg Config) *Dispatcher {
	d := &Dispatcher{
		source:     cfg.Source,
		clock:      cfg.Clock,
		perms:      cfg.Permissions,
		native:     cfg.Native,
		toast:      cfg.Toast,
		loc:        cfg.Location,
		interval:   cfg.Interval,
		log:        cfg.Logger,
		permission: PermissionDefault,
		fired:      make(map[DedupKey]struct{}),
	}
	if d.clock == nil {
		d.clock = SystemClock{}
	}
	if d.native == nil {
		d.native = nopNotifier{}
	}
	if d.toast == nil {
		d.toast = nopNotifier{}
	}
	if d.loc == nil {
		d.loc = time.Local
	}
	if d.interval <= 0 {
		d.interval = DefaultInterval
	}
	if d.log == nil {
		d.log = logger.Discard()
	}
	return d
}

// Start pide permiso en segundo plano, revisa inmediatamente y luego cada intervalo
// hasta Stop o hasta que ctx se cancele.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	if d.cancel != nil {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})

	if d.perms == nil {
		d.SetPermission(PermissionDenied)
	} else {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.requestPermission(runCtx)
		}()
	}

	ticker := d.clock.NewTicker(d.interval)
	d.Tick(d.clock.Now())

	go d.loop(runCtx, ticker, d.done)
	return nil
}

// Stop libera el ticker y espera a que terminen el loop y el pedido de permiso.
// Es idempotente.
func (d *Dispatcher) Stop() {
	d.runMu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	d.wg.Wait()
}

func (d *Dispatcher) loop(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			d.Tick(now)
		}
	}
}

func (d *Dispatcher) requestPermission(ctx context.Context) {
	p, err := d.perms.RequestPermission(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			d.log.Warn("notification permission request failed", logger.Fields{"err": err})
		}
		return
	}
	// una respuesta que llega después de Stop no cambia el estado
	if ctx.Err() != nil {
		return
	}
	d.SetPermission(p)
}

// SetPermission aplica p y devuelve el permiso vigente. denied es definitivo:
// una vez rechazado, ningún valor posterior lo cambia.
func (d *Dispatcher) SetPermission(p Permission) Permission {
	d.mu.Lock()
	prev := d.permission
	if prev != PermissionDenied {
		d.permission = p
	}
	cur := d.permission
	d.mu.Unlock()

	if prev != cur {
		d.log.Info("notification permission", logger.Fields{"permission": string(cur)})
	} else if cur != p {
		d.log.Debug("ignored permission change after denial", logger.Fields{"requested": string(p)})
	}
	return cur
}

func (d *Dispatcher) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permission
}

// Tick revisa el snapshot para el minuto de now (en la zona del dispatcher) y devuelve
// cuántos recordatorios disparó. Las claves de otros días se descartan en cada tick.
func (d *Dispatcher) Tick(now time.Time) int {
	local := now.In(d.loc)
	slot := local.Format(slotLayout)
	day := local.Format(dayLayout)

	var due []Notification

	d.mu.Lock()
	if d.source != nil {
		for _, m := range d.source.List() {
			if !m.ReminderEnabled {
				continue
			}
			for _, t := range m.ScheduleTimes {
				if t != slot {
					continue
				}
				key := DedupKey{MedicineID: m.ID, Slot: t, Day: day}
				if _, seen := d.fired[key]; seen {
					continue
				}
				d.fired[key] = struct{}{}
				due = append(due, NewNotification(m, t))
			}
		}
	}
	for k := range d.fired {
		if k.Day != day {
			delete(d.fired, k)
		}
	}
	permission := d.permission
	d.mu.Unlock()

	for _, n := range due {
		if permission == PermissionGranted {
			d.native.Notify(n)
		}
		d.toast.Notify(n)
		d.log.Info("reminder dispatched", logger.Fields{
			"medicine_id": n.MedicineID,
			"slot":        n.Slot,
			"day":         day,
			"native":      permission == PermissionGranted,
		})
	}
	return len(due)
}
