package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "medicine-reminder/docs"

	"medicine-reminder/internal/adapters/barcode/zxing"
	mem "medicine-reminder/internal/adapters/storage/memory"
	"medicine-reminder/internal/domain/lookup"
	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/domain/registry"
	"medicine-reminder/internal/domain/reminders"
	"medicine-reminder/internal/domain/scan"
	"medicine-reminder/internal/domain/users"
	"medicine-reminder/internal/middleware"
	"medicine-reminder/internal/platform/logger"
	"medicine-reminder/internal/ports/auth"
	"medicine-reminder/internal/ports/druginfo"
)

type Options struct {
	Logger logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Accounts     auth.Accounts     // nil => /auth/* responde 501

	// Opcional: si no viene, in-memory.
	Medicines medicines.Repository

	DrugInfo  druginfo.Lookup         // nil => todo "no encontrado"
	Publisher registry.EventPublisher // nil => no se publican eventos

	// Recordatorios
	Clock            reminders.Clock
	ReminderInterval time.Duration
	Location         *time.Location
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	medRepo := opts.Medicines
	if medRepo == nil {
		medRepo = mem.NewMedicineRepo()
	}
	drugInfo := opts.DrugInfo
	if drugInfo == nil {
		drugInfo = notFoundLookup{}
	}

	// Services por módulo
	medSvc := medicines.NewService(medRepo)
	sessions := reminders.NewSessions()
	hub := registry.NewHub(medSvc, registry.Options{
		Reporter:  sessions,
		Publisher: opts.Publisher,
		Logger:    log.With(logger.Fields{"component": "registry"}),
	})
	scanner := scan.NewScanner(zxing.NewDecoder(), log.With(logger.Fields{"component": "scan"}))

	// Rutas por módulo
	users.RegisterRoutes(r, opts.Accounts)
	registry.RegisterRoutes(r, hub)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireUser)
		lookup.RegisterRoutes(pr, drugInfo)
		scan.RegisterRoutes(pr, scanner, zxing.NewCamera, drugInfo)
	})

	reminders.RegisterRoutes(r, &reminders.Handler{
		Sessions:   sessions,
		Registries: hub,
		Clock:      opts.Clock,
		Interval:   opts.ReminderInterval,
		Location:   opts.Location,
		Logger:     log.With(logger.Fields{"component": "reminders"}),
	})

	return r
}
