package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"medicine-reminder/internal/adapters/auth/gotrue"
	"medicine-reminder/internal/adapters/auth/jwtauth"
	"medicine-reminder/internal/adapters/druginfo/openfda"
	"medicine-reminder/internal/adapters/druginfo/rediscache"
	"medicine-reminder/internal/adapters/events/rabbitmq"
	mem "medicine-reminder/internal/adapters/storage/memory"
	pg "medicine-reminder/internal/adapters/storage/postgres"
	"medicine-reminder/internal/adapters/storage/sqlite"
	"medicine-reminder/internal/config"
	"medicine-reminder/internal/domain/medicines"
	"medicine-reminder/internal/domain/reminders"
	"medicine-reminder/internal/domain/users"
	"medicine-reminder/internal/platform/logger"
	"medicine-reminder/internal/ports/druginfo"
)

// Backends son las dependencias abiertas a partir de la config.
// Close libera todo lo abierto (DB, redis, amqp) en orden inverso.
type Backends struct {
	Options Options

	closers []func() error
}

func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// Build abre storage, auth, fuentes de fichas y publisher según cfg.
// Con postgres/sqlite aplica las migraciones pendientes antes de devolver.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*Backends, error) {
	if log == nil {
		log = logger.Discard()
	}
	b := &Backends{}

	medRepo, userRepo, err := b.openStorage(cfg.DB, log)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	if err := b.setupAuth(cfg.Auth, userRepo, log); err != nil {
		_ = b.Close()
		return nil, err
	}

	lookup, err := b.setupDrugInfo(ctx, cfg, log)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	b.Options.Logger = log
	b.Options.Medicines = medRepo
	b.Options.DrugInfo = lookup
	b.Options.Clock = reminders.SystemClock{}
	b.Options.ReminderInterval = cfg.Reminder.Interval
	b.Options.Location = cfg.Reminder.Location()

	if cfg.AMQP.Enabled() {
		pub := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, log)
		b.Options.Publisher = pub
		b.closers = append(b.closers, pub.Close)
		log.Info("publishing medicine events", logger.Fields{"queue": cfg.AMQP.Queue})
	}

	return b, nil
}

func (b *Backends) openStorage(cfg config.DB, log logger.Logger) (medicines.Repository, users.Repository, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		opened, err := pg.Open(cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		b.closers = append(b.closers, opened.Close)
		if err := pg.NewMigrator(cfg.DSN, nil).Up(); err != nil {
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		log.Info("storage ready", logger.Fields{"driver": cfg.Driver})
		return pg.NewMedicinesRepo(opened), pg.NewUsersRepo(opened), nil

	case config.DriverSQLite:
		if err := sqlite.NewMigrator(cfg.SQLitePath, nil).Up(); err != nil {
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		opened, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		b.closers = append(b.closers, opened.Close)
		log.Info("storage ready", logger.Fields{"driver": cfg.Driver, "path": cfg.SQLitePath})
		return sqlite.NewMedicinesRepo(opened), sqlite.NewUsersRepo(opened), nil

	default:
		log.Warn("using in-memory storage; data is lost on restart", nil)
		return mem.NewMedicineRepo(), mem.NewUserRepo(), nil
	}
}

func (b *Backends) setupAuth(cfg config.Auth, userRepo users.Repository, log logger.Logger) error {
	switch cfg.Mode {
	case config.AuthGoTrue:
		client, err := gotrue.NewClient(gotrue.Config{BaseURL: cfg.GoTrueURL, APIKey: cfg.GoTrueAPIKey})
		if err != nil {
			return fmt.Errorf("gotrue client: %w", err)
		}
		b.Options.Accounts = client
		b.Options.AuthVerifier = gotrue.NewVerifier(client)

	case config.AuthLocal:
		tokens, err := jwtauth.New(jwtauth.Config{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL})
		if err != nil {
			return fmt.Errorf("jwt: %w", err)
		}
		b.Options.Accounts = users.NewService(userRepo, tokens)
		b.Options.AuthVerifier = tokens

	default:
		// dev: X-Debug-User-ID; las cuentas locales siguen disponibles con un secreto efímero
		secret := cfg.JWTSecret
		if secret == "" {
			secret = uuid.NewString()
		}
		tokens, err := jwtauth.New(jwtauth.Config{Secret: secret, TTL: cfg.TokenTTL})
		if err != nil {
			return fmt.Errorf("jwt: %w", err)
		}
		b.Options.Accounts = users.NewService(userRepo, tokens)
		log.Warn("auth disabled (dev mode): X-Debug-User-ID identifies the caller", nil)
	}
	return nil
}

func (b *Backends) setupDrugInfo(ctx context.Context, cfg *config.Config, log logger.Logger) (druginfo.Lookup, error) {
	fda, err := openfda.New(openfda.Config{
		BaseURL: cfg.DrugInfo.OpenFDAURL,
		Timeout: cfg.DrugInfo.Timeout,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("openfda client: %w", err)
	}
	if !cfg.Redis.Enabled() {
		return fda, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	b.closers = append(b.closers, rdb.Close)

	if err := rdb.Ping(ctx).Err(); err != nil {
		// el cache es opcional: se sigue sin él
		log.Warn("redis unavailable, drug info cache disabled", logger.Fields{"addr": cfg.Redis.Addr, "err": err})
		return fda, nil
	}
	return rediscache.New(fda, rdb, cfg.DrugInfo.CacheTTL, log), nil
}
