package migrations

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator es el subconjunto de *migrate.Migrate que usamos.
type Migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

// Engine crea el migrator; en tests se reemplaza para no tocar FS ni DB.
type Engine func(files fs.FS, dir, databaseURL string) (Migrator, error)

// DefaultEngine lee los .sql embebidos vía iofs.
func DefaultEngine(files fs.FS, dir, databaseURL string) (Migrator, error) {
	src, err := iofs.New(files, dir)
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

type Runner struct {
	files       fs.FS
	dir         string
	databaseURL string
	engine      Engine
}

func NewRunner(files fs.FS, dir, databaseURL string, engine Engine) *Runner {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Runner{
		files:       files,
		dir:         dir,
		databaseURL: databaseURL,
		engine:      engine,
	}
}

// Up aplica todo lo pendiente. ErrNoChange no es error.
func (r *Runner) Up() (err error) {
	m, err := r.engine(r.files, r.dir, r.databaseURL)
	if err != nil {
		return err
	}
	defer func() { err = closeMigrator(m, err) }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

// Down revierte todas las migraciones.
func (r *Runner) Down() (err error) {
	m, err := r.engine(r.files, r.dir, r.databaseURL)
	if err != nil {
		return err
	}
	defer func() { err = closeMigrator(m, err) }()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down: %w", err)
	}
	return nil
}

// Version devuelve la versión aplicada; 0 si la base está vacía.
func (r *Runner) Version() (version uint, dirty bool, err error) {
	m, err := r.engine(r.files, r.dir, r.databaseURL)
	if err != nil {
		return 0, false, err
	}
	defer func() { err = closeMigrator(m, err) }()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func closeMigrator(m Migrator, err error) error {
	serr, dberr := m.Close()
	if serr != nil {
		if err != nil {
			err = fmt.Errorf("%w; migration source error: %v", err, serr)
		} else {
			err = serr
		}
	}
	if dberr != nil {
		if err != nil {
			err = fmt.Errorf("%w; migration database error: %v", err, dberr)
		} else {
			err = dberr
		}
	}
	return err
}
