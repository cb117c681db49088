package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	pg "medicine-reminder/internal/adapters/storage/postgres"
	"medicine-reminder/internal/adapters/storage/sqlite"
	"medicine-reminder/internal/config"
	"medicine-reminder/internal/platform/migrations"
)

var errNoMigrations = errors.New("DB_DRIVER=memory: nothing to migrate")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migraciones del esquema (postgres o sqlite)",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplicar migraciones pendientes",
	RunE: func(_ *cobra.Command, _ []string) error {
		r, err := migrationRunner(cfg.DB)
		if err != nil {
			return err
		}
		if err := r.Up(); err != nil {
			return err
		}
		return printVersion(r)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revertir todas las migraciones",
	RunE: func(_ *cobra.Command, _ []string) error {
		r, err := migrationRunner(cfg.DB)
		if err != nil {
			return err
		}
		if err := r.Down(); err != nil {
			return err
		}
		return printVersion(r)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Mostrar la versión actual del esquema",
	RunE: func(_ *cobra.Command, _ []string) error {
		r, err := migrationRunner(cfg.DB)
		if err != nil {
			return err
		}
		return printVersion(r)
	},
}

func migrationRunner(db config.DB) (*migrations.Runner, error) {
	switch db.Driver {
	case config.DriverPostgres:
		return pg.NewMigrator(db.DSN, nil), nil
	case config.DriverSQLite:
		return sqlite.NewMigrator(db.SQLitePath, nil), nil
	default:
		return nil, errNoMigrations
	}
}

func printVersion(r *migrations.Runner) error {
	v, dirty, err := r.Version()
	if err != nil {
		return err
	}
	fmt.Printf("schema version %d (dirty=%t)\n", v, dirty)
	return nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}
