package postgres

import (
	"embed"

	"medicine-reminder/internal/platform/migrations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// NewMigrator usa el DSN tal cual (postgres://...).
func NewMigrator(dsn string, engine migrations.Engine) *migrations.Runner {
	return migrations.NewRunner(migrationFiles, "migrations", dsn, engine)
}
