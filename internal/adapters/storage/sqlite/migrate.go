package sqlite

import (
	"embed"

	"medicine-reminder/internal/platform/migrations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// NewMigrator arma la URL sqlite3://<path> que espera golang-migrate.
func NewMigrator(path string, engine migrations.Engine) *migrations.Runner {
	return migrations.NewRunner(migrationFiles, "migrations", "sqlite3://"+path, engine)
}
