package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jhoicas/Multitienda-api/pkg/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrate aplica las migraciones embebidas del dialecto y devuelve la versión resultante.
// No cierra db: el driver de migrate comparte la conexión de la aplicación.
func Migrate(db *sql.DB, dialect string) (uint, error) {
	var (
		drv  database.Driver
		err  error
		name string
	)
	switch dialect {
	case config.DriverSQLite:
		name = "sqlite3"
		drv, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case config.DriverPostgres:
		name = "pgx5"
		drv, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	default:
		return 0, fmt.Errorf("migrate: dialecto no soportado %q", dialect)
	}
	if err != nil {
		return 0, fmt.Errorf("migrate: driver %s: %w", name, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return 0, fmt.Errorf("migrate: source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, drv)
	if err != nil {
		return 0, fmt.Errorf("migrate: init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate: up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("migrate: version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("migrate: versión %d marcada como dirty", version)
	}
	return version, nil
}
