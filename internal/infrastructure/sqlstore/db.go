// Package sqlstore implementa los puertos de persistencia sobre SQLite (almacén embebido por
// defecto) o PostgreSQL, con sqlx. Las consultas usan placeholders "?" y se reescriben con Rebind.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jhoicas/Multitienda-api/pkg/config"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// Querier lo implementan *sqlx.DB y *sqlx.Tx; los repos no saben si están dentro de una transacción.
type Querier = sqlx.ExtContext

// DB conexión abierta, migrada y verificada.
type DB struct {
	*sqlx.DB
	Dialect string
}

// Open abre la base configurada, aplica migraciones y verifica el esquema.
// Si las tablas no tienen la columna shopId devuelve error: no se sirven datos sin acotar por tienda.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = openSQLite(cfg.Path)
	case config.DriverPostgres:
		db, err = openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("sqlstore: driver no soportado %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}

	version, err := Migrate(db.DB, cfg.Driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := VerifySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info().
		Str("driver", cfg.Driver).
		Uint("schema_version", version).
		Msg("base de datos lista")
	return &DB{DB: db, Dialect: cfg.Driver}, nil
}

// openSQLite abre el archivo con claves foráneas activas (necesarias para el cascade).
// Una sola conexión: SQLite serializa escrituras y ":memory:" vive en esa conexión.
func openSQLite(path string) (*sqlx.DB, error) {
	raw, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	raw.SetMaxOpenConns(1)
	raw.SetMaxIdleConns(1)
	raw.SetConnMaxLifetime(0)
	raw.SetConnMaxIdleTime(0)
	return sqlx.NewDb(raw, "sqlite3"), nil
}

func sqliteDSN(path string) string {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// VerifySchema comprueba que products y sales tienen shopId.
func VerifySchema(ctx context.Context, q Querier) error {
	for _, table := range []string{"products", "sales"} {
		rows, err := q.QueryContext(ctx, "SELECT shopId FROM "+table+" WHERE 1 = 0")
		if err != nil {
			return fmt.Errorf("sqlstore: esquema inválido, %s sin columna shopId: %w", table, err)
		}
		_ = rows.Close()
	}
	return nil
}
