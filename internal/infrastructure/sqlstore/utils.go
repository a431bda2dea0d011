package sqlstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/jhoicas/Multitienda-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (SQLite o PostgreSQL 23505).
func isUniqueViolation(err error) bool {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// storageErr envuelve un error del driver como domain.ErrStorage conservando la causa.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

// utc normaliza a UTC: SQLite compara fechas como texto y todas deben tener el mismo offset.
func utc(t time.Time) time.Time {
	return t.UTC()
}
