package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/Multitienda-api/internal/application/shop"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

var _ shop.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción.
type TxRunner struct {
	db *sqlx.DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

// RunShops inicia una transacción, ejecuta fn con el repo de tiendas atado a la tx y hace Commit o Rollback.
func (r *TxRunner) RunShops(ctx context.Context, fn func(shops repository.ShopRepository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewShopRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", fmt.Errorf("shops: %w", err))
	}
	return nil
}
