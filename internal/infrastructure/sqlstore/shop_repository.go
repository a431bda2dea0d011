package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo implementación del puerto ShopRepository.
type ShopRepo struct {
	q Querier
}

// NewShopRepository construye el repositorio (acepta DB o Tx).
func NewShopRepository(q Querier) *ShopRepo {
	return &ShopRepo{q: q}
}

// Create persiste una tienda.
func (r *ShopRepo) Create(ctx context.Context, s *entity.Shop) error {
	query := r.q.Rebind(`INSERT INTO shops (id, nomeDaLoja, ownerId, dataCriacao) VALUES (?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query, s.ID, s.Name, s.OwnerID, utc(s.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageErr("insert shop", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID; (nil, nil) si no existe.
func (r *ShopRepo) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	query := r.q.Rebind(`SELECT id, nomeDaLoja, ownerId, dataCriacao FROM shops WHERE id = ?`)
	var s entity.Shop
	err := r.q.QueryRowxContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.OwnerID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get shop", err)
	}
	return &s, nil
}

// ListByOwner tiendas del dueño, más recientes primero.
func (r *ShopRepo) ListByOwner(ctx context.Context, ownerID string) ([]entity.Shop, error) {
	query := r.q.Rebind(`
		SELECT id, nomeDaLoja, ownerId, dataCriacao
		FROM shops
		WHERE ownerId = ?
		ORDER BY dataCriacao DESC, id DESC`)
	rows, err := r.q.QueryxContext(ctx, query, ownerID)
	if err != nil {
		return nil, storageErr("list shops", err)
	}
	defer rows.Close()

	list := []entity.Shop{}
	for rows.Next() {
		var s entity.Shop
		if err := rows.Scan(&s.ID, &s.Name, &s.OwnerID, &s.CreatedAt); err != nil {
			return nil, storageErr("scan shop", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list shops", err)
	}
	return list, nil
}

// CountByOwner número de tiendas del dueño.
func (r *ShopRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	if err := r.q.QueryRowxContext(ctx, r.q.Rebind(`SELECT COUNT(*) FROM shops WHERE ownerId = ?`), ownerID).Scan(&n); err != nil {
		return 0, storageErr("count shops", err)
	}
	return n, nil
}

// UpdateName renombra la tienda.
func (r *ShopRepo) UpdateName(ctx context.Context, id, name string) error {
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(`UPDATE shops SET nomeDaLoja = ? WHERE id = ?`), name, id); err != nil {
		return storageErr("update shop", err)
	}
	return nil
}

// Delete borra la tienda (cascade a products y sales).
func (r *ShopRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM shops WHERE id = ?`), id); err != nil {
		return storageErr("delete shop", err)
	}
	return nil
}
