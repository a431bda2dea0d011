package repository

import (
	"context"

	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
)

// ShopRepository puerto de persistencia para Shop.
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Shop, error)
	// ListByOwner ordena de la más reciente a la más antigua.
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Shop, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	UpdateName(ctx context.Context, id, name string) error
	// Delete borra la tienda; la FK elimina en cascada productos y ventas.
	Delete(ctx context.Context, id string) error
}
