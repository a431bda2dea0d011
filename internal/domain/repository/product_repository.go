package repository

import (
	"context"

	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
)

// ProductRepository repositorio de productos acotado por tienda.
// Todas las operaciones reciben shopID explícito y filtran por él.
type ProductRepository interface {
	// GetAll productos de la tienda, más recientes primero; vacío si no hay.
	GetAll(ctx context.Context, shopID string) ([]entity.Product, error)
	// Insert valida campos no negativos antes de persistir (domain.ErrValidation).
	Insert(ctx context.Context, shopID string, in entity.ProductInput) (*entity.Product, error)
	// Update aplica solo los campos presentes; patch vacío o id inexistente es no-op.
	Update(ctx context.Context, shopID string, id int64, patch entity.ProductPatch) error
	// Delete es idempotente.
	Delete(ctx context.Context, shopID string, id int64) error
	LowStock(ctx context.Context, shopID string) ([]entity.Product, error)
	StockMetrics(ctx context.Context, shopID string) (entity.StockMetrics, error)
}
