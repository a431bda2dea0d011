package shop

import (
	"context"

	"github.com/jhoicas/Multitienda-api/internal/application/events"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

// TxRunner ejecuta fn con un ShopRepository atado a una transacción (Commit si fn no falla).
type TxRunner interface {
	RunShops(ctx context.Context, fn func(shops repository.ShopRepository) error) error
}

// Publisher lo implementa *events.Bus. Publish no retorna hasta que todos los suscriptores terminaron.
type Publisher interface {
	Publish(ctx context.Context, ev events.ShopChanged) int
}
