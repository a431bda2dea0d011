package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
)

// DefaultRecentLimit límite por defecto de GetRecent.
const DefaultRecentLimit = 20

// SaleRepository repositorio de ventas acotado por tienda, con consultas agregadas.
// Los agregados devuelven valores cero (no error) cuando no hay filas.
// Los rangos son semiabiertos [from, to); los días se cortan en la zona de now/from.
type SaleRepository interface {
	GetAll(ctx context.Context, shopID string) ([]entity.Sale, error)
	Insert(ctx context.Context, shopID string, in entity.SaleInput) (*entity.Sale, error)
	Update(ctx context.Context, shopID string, id int64, patch entity.SalePatch) error
	Delete(ctx context.Context, shopID string, id int64) error
	// GetRecent últimas ventas por orden de inserción; limit <= 0 usa DefaultRecentLimit.
	GetRecent(ctx context.Context, shopID string, limit int) ([]entity.Sale, error)
	DailyTotal(ctx context.Context, shopID string, now time.Time) (entity.SalesTotals, error)
	WeeklyTotal(ctx context.Context, shopID string, now time.Time) (entity.WeeklySummary, error)
	TotalsBetween(ctx context.Context, shopID string, from, to time.Time) (entity.SalesTotals, error)
	// AverageTicket promedio de total por venta (solo total > 0).
	AverageTicket(ctx context.Context, shopID string, from, to time.Time) (decimal.Decimal, error)
	TopProducts(ctx context.Context, shopID string, from, to time.Time, limit int) ([]entity.TopProduct, error)
	// DailySeries un punto por día del rango, con cero en los días sin ventas.
	DailySeries(ctx context.Context, shopID string, from, to time.Time) ([]entity.DailySales, error)
}
