// Package analytics contiene el agregador del dashboard de una tienda.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
	"github.com/jhoicas/Multitienda-api/internal/observability/metrics"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

const (
	dashboardTopProducts = 5  // número de productos en el widget del dashboard
	dashboardTrailing    = 30 // días de la serie, del ticket medio y del top
)

var tracer = otel.Tracer("github.com/jhoicas/Multitienda-api/internal/application/analytics")

// DashboardUseCase arma el snapshot de métricas de una tienda.
//
// Fuente de datos: ProductRepository y SaleRepository (solo lectura).
// Cada sub-métrica se consulta por separado; si una falla queda en cero y se reporta en Failed,
// el resto del dashboard se entrega igual.
type DashboardUseCase struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso. loc es la zona donde se cortan los días
// (nil = zona local del proceso).
func NewDashboardUseCase(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	log *logger.Logger,
	loc *time.Location,
) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{
		products: products,
		sales:    sales,
		log:      log.Component("dashboard"),
		loc:      loc,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

type result[T any] struct {
	v   T
	err error
}

// async ejecuta fn en una goroutine; un panic se entrega como error de esa sub-métrica.
func async[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan result[T] {
	ch := make(chan result[T], 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				ch <- result[T]{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		v, err := fn(ctx)
		ch <- result[T]{v: v, err: err}
	}()
	return ch
}

// GetMetrics construye el snapshot para shopID.
//
// Siete consultas en paralelo:
//  1. DailyTotal(hoy)                     → Daily
//  2. WeeklyTotal(hoy-7 .. hoy)           → Weekly
//  3. TotalsBetween(mes en curso)         → Monthly
//  4. AverageTicket(últimos 30 días)      → AverageTicket
//  5. StockMetrics                        → Stock
//  6. TopProducts(últimos 30 días, top 5) → TopProducts
//  7. DailySeries(últimos 30 días)        → SalesLast30Days
//
// Solo devuelve error si shopID está vacío; los fallos de sub-métricas no se propagan.
func (uc *DashboardUseCase) GetMetrics(ctx context.Context, shopID string) (*entity.DashboardMetrics, error) {
	if shopID == "" {
		return nil, fmt.Errorf("%w: no hay tienda activa", domain.ErrValidation)
	}
	start := time.Now()
	ctx, span := tracer.Start(ctx, "analytics.GetMetrics")
	defer span.End()
	span.SetAttributes(attribute.String("shop.id", shopID))

	now := uc.now().In(uc.loc)
	monthFrom, monthTo := entity.MonthRange(now)
	trailFrom, trailTo := entity.TrailingDays(now, dashboardTrailing)

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	dailyCh := async(ctx, func(ctx context.Context) (entity.SalesTotals, error) {
		return uc.sales.DailyTotal(ctx, shopID, now)
	})
	weeklyCh := async(ctx, func(ctx context.Context) (entity.WeeklySummary, error) {
		return uc.sales.WeeklyTotal(ctx, shopID, now)
	})
	monthlyCh := async(ctx, func(ctx context.Context) (entity.SalesTotals, error) {
		return uc.sales.TotalsBetween(ctx, shopID, monthFrom, monthTo)
	})
	avgCh := async(ctx, func(ctx context.Context) (decimal.Decimal, error) {
		return uc.sales.AverageTicket(ctx, shopID, trailFrom, trailTo)
	})
	stockCh := async(ctx, func(ctx context.Context) (entity.StockMetrics, error) {
		return uc.products.StockMetrics(ctx, shopID)
	})
	topCh := async(ctx, func(ctx context.Context) ([]entity.TopProduct, error) {
		return uc.sales.TopProducts(ctx, shopID, trailFrom, trailTo, dashboardTopProducts)
	})
	seriesCh := async(ctx, func(ctx context.Context) ([]entity.DailySales, error) {
		return uc.sales.DailySeries(ctx, shopID, trailFrom, trailTo)
	})

	m := &entity.DashboardMetrics{
		ShopID:          shopID,
		GeneratedAt:     now.UTC(),
		TopProducts:     []entity.TopProduct{},
		SalesLast30Days: []entity.DailySales{},
		Stock:           entity.StockMetrics{LowStockProducts: []entity.Product{}},
	}
	collect(uc, m, entity.MetricDaily, dailyCh, &m.Daily)
	collect(uc, m, entity.MetricWeekly, weeklyCh, &m.Weekly)
	collect(uc, m, entity.MetricMonthly, monthlyCh, &m.Monthly)
	collect(uc, m, entity.MetricAverageTicket, avgCh, &m.AverageTicket)
	collect(uc, m, entity.MetricStock, stockCh, &m.Stock)
	collect(uc, m, entity.MetricTopProducts, topCh, &m.TopProducts)
	collect(uc, m, entity.MetricSalesSeries, seriesCh, &m.SalesLast30Days)

	span.SetAttributes(attribute.Int("dashboard.failed", len(m.Failed)))
	metrics.ObserveDashboard(time.Since(start))
	return m, nil
}

// collect espera el resultado de una sub-métrica: si falló deja dst en su valor por defecto
// y anota el nombre en Failed.
func collect[T any](uc *DashboardUseCase, m *entity.DashboardMetrics, name string, ch <-chan result[T], dst *T) {
	r := <-ch
	if r.err != nil {
		m.Failed = append(m.Failed, name)
		metrics.ObserveDashboardFailure(name)
		uc.log.Warn().Err(r.err).Str("shop_id", m.ShopID).Str("metric", name).Msg("sub-métrica del dashboard en cero")
		return
	}
	*dst = r.v
}
