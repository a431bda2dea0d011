package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotals agregado de ventas en un rango. Valor cero cuando no hay filas.
type SalesTotals struct {
	Total decimal.Decimal
	Items int64
	Count int64
}

// WeeklySummary totales de la semana más ticket medio por ítem (Total / Items).
type WeeklySummary struct {
	SalesTotals
	AvgTicket decimal.Decimal
}

// TopProduct producto más vendido por cantidad.
type TopProduct struct {
	Name      string
	TotalSold int64
	Revenue   decimal.Decimal
}

// DailySales punto de la serie diaria; Date en formato 2006-01-02.
type DailySales struct {
	Date  string
	Sales decimal.Decimal
}

// StockMetrics métricas de inventario de una tienda.
type StockMetrics struct {
	TotalProducts    int64
	TotalStockItems  int64
	TotalStockValue  decimal.Decimal
	LowStockProducts []Product
	LowStockCount    int
}

// Nombres de las sub-métricas del dashboard (se reportan en DashboardMetrics.Failed).
const (
	MetricDaily         = "daily"
	MetricWeekly        = "weekly"
	MetricMonthly       = "monthly"
	MetricAverageTicket = "average_ticket"
	MetricStock         = "stock"
	MetricTopProducts   = "top_products"
	MetricSalesSeries   = "sales_series"
)

// DashboardMetrics snapshot del dashboard de una tienda.
// Cada sub-métrica es independiente; las que fallan quedan en cero y se listan en Failed.
type DashboardMetrics struct {
	ShopID          string
	GeneratedAt     time.Time
	Daily           SalesTotals
	Weekly          WeeklySummary
	Monthly         SalesTotals
	AverageTicket   decimal.Decimal
	Stock           StockMetrics
	TopProducts     []TopProduct
	SalesLast30Days []DailySales
	Failed          []string
}

// Partial indica si alguna sub-métrica cayó a su valor por defecto.
func (m *DashboardMetrics) Partial() bool { return len(m.Failed) > 0 }
