package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardMetricsDTO respuesta de GET /api/dashboard/metrics.
// Los importes se redondean a 2 decimales; Failed lista las sub-métricas que quedaron en cero.
type DashboardMetricsDTO struct {
	ShopID      string    `json:"shop_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Daily         SalesTotalsResponse   `json:"daily"`
	Weekly        WeeklySummaryResponse `json:"weekly"`
	Monthly       SalesTotalsResponse   `json:"monthly"`
	AverageTicket decimal.Decimal       `json:"average_ticket"` // últimos 30 días

	Stock           StockMetricsDTO `json:"stock"`
	TopProducts     []TopProductDTO `json:"top_products"`
	SalesLast30Days []DailySalesDTO `json:"sales_last_30_days"`

	Partial bool     `json:"partial"`
	Failed  []string `json:"failed"`
}

// StockMetricsDTO resumen de inventario.
type StockMetricsDTO struct {
	TotalProducts    int64             `json:"total_products"`
	TotalStockItems  int64             `json:"total_stock_items"`
	TotalStockValue  decimal.Decimal   `json:"total_stock_value"`
	LowStockCount    int               `json:"low_stock_count"`
	LowStockProducts []ProductResponse `json:"low_stock_products"`
}

// TopProductDTO producto más vendido para el widget del dashboard.
type TopProductDTO struct {
	Name      string          `json:"name"`
	TotalSold int64           `json:"total_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DailySalesDTO punto de la serie diaria.
type DailySalesDTO struct {
	Date  string          `json:"date"` // 2006-01-02
	Sales decimal.Decimal `json:"sales"`
}

// OverviewDTO respuesta de GET /api/overview (snapshot en caché de la tienda activa).
type OverviewDTO struct {
	Shop        ShopResponse          `json:"shop"`
	RecentSales []SaleResponse        `json:"recent_sales"`
	Daily       SalesTotalsResponse   `json:"daily"`
	Weekly      WeeklySummaryResponse `json:"weekly"`
	Products    []ProductResponse     `json:"products"`
	LowStock    []ProductResponse     `json:"low_stock"`
	LoadedAt    time.Time             `json:"loaded_at"`
}
