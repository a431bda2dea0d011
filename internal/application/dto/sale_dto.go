package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest entrada para registrar una venta. Date omitida = ahora.
type CreateSaleRequest struct {
	Product   string          `json:"product" validate:"required"`
	ItemsSold int64           `json:"items_sold" validate:"min=1"`
	Total     decimal.Decimal `json:"total"`
	Date      *time.Time      `json:"date"`
}

// UpdateSaleRequest corrección parcial de una venta.
type UpdateSaleRequest struct {
	Product   *string          `json:"product"`
	ItemsSold *int64           `json:"items_sold"`
	Total     *decimal.Decimal `json:"total"`
	Date      *time.Time       `json:"date"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID        int64           `json:"id"`
	ShopID    string          `json:"shop_id"`
	Product   string          `json:"product"`
	ItemsSold int64           `json:"items_sold"`
	Total     decimal.Decimal `json:"total"`
	Date      time.Time       `json:"date"`
}

// SaleListResponse ventas de la tienda activa.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
}

// SalesTotalsResponse total, ítems y número de ventas de un período.
type SalesTotalsResponse struct {
	Total decimal.Decimal `json:"total"`
	Items int64           `json:"items"`
	Count int64           `json:"count"`
}

// WeeklySummaryResponse totales de la semana con ticket medio por ítem.
type WeeklySummaryResponse struct {
	SalesTotalsResponse
	AvgTicket decimal.Decimal `json:"avg_ticket"`
}
