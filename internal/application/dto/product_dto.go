package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto en la tienda activa.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Stock       int64           `json:"stock" validate:"min=0"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	MinQuantity int64           `json:"min_quantity" validate:"min=0"`
}

// UpdateProductRequest actualización parcial: solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Stock       *int64           `json:"stock"`
	Price       *decimal.Decimal `json:"price"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	MinQuantity *int64           `json:"min_quantity"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	ShopID      string          `json:"shop_id"`
	Name        string          `json:"name"`
	Stock       int64           `json:"stock"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	MinQuantity int64           `json:"min_quantity"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductListResponse productos de la tienda activa.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}
