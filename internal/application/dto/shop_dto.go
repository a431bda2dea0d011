package dto

import "time"

// ShopRequest entrada para crear o renombrar una tienda.
type ShopRequest struct {
	Name string `json:"nome_da_loja" validate:"required,min=2"`
}

// ShopResponse salida de una tienda.
type ShopResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome_da_loja"`
	OwnerID   string    `json:"owner_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ShopListResponse tiendas del usuario, más recientes primero.
type ShopListResponse struct {
	Items        []ShopResponse `json:"items"`
	ActiveShopID string         `json:"active_shop_id"`
}
