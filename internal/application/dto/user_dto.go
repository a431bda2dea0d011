package dto

import "time"

// RegisterRequest entrada para registro de un usuario (password en texto, se hashea en el use case).
type RegisterRequest struct {
	Name           string `json:"nome_completo" validate:"required,min=1,max=200"`
	Email          string `json:"email" validate:"required,email"`
	DocumentType   string `json:"tipo_documento" validate:"required,oneof=cpf cnpj"`
	DocumentNumber string `json:"numero_documento" validate:"required"`
	Address        string `json:"endereco"`
	Password       string `json:"password" validate:"required,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"nome_completo"`
	Email          string    `json:"email"`
	DocumentType   string    `json:"tipo_documento"`
	DocumentNumber string    `json:"numero_documento"`
	Address        string    `json:"endereco"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserListResponse lista paginada de usuarios (admin).
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT, usuario, sus tiendas y la tienda activa ("" si no tiene ninguna).
type LoginResponse struct {
	Token        string         `json:"token"`
	User         UserResponse   `json:"user"`
	Shops        []ShopResponse `json:"shops"`
	ActiveShopID string         `json:"active_shop_id"`
}
