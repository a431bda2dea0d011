package repository

import "context"

// SessionStore guarda qué tienda está activa para cada usuario.
// No valida que la tienda exista ni que pertenezca al usuario; eso lo hace el registro de tiendas.
// Los errores de E/S se devuelven envueltos en domain.ErrStorage.
type SessionStore interface {
	// SetActive sobrescribe el valor previo; idempotente.
	SetActive(ctx context.Context, userID, shopID string) error
	// GetActive devuelve ok=false si nunca se fijó o fue borrado.
	GetActive(ctx context.Context, userID string) (shopID string, ok bool, err error)
	Clear(ctx context.Context, userID string) error
}
