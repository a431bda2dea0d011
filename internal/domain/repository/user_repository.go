package repository

import (
	"context"

	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) cuando no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByDocument(ctx context.Context, docType, docNumber string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}
