package usecase

import (
	"context"

	"github.com/jhoicas/Multitienda-api/internal/application/dto"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

// Invalidator descarta vistas en caché de una tienda tras una escritura.
type Invalidator interface {
	InvalidateShop(shopID string)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateShop(string) {}

// ProductUseCase casos de uso CRUD para productos de la tienda activa.
// shopID siempre llega resuelto y validado por el registro de tiendas.
type ProductUseCase struct {
	repo  repository.ProductRepository
	cache Invalidator
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, cache Invalidator) *ProductUseCase {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &ProductUseCase{repo: repo, cache: cache}
}

// List productos de la tienda, más recientes primero.
func (uc *ProductUseCase) List(ctx context.Context, shopID string) (*dto.ProductListResponse, error) {
	list, err := uc.repo.GetAll(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{Items: toProductList(list)}, nil
}

// LowStock productos con stock <= cantidad mínima.
func (uc *ProductUseCase) LowStock(ctx context.Context, shopID string) (*dto.ProductListResponse, error) {
	list, err := uc.repo.LowStock(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{Items: toProductList(list)}, nil
}

// Create crea un producto en la tienda.
func (uc *ProductUseCase) Create(ctx context.Context, shopID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.Insert(ctx, shopID, entity.ProductInput{
		Name:        in.Name,
		Stock:       in.Stock,
		Price:       in.Price,
		CostPrice:   in.CostPrice,
		MinQuantity: in.MinQuantity,
	})
	if err != nil {
		return nil, err
	}
	uc.cache.InvalidateShop(shopID)
	out := toProductResponse(*p)
	return &out, nil
}

// Update aplica solo los campos presentes. Un id inexistente o de otra tienda no cambia nada.
func (uc *ProductUseCase) Update(ctx context.Context, shopID string, id int64, in dto.UpdateProductRequest) error {
	patch := entity.ProductPatch{
		Name:        in.Name,
		Stock:       in.Stock,
		Price:       in.Price,
		CostPrice:   in.CostPrice,
		MinQuantity: in.MinQuantity,
	}
	if err := uc.repo.Update(ctx, shopID, id, patch); err != nil {
		return err
	}
	uc.cache.InvalidateShop(shopID)
	return nil
}

// Delete elimina un producto (idempotente).
func (uc *ProductUseCase) Delete(ctx context.Context, shopID string, id int64) error {
	if err := uc.repo.Delete(ctx, shopID, id); err != nil {
		return err
	}
	uc.cache.InvalidateShop(shopID)
	return nil
}
