package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Multitienda-api/internal/application/dto"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
)

// SaleUseCase registro y consulta de ventas de la tienda activa.
type SaleUseCase struct {
	repo  repository.SaleRepository
	cache Invalidator
	loc   *time.Location
	now   func() time.Time
}

// NewSaleUseCase construye el caso de uso. loc es la zona de los cortes de día (nil = local).
func NewSaleUseCase(repo repository.SaleRepository, cache Invalidator, loc *time.Location) *SaleUseCase {
	if cache == nil {
		cache = noopInvalidator{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &SaleUseCase{repo: repo, cache: cache, loc: loc, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *SaleUseCase) WithClock(now func() time.Time) *SaleUseCase {
	uc.now = now
	return uc
}

// List todas las ventas de la tienda, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, shopID string) (*dto.SaleListResponse, error) {
	list, err := uc.repo.GetAll(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return &dto.SaleListResponse{Items: toSaleList(list)}, nil
}

// Recent últimas limit ventas (limit <= 0 usa 20).
func (uc *SaleUseCase) Recent(ctx context.Context, shopID string, limit int) (*dto.SaleListResponse, error) {
	list, err := uc.repo.GetRecent(ctx, shopID, limit)
	if err != nil {
		return nil, err
	}
	return &dto.SaleListResponse{Items: toSaleList(list)}, nil
}

// Create registra una venta. No descuenta stock.
func (uc *SaleUseCase) Create(ctx context.Context, shopID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	input := entity.SaleInput{Product: in.Product, ItemsSold: in.ItemsSold, Total: in.Total}
	if in.Date != nil {
		input.Date = *in.Date
	}
	s, err := uc.repo.Insert(ctx, shopID, input)
	if err != nil {
		return nil, err
	}
	uc.cache.InvalidateShop(shopID)
	out := toSaleResponse(*s)
	return &out, nil
}

// Update corrige los campos presentes de una venta.
func (uc *SaleUseCase) Update(ctx context.Context, shopID string, id int64, in dto.UpdateSaleRequest) error {
	patch := entity.SalePatch{Product: in.Product, ItemsSold: in.ItemsSold, Total: in.Total, Date: in.Date}
	if err := uc.repo.Update(ctx, shopID, id, patch); err != nil {
		return err
	}
	uc.cache.InvalidateShop(shopID)
	return nil
}

// Delete elimina una venta (idempotente).
func (uc *SaleUseCase) Delete(ctx context.Context, shopID string, id int64) error {
	if err := uc.repo.Delete(ctx, shopID, id); err != nil {
		return err
	}
	uc.cache.InvalidateShop(shopID)
	return nil
}

// Daily totales de hoy.
func (uc *SaleUseCase) Daily(ctx context.Context, shopID string) (*dto.SalesTotalsResponse, error) {
	t, err := uc.repo.DailyTotal(ctx, shopID, uc.now().In(uc.loc))
	if err != nil {
		return nil, err
	}
	out := toTotals(t)
	return &out, nil
}

// Weekly totales de los últimos 7 días más hoy, con ticket medio por ítem.
func (uc *SaleUseCase) Weekly(ctx context.Context, shopID string) (*dto.WeeklySummaryResponse, error) {
	w, err := uc.repo.WeeklyTotal(ctx, shopID, uc.now().In(uc.loc))
	if err != nil {
		return nil, err
	}
	out := toWeekly(w)
	return &out, nil
}
