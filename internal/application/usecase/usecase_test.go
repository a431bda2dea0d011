package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Multitienda-api/internal/application/dto"
	"github.com/jhoicas/Multitienda-api/internal/application/usecase"
	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/infrastructure/sqlstore"
	"github.com/jhoicas/Multitienda-api/pkg/config"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

type countingInvalidator struct{ shops []string }

func (c *countingInvalidator) InvalidateShop(shopID string) { c.shops = append(c.shops, shopID) }

func openStore(t *testing.T) *sqlstore.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlstore.Open(ctx, config.DBConfig{Driver: config.DriverSQLite, Path: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlstore.NewUserRepository(db).Create(ctx, &entity.User{
		ID: "u1", Name: "Dono", Email: "dono@loja.com", DocumentType: entity.DocumentCPF,
		DocumentNumber: "12345678901", Role: entity.RoleUser, PasswordHash: "x", CreatedAt: time.Now(),
	}))
	shops := sqlstore.NewShopRepository(db)
	for _, id := range []string{"A", "B"} {
		require.NoError(t, shops.Create(ctx, &entity.Shop{ID: id, OwnerID: "u1", Name: id, CreatedAt: time.Now()}))
	}
	return db
}

func TestProductUseCase(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()
	inv := &countingInvalidator{}
	uc := usecase.NewProductUseCase(sqlstore.NewProductRepository(db), inv)

	p, err := uc.Create(ctx, "A", dto.CreateProductRequest{
		Name: "Pão", Stock: 3, Price: decimal.RequireFromString("1.255"), MinQuantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "1.26", p.Price.String(), "redondeo a 2 decimales en la salida")
	assert.True(t, p.LowStock)

	_, err = uc.Create(ctx, "A", dto.CreateProductRequest{Name: "Café", Stock: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	stock := int64(50)
	require.NoError(t, uc.Update(ctx, "A", p.ID, dto.UpdateProductRequest{Stock: &stock}))
	low, err := uc.LowStock(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, low.Items)

	// otra tienda no ve ni toca el producto
	listB, err := uc.List(ctx, "B")
	require.NoError(t, err)
	assert.Empty(t, listB.Items)
	require.NoError(t, uc.Delete(ctx, "B", p.ID))
	listA, err := uc.List(ctx, "A")
	require.NoError(t, err)
	require.Len(t, listA.Items, 1)
	assert.EqualValues(t, 50, listA.Items[0].Stock)

	require.NoError(t, uc.Delete(ctx, "A", p.ID))
	assert.Equal(t, []string{"A", "A", "B", "A"}, inv.shops)
}

func TestSaleUseCase(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	uc := usecase.NewSaleUseCase(sqlstore.NewSaleRepository(db), nil, time.UTC).
		WithClock(func() time.Time { return now })

	at := now.Add(-time.Hour)
	_, err := uc.Create(ctx, "A", dto.CreateSaleRequest{Product: "Pão", ItemsSold: 10, Total: decimal.RequireFromString("15.00"), Date: &at})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "A", dto.CreateSaleRequest{Product: "Café", ItemsSold: 5, Total: decimal.RequireFromString("7.50"), Date: &at})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "A", dto.CreateSaleRequest{Product: "Bolo", ItemsSold: 0, Total: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	daily, err := uc.Daily(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "22.5", daily.Total.String())
	assert.EqualValues(t, 15, daily.Items)
	assert.EqualValues(t, 2, daily.Count)

	weekly, err := uc.Weekly(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "1.5", weekly.AvgTicket.String())

	recent, err := uc.Recent(ctx, "A", 1)
	require.NoError(t, err)
	require.Len(t, recent.Items, 1)
	assert.Equal(t, "Café", recent.Items[0].Product)

	emptyB, err := uc.Daily(ctx, "B")
	require.NoError(t, err)
	assert.True(t, emptyB.Total.IsZero())
}
