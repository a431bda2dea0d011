package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
	"github.com/jhoicas/Multitienda-api/internal/infrastructure/sqlstore"
	"github.com/jhoicas/Multitienda-api/pkg/config"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newTestDB abre una base SQLite en memoria con las migraciones reales.
func newTestDB(t *testing.T) *sqlstore.DB {
	t.Helper()
	db, err := sqlstore.Open(context.Background(), config.DBConfig{Driver: config.DriverSQLite, Path: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *sqlstore.DB, email string) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:             uuid.NewString(),
		Name:           "Usuario " + email,
		Email:          email,
		DocumentType:   entity.DocumentCPF,
		DocumentNumber: uuid.NewString()[:11],
		Role:           entity.RoleUser,
		PasswordHash:   "hash",
		CreatedAt:      time.Now(),
	}
	require.NoError(t, sqlstore.NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedShop(t *testing.T, db *sqlstore.DB, ownerID, name string, createdAt time.Time) *entity.Shop {
	t.Helper()
	s := &entity.Shop{ID: uuid.NewString(), OwnerID: ownerID, Name: name, CreatedAt: createdAt}
	require.NoError(t, sqlstore.NewShopRepository(db).Create(context.Background(), s))
	return s
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Esquema
// ──────────────────────────────────────────────────────────────────────────────

func TestOpen_MigracionesIdempotentes(t *testing.T) {
	db := newTestDB(t)

	version, err := sqlstore.Migrate(db.DB.DB, config.DriverSQLite)
	require.NoError(t, err, "re-aplicar migraciones sin cambios no es error")
	assert.Equal(t, uint(1), version)
	assert.NoError(t, sqlstore.VerifySchema(context.Background(), db))
}

// Un esquema antiguo sin shopId debe fallar de forma explícita, nunca consultar sin filtrar por tienda.
func TestVerifySchema_SinShopIdFalla(t *testing.T) {
	raw, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer raw.Close()
	raw.SetMaxOpenConns(1)

	_, err = raw.Exec(`CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT); CREATE TABLE sales (id INTEGER PRIMARY KEY, shopId TEXT)`)
	require.NoError(t, err)

	err = sqlstore.VerifySchema(context.Background(), raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "products")
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y tiendas
// ──────────────────────────────────────────────────────────────────────────────

func TestUserRepo_Unicidad(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlstore.NewUserRepository(db)
	u := seedUser(t, db, "ana@loja.com")

	dupEmail := *u
	dupEmail.ID = uuid.NewString()
	dupEmail.DocumentNumber = "99999999999"
	assert.ErrorIs(t, repo.Create(ctx, &dupEmail), domain.ErrEmailAlreadyExists)

	dupDoc := *u
	dupDoc.ID = uuid.NewString()
	dupDoc.Email = "otra@loja.com"
	assert.ErrorIs(t, repo.Create(ctx, &dupDoc), domain.ErrDuplicate)

	got, err := repo.GetByDocument(ctx, u.DocumentType, u.DocumentNumber)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.Email, got.Email)

	missing, err := repo.GetByEmail(ctx, "nadie@loja.com")
	require.NoError(t, err)
	assert.Nil(t, missing, "no encontrado devuelve nil, nil")
}

func TestShopRepo_ListaMasRecientePrimero(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlstore.NewShopRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	other := seedUser(t, db, "u2@loja.com")

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	a := seedShop(t, db, u.ID, "Loja A", base)
	b := seedShop(t, db, u.ID, "Loja B", base.Add(time.Hour))
	seedShop(t, db, other.ID, "Loja X", base.Add(2*time.Hour))

	list, err := repo.ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	n, err := repo.CountByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	empty, err := repo.ListByOwner(ctx, "sin-tiendas")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, repo.UpdateName(ctx, a.ID, "Loja A1"))
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loja A1", got.Name)
	assert.True(t, got.CreatedAt.Equal(base))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductRepo_AislamientoEntreTiendas(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlstore.NewProductRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shopA := seedShop(t, db, u.ID, "Loja A", time.Now())
	shopB := seedShop(t, db, u.ID, "Loja B", time.Now())

	_, err := repo.Insert(ctx, shopA.ID, entity.ProductInput{Name: "Água", Stock: 100, Price: dec("1.50"), MinQuantity: 20})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, shopB.ID, entity.ProductInput{Name: "Pão", Stock: 10, Price: dec("0.75")})
	require.NoError(t, err)

	listA, err := repo.GetAll(ctx, shopA.ID)
	require.NoError(t, err)
	listB, err := repo.GetAll(ctx, shopB.ID)
	require.NoError(t, err)

	require.Len(t, listA, 1)
	require.Len(t, listB, 1)
	for _, p := range listA {
		assert.Equal(t, shopA.ID, p.ShopID)
	}
	for _, p := range listB {
		assert.Equal(t, shopB.ID, p.ShopID)
	}
}

func TestProductRepo_RoundTripYOrden(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlstore.NewProductRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shop := seedShop(t, db, u.ID, "Loja A", time.Now())

	first, err := repo.Insert(ctx, shop.ID, entity.ProductInput{Name: " Água ", Stock: 100, Price: dec("1.50"), CostPrice: dec("0.90"), MinQuantity: 20})
	require.NoError(t, err)
	second, err := repo.Insert(ctx, shop.ID, entity.ProductInput{Name: "Café", Stock: 3, Price: dec("12.345"), MinQuantity: 5})
	require.NoError(t, err)

	list, err := repo.GetAll(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "el último insertado va primero")

	got := list[1]
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Água", got.Name)
	assert.Equal(t, int64(100), got.Stock)
	assert.True(t, dec("1.50").Equal(got.Price))
	assert.True(t, dec("0.90").Equal(got.CostPrice))
	assert.Equal(t, int64(20), got.MinQuantity)
	assert.True(t, dec("12.345").Equal(list[0].Price), "el precio se guarda con precisión completa")
}

func TestProductRepo_Validacion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlstore.NewProductRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shop := seedShop(t, db, u.ID, "Loja A", time.Now())

	_, err := repo.Insert(ctx, shop.ID, entity.ProductInput{Name: "Água", Stock: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = repo.Insert(ctx, shop.ID, entity.ProductInput{Name: "Água", Price: dec("-0.01")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := repo.GetAll(ctx, shop.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "nada se persiste si la validación falla")
}

func TestProductRepo_UpdateParcial(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlstore.NewProductRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shopA := seedShop(t, db, u.ID, "Loja A", time.Now())
	shopB := seedShop(t, db, u.ID, "Loja B", time.Now())

	p, err := repo.Insert(ctx, shopA.ID, entity.ProductInput{Name: "Água", Stock: 100, Price: dec("1.50"), MinQuantity: 20})
	require.NoError(t, err)

	stock := int64(15)
	require.NoError(t, repo.Update(ctx, shopA.ID, p.ID, entity.ProductPatch{Stock: &stock}))

	// Patch vacío: no-op sin error
	require.NoError(t, repo.Update(ctx, shopA.ID, p.ID, entity.ProductPatch{}))

	// Desde otra tienda: no afecta al producto
	other := int64(0)
	require.NoError(t, repo.Update(ctx, shopB.ID, p.ID, entity.ProductPatch{Stock: &other}))

	neg := int64(-3)
	assert.ErrorIs(t, repo.Update(ctx, shopA.ID, p.ID, entity.ProductPatch{MinQuantity: &neg}), domain.ErrValidation)

	list, err := repo.GetAll(ctx, shopA.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(15), list[0].Stock)
	assert.Equal(t, "Água", list[0].Name, "los campos no enviados no cambian")
	assert.True(t, dec("1.50").Equal(list[0].Price))

	low, err := repo.LowStock(ctx, shopA.ID)
	require.NoError(t, err)
	require.Len(t, low, 1, "15 <= 20 es stock bajo")
}

func TestProductRepo_DeleteIdempotente(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlstore.NewProductRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shopA := seedShop(t, db, u.ID, "Loja A", time.Now())
	shopB := seedShop(t, db, u.ID, "Loja B", time.Now())

	p, err := repo.Insert(ctx, shopA.ID, entity.ProductInput{Name: "Água", Stock: 1})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, shopB.ID, p.ID), "borrar desde otra tienda no es error")
	list, err := repo.GetAll(ctx, shopA.ID)
	require.NoError(t, err)
	require.Len(t, list, 1, "ni borra el producto ajeno")

	require.NoError(t, repo.Delete(ctx, shopA.ID, p.ID))
	require.NoError(t, repo.Delete(ctx, shopA.ID, p.ID), "segundo delete sin error")

	list, err = repo.GetAll(ctx, shopA.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductRepo_StockMetrics(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlstore.NewProductRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shop := seedShop(t, db, u.ID, "Loja A", time.Now())

	_, err := repo.Insert(ctx, shop.ID, entity.ProductInput{Name: "Água", Stock: 100, Price: dec("1.50"), MinQuantity: 20})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, shop.ID, entity.ProductInput{Name: "Pão", Stock: 2, Price: dec("0.10"), MinQuantity: 5})
	require.NoError(t, err)

	m, err := repo.StockMetrics(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.TotalProducts)
	assert.Equal(t, int64(102), m.TotalStockItems)
	assert.True(t, dec("150.20").Equal(m.TotalStockValue))
	assert.Equal(t, 1, m.LowStockCount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: Loja A tiene "Água"; una venta de 15 ítems por 22.50 aparece en el total diario,
// y Loja B no ve los productos de Loja A.
func TestSaleRepo_EscenarioTotalDiario(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	products := sqlstore.NewProductRepository(db)
	sales := sqlstore.NewSaleRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shopA := seedShop(t, db, u.ID, "Loja A", time.Now())
	shopB := seedShop(t, db, u.ID, "Loja B", time.Now())

	_, err := products.Insert(ctx, shopA.ID, entity.ProductInput{Name: "Água", Stock: 100, MinQuantity: 20})
	require.NoError(t, err)

	now := time.Now()
	_, err = sales.Insert(ctx, shopA.ID, entity.SaleInput{Product: "Água", ItemsSold: 15, Total: dec("22.50"), Date: now})
	require.NoError(t, err)

	daily, err := sales.DailyTotal(ctx, shopA.ID, now)
	require.NoError(t, err)
	assert.True(t, dec("22.50").Equal(daily.Total), "got %s", daily.Total)
	assert.Equal(t, int64(15), daily.Items)
	assert.Equal(t, int64(1), daily.Count)

	listB, err := products.GetAll(ctx, shopB.ID)
	require.NoError(t, err)
	assert.Empty(t, listB)

	dailyB, err := sales.DailyTotal(ctx, shopB.ID, now)
	require.NoError(t, err)
	assert.True(t, dailyB.Total.IsZero(), "sin filas devuelve cero, no error")
	assert.Zero(t, dailyB.Items)

	// Registrar una venta no descuenta stock
	listA, err := products.GetAll(ctx, shopA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), listA[0].Stock)
}

func TestSaleRepo_PrecisionCompleta(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	sales := sqlstore.NewSaleRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shop := seedShop(t, db, u.ID, "Loja A", time.Now())

	now := time.Now()
	for i := 0; i < 3; i++ {
		_, err := sales.Insert(ctx, shop.ID, entity.SaleInput{Product: "Bala", ItemsSold: 1, Total: dec("0.105"), Date: now})
		require.NoError(t, err)
	}
	daily, err := sales.DailyTotal(ctx, shop.ID, now)
	require.NoError(t, err)
	assert.True(t, dec("0.315").Equal(daily.Total), "se suma sin redondear: got %s", daily.Total)
}

func TestSaleRepo_SemanalYRangos(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	sales := sqlstore.NewSaleRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shop := seedShop(t, db, u.ID, "Loja A", time.Now())

	loc := time.FixedZone("BRT", -3*3600)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)

	insert := func(at time.Time, items int64, total string) {
		_, err := sales.Insert(ctx, shop.ID, entity.SaleInput{Product: "Água", ItemsSold: items, Total: dec(total), Date: at})
		require.NoError(t, err)
	}
	insert(now, 2, "10.00")
	insert(now.AddDate(0, 0, -3), 3, "20.00")
	insert(time.Date(2026, 3, 3, 0, 0, 0, 0, loc), 5, "30.00")       // justo en el inicio de la ventana semanal
	insert(time.Date(2026, 3, 2, 23, 59, 0, 0, loc), 100, "1000.00") // fuera de la ventana

	weekly, err := sales.WeeklyTotal(ctx, shop.ID, now)
	require.NoError(t, err)
	assert.True(t, dec("60").Equal(weekly.Total), "got %s", weekly.Total)
	assert.Equal(t, int64(10), weekly.Items)
	assert.Equal(t, int64(3), weekly.Count)
	assert.True(t, dec("6").Equal(weekly.AvgTicket), "ticket medio = total / ítems")

	daily, err := sales.DailyTotal(ctx, shop.ID, now)
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(daily.Total))

	// 22:30 en BRT ya es el día siguiente en UTC; sigue contando como hoy en la zona local
	insert(time.Date(2026, 3, 10, 22, 30, 0, 0, loc), 1, "1.00")
	daily, err = sales.DailyTotal(ctx, shop.ID, now)
	require.NoError(t, err)
	assert.True(t, dec("11").Equal(daily.Total))
}

func TestSaleRepo_RecentTopYSerie(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	sales := sqlstore.NewSaleRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shop := seedShop(t, db, u.ID, "Loja A", time.Now())
	other := seedShop(t, db, u.ID, "Loja B", time.Now())

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	names := []string{"Água", "Pão", "Café", "Leite", "Suco", "Bolo"}
	for i := 0; i < 25; i++ {
		name := names[i%len(names)]
		_, err := sales.Insert(ctx, shop.ID, entity.SaleInput{
			Product: name, ItemsSold: int64(i%len(names) + 1), Total: dec("2.00"), Date: now.AddDate(0, 0, -(i % 3)),
		})
		require.NoError(t, err)
	}
	_, err := sales.Insert(ctx, other.ID, entity.SaleInput{Product: "Água", ItemsSold: 500, Total: dec("999"), Date: now})
	require.NoError(t, err)

	recent, err := sales.GetRecent(ctx, shop.ID, 0)
	require.NoError(t, err)
	require.Len(t, recent, 20, "límite por defecto 20")
	assert.Greater(t, recent[0].ID, recent[19].ID)

	recent, err = sales.GetRecent(ctx, shop.ID, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 5)

	from, to := entity.TrailingDays(now, 30)
	top, err := sales.TopProducts(ctx, shop.ID, from, to, 5)
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, "Bolo", top[0].Name, "Bolo vende 6 por venta")
	assert.Equal(t, int64(24), top[0].TotalSold, "4 ventas de 6 ítems; la venta de Loja B no cuenta")
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].TotalSold, top[i].TotalSold)
	}

	series, err := sales.DailySeries(ctx, shop.ID, from, to)
	require.NoError(t, err)
	require.Len(t, series, 30)
	assert.Equal(t, "2026-02-09", series[0].Date)
	assert.Equal(t, "2026-03-10", series[29].Date)
	assert.True(t, series[0].Sales.IsZero())

	total := decimal.Zero
	for _, p := range series {
		total = total.Add(p.Sales)
	}
	assert.True(t, dec("50").Equal(total), "25 ventas de 2.00")

	avg, err := sales.AverageTicket(ctx, shop.ID, from, to)
	require.NoError(t, err)
	assert.True(t, dec("2").Equal(avg))
}

func TestSaleRepo_UpdateDeleteYCascada(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	sales := sqlstore.NewSaleRepository(db)
	products := sqlstore.NewProductRepository(db)
	shops := sqlstore.NewShopRepository(db)
	u := seedUser(t, db, "u1@loja.com")
	shop := seedShop(t, db, u.ID, "Loja A", time.Now())

	s, err := sales.Insert(ctx, shop.ID, entity.SaleInput{Product: "Água", ItemsSold: 1, Total: dec("1.50")})
	require.NoError(t, err)
	assert.False(t, s.Date.IsZero(), "fecha por defecto = ahora")

	total := dec("3.00")
	require.NoError(t, sales.Update(ctx, shop.ID, s.ID, entity.SalePatch{Total: &total}))
	zero := int64(0)
	assert.ErrorIs(t, sales.Update(ctx, shop.ID, s.ID, entity.SalePatch{ItemsSold: &zero}), domain.ErrValidation)

	all, err := sales.GetAll(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, total.Equal(all[0].Total))
	assert.Equal(t, int64(1), all[0].ItemsSold)

	require.NoError(t, sales.Delete(ctx, shop.ID, s.ID))
	require.NoError(t, sales.Delete(ctx, shop.ID, s.ID))

	// Cascada: al borrar la tienda desaparecen sus productos y ventas
	_, err = sales.Insert(ctx, shop.ID, entity.SaleInput{Product: "Água", ItemsSold: 1, Total: dec("1.50")})
	require.NoError(t, err)
	_, err = products.Insert(ctx, shop.ID, entity.ProductInput{Name: "Água", Stock: 1})
	require.NoError(t, err)
	require.NoError(t, shops.Delete(ctx, shop.ID))

	var n int
	require.NoError(t, db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sales`))
	assert.Zero(t, n)
	require.NoError(t, db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`))
	assert.Zero(t, n)
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "u1@loja.com")
	shop := seedShop(t, db, u.ID, "Loja A", time.Now())

	runner := sqlstore.NewTxRunner(db.DB)
	err := runner.RunShops(ctx, func(shops repository.ShopRepository) error {
		require.NoError(t, shops.Delete(ctx, shop.ID))
		return domain.ErrInvariantViolation
	})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	got, err := sqlstore.NewShopRepository(db).GetByID(ctx, shop.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "el rollback conserva la tienda")
}
