package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Multitienda-api/internal/application/analytics"
	"github.com/jhoicas/Multitienda-api/internal/application/auth"
	"github.com/jhoicas/Multitienda-api/internal/application/events"
	"github.com/jhoicas/Multitienda-api/internal/application/shop"
	"github.com/jhoicas/Multitienda-api/internal/application/shopdata"
	"github.com/jhoicas/Multitienda-api/internal/application/usecase"
	"github.com/jhoicas/Multitienda-api/internal/infrastructure/session"
	"github.com/jhoicas/Multitienda-api/internal/infrastructure/sqlstore"
	apphttp "github.com/jhoicas/Multitienda-api/internal/interfaces/http"
	"github.com/jhoicas/Multitienda-api/pkg/config"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()
	db, err := sqlstore.Open(ctx, config.DBConfig{Driver: config.DriverSQLite, Path: ":memory:"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewBus(log)
	registry := shop.NewRegistry(sqlstore.NewShopRepository(db), sqlstore.NewTxRunner(db.DB), session.NewMemoryStore(), bus, log)
	products := sqlstore.NewProductRepository(db)
	sales := sqlstore.NewSaleRepository(db)
	snapshot := shopdata.NewService(products, sales, log, time.UTC, time.Minute)
	snapshot.Attach(bus)

	authUC := auth.NewAuthUseCase(sqlstore.NewUserRepository(db), registry,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, log)
	require.NoError(t, authUC.EnsureAdmin(ctx, "Admin", "admin@loja.com", "admin1234"))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		Registry:    registry,
		ProductUC:   usecase.NewProductUseCase(products, snapshot),
		SaleUC:      usecase.NewSaleUseCase(sales, snapshot, time.UTC),
		DashboardUC: analytics.NewDashboardUseCase(products, sales, log, time.UTC),
		Snapshot:    snapshot,
		JWTSecret:   testJWTSecret,
		Log:         log,
	})
	return app
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func (c *client) do(method, path string, body interface{}, out interface{}) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerAndLogin(t *testing.T, app *fiber.App, email, doc string) *client {
	t.Helper()
	c := &client{t: t, app: app}
	status := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"nome_completo": "Dono " + email, "email": email, "tipo_documento": "cpf",
		"numero_documento": doc, "password": "segredo123",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var login struct {
		Token string `json:"token"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": "segredo123"}, &login))
	c.token = login.Token
	return c
}

type shopOut struct {
	ID     string `json:"id"`
	Name   string `json:"nome_da_loja"`
	Active bool   `json:"active"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FlujoMultitienda(t *testing.T) {
	app := buildAPI(t)
	c := registerAndLogin(t, app, "maria@loja.com", "12345678901")

	// sin tienda: los datos acotados no están disponibles
	assert.Equal(t, http.StatusConflict, c.do(http.MethodGet, "/api/products", nil, nil))

	var a, b shopOut
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/shops", map[string]string{"nome_da_loja": "Loja A"}, &a))
	assert.True(t, a.Active, "la primera tienda queda activa")
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/shops", map[string]string{"nome_da_loja": "Loja B"}, &b))
	assert.False(t, b.Active)

	// ventas en A
	for _, sale := range []map[string]interface{}{
		{"product": "Pão", "items_sold": 10, "total": "15.00"},
		{"product": "Café", "items_sold": 5, "total": "7.50"},
	} {
		require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/sales", sale, nil))
	}
	var daily struct {
		Total string `json:"total"`
		Items int64  `json:"items"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/sales/daily", nil, &daily))
	assert.Equal(t, "22.5", daily.Total)
	assert.EqualValues(t, 15, daily.Items)

	// cambiar a B: no ve las ventas de A
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/shops/"+b.ID+"/activate", nil, nil))
	var active shopOut
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/shops/active", nil, &active))
	assert.Equal(t, b.ID, active.ID)

	var list struct {
		Items []json.RawMessage `json:"items"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/sales", nil, &list))
	assert.Empty(t, list.Items)

	var overview struct {
		Shop  shopOut `json:"shop"`
		Daily struct {
			Count int64 `json:"count"`
		} `json:"daily"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/overview", nil, &overview))
	assert.Equal(t, b.ID, overview.Shop.ID)
	assert.Zero(t, overview.Daily.Count)

	var metrics struct {
		ShopID  string   `json:"shop_id"`
		Partial bool     `json:"partial"`
		Failed  []string `json:"failed"`
		Series  []struct {
			Date string `json:"date"`
		} `json:"sales_last_30_days"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/dashboard/metrics", nil, &metrics))
	assert.Equal(t, b.ID, metrics.ShopID)
	assert.False(t, metrics.Partial)
	assert.Empty(t, metrics.Failed)
	assert.Len(t, metrics.Series, 30)

	// borrar la activa: A pasa a ser la activa
	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/shops/"+b.ID, nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/shops/active", nil, &active))
	assert.Equal(t, a.ID, active.ID)

	// la única tienda no se puede borrar
	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, "/api/shops/"+a.ID, nil, nil))
}

func TestAPI_PropiedadYValidacion(t *testing.T) {
	app := buildAPI(t)
	maria := registerAndLogin(t, app, "maria@loja.com", "12345678901")
	joao := registerAndLogin(t, app, "joao@loja.com", "10987654321")

	var a shopOut
	require.Equal(t, http.StatusCreated, maria.do(http.MethodPost, "/api/shops", map[string]string{"nome_da_loja": "Loja A"}, &a))

	assert.Equal(t, http.StatusForbidden, joao.do(http.MethodPost, "/api/shops/"+a.ID+"/activate", nil, nil))
	assert.Equal(t, http.StatusNotFound, joao.do(http.MethodPost, "/api/shops/no-existe/activate", nil, nil))
	assert.Equal(t, http.StatusBadRequest, joao.do(http.MethodPost, "/api/shops", map[string]string{"nome_da_loja": " x "}, nil))

	assert.Equal(t, http.StatusBadRequest, maria.do(http.MethodPost, "/api/products",
		map[string]interface{}{"name": "Pão", "stock": -1}, nil))
	assert.Equal(t, http.StatusBadRequest, maria.do(http.MethodDelete, "/api/products/abc", nil, nil))

	// admin
	assert.Equal(t, http.StatusForbidden, maria.do(http.MethodGet, "/api/admin/users", nil, nil))
	admin := &client{t: t, app: app}
	var login struct {
		Token string `json:"token"`
	}
	require.Equal(t, http.StatusOK, admin.do(http.MethodPost, "/api/auth/login",
		map[string]string{"email": "admin@loja.com", "password": "admin1234"}, &login))
	admin.token = login.Token
	var users struct {
		Items []json.RawMessage `json:"items"`
	}
	require.Equal(t, http.StatusOK, admin.do(http.MethodGet, "/api/admin/users", nil, &users))
	assert.Len(t, users.Items, 3)

	// logout borra la tienda activa; la siguiente consulta la repara
	assert.Equal(t, http.StatusNoContent, maria.do(http.MethodPost, "/api/auth/logout", nil, nil))
	var active shopOut
	require.Equal(t, http.StatusOK, maria.do(http.MethodGet, "/api/shops/active", nil, &active))
	assert.Equal(t, a.ID, active.ID)

	// credenciales inválidas
	anon := &client{t: t, app: app}
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/auth/login",
		map[string]string{"email": "maria@loja.com", "password": "errado"}, nil))
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/api/shops", nil, nil))
}
