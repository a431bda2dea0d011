package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Multitienda-api/internal/application/auth"
	"github.com/jhoicas/Multitienda-api/internal/application/dto"
	"github.com/jhoicas/Multitienda-api/internal/application/events"
	"github.com/jhoicas/Multitienda-api/internal/application/shop"
	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/infrastructure/session"
	"github.com/jhoicas/Multitienda-api/internal/infrastructure/sqlstore"
	"github.com/jhoicas/Multitienda-api/pkg/config"
	"github.com/jhoicas/Multitienda-api/pkg/jwt"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

const secret = "test-secret"

func setup(t *testing.T) (*auth.AuthUseCase, *shop.Registry) {
	t.Helper()
	db, err := sqlstore.Open(context.Background(), config.DBConfig{Driver: config.DriverSQLite, Path: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	registry := shop.NewRegistry(
		sqlstore.NewShopRepository(db), sqlstore.NewTxRunner(db.DB),
		session.NewMemoryStore(), events.NewBus(logger.Nop()), logger.Nop(),
	)
	uc := auth.NewAuthUseCase(sqlstore.NewUserRepository(db), registry,
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"}, logger.Nop())
	return uc, registry
}

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:           "  Maria Silva ",
		Email:          " Maria@Loja.com ",
		DocumentType:   "CPF",
		DocumentNumber: "123.456.789-01",
		Address:        "Rua A, 10",
		Password:       "segredo123",
	}
}

func TestRegister(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	u, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", u.Name)
	assert.Equal(t, "maria@loja.com", u.Email)
	assert.Equal(t, entity.DocumentCPF, u.DocumentType)
	assert.Equal(t, "12345678901", u.DocumentNumber)
	assert.Equal(t, entity.RoleUser, u.Role)

	_, err = uc.Register(ctx, validRegister())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	otra := validRegister()
	otra.Email = "outra@loja.com"
	_, err = uc.Register(ctx, otra)
	assert.ErrorIs(t, err, domain.ErrDuplicate, "documento repetido")
}

func TestRegister_Validacion(t *testing.T) {
	uc, _ := setup(t)
	cases := map[string]func(*dto.RegisterRequest){
		"sin nombre":       func(r *dto.RegisterRequest) { r.Name = " " },
		"email inválido":   func(r *dto.RegisterRequest) { r.Email = "maria" },
		"cpf corto":        func(r *dto.RegisterRequest) { r.DocumentNumber = "123" },
		"cnpj con 11":      func(r *dto.RegisterRequest) { r.DocumentType = "cnpj" },
		"tipo desconocido": func(r *dto.RegisterRequest) { r.DocumentType = "rg" },
		"password corto":   func(r *dto.RegisterRequest) { r.Password = "123" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validRegister()
			mutate(&in)
			_, err := uc.Register(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	uc, registry := setup(t)
	ctx := context.Background()
	u, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "maria@loja.com", Password: "errado123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@loja.com", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// sin tiendas
	res, err := uc.Login(ctx, dto.LoginRequest{Email: "MARIA@loja.com", Password: "segredo123"})
	require.NoError(t, err)
	assert.Empty(t, res.Shops)
	assert.Empty(t, res.ActiveShopID)

	userID, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleUser, role)

	a, err := registry.CreateShop(ctx, "Loja A", u.ID)
	require.NoError(t, err)
	_, err = registry.CreateShop(ctx, "Loja B", u.ID)
	require.NoError(t, err)

	res, err = uc.Login(ctx, dto.LoginRequest{Email: "maria@loja.com", Password: "segredo123"})
	require.NoError(t, err)
	assert.Len(t, res.Shops, 2)
	assert.Equal(t, a.ID, res.ActiveShopID)
}

func TestEnsureAdmin(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, uc.EnsureAdmin(ctx, "Admin", "", ""), "email vacío no siembra")
	require.NoError(t, uc.EnsureAdmin(ctx, "Admin", "admin@loja.com", "admin1234"))
	require.NoError(t, uc.EnsureAdmin(ctx, "Admin", "admin@loja.com", "admin1234"), "segunda vez no hace nada")

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@loja.com", Password: "admin1234"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, res.User.Role)

	list, err := uc.ListUsers(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
}
