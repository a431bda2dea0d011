// seed crea una tienda de demostración con productos y ventas para un usuario existente.
//
// Uso: go run ./cmd/seed -email dono@loja.com [-shop "Loja Demo"]
// Lee la misma configuración que la API (DB_DRIVER, DB_PATH, SESSION_BACKEND, ...).
// Si el usuario no tenía tiendas, la nueva queda activa.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Multitienda-api/internal/application/events"
	"github.com/jhoicas/Multitienda-api/internal/application/shop"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
	"github.com/jhoicas/Multitienda-api/internal/infrastructure/session"
	"github.com/jhoicas/Multitienda-api/internal/infrastructure/sqlstore"
	"github.com/jhoicas/Multitienda-api/pkg/config"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

type demoProduct struct {
	name          string
	stock, minQty int64
	price, cost   string
}

type demoSale struct {
	product  string
	items    int64
	total    string
	daysBack int
}

var demoProducts = []demoProduct{
	{"Pão de Açúcar", 50, 10, "0.50", "0.30"},
	{"Refrigerante 2L", 30, 5, "4.50", "2.80"},
	{"Água Mineral", 100, 20, "1.50", "0.80"},
	{"Biscoito Recheado", 25, 5, "2.80", "1.50"},
	{"Leite Integral", 6, 8, "3.20", "2.10"},
}

var demoSales = []demoSale{
	{"Pão de Açúcar", 25, "12.50", 0},
	{"Refrigerante 2L", 8, "36.00", 0},
	{"Água Mineral", 15, "22.50", 1},
	{"Biscoito Recheado", 12, "33.60", 1},
	{"Leite Integral", 10, "32.00", 2},
	{"Pão de Açúcar", 40, "20.00", 5},
}

func main() {
	email := flag.String("email", "", "email del dueño (usuario ya registrado)")
	name := flag.String("shop", "Loja Demo", "nombre de la tienda a crear")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Uso: seed -email <email> [-shop <nombre>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg, log, *email, *name); err != nil {
		log.Error().Err(err).Msg("seed fallido")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, email, name string) error {
	db, err := sqlstore.Open(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer db.Close()

	store, closeStore, err := openSession(ctx, cfg.Session)
	if err != nil {
		return err
	}
	defer closeStore()

	user, err := sqlstore.NewUserRepository(db).GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("buscar usuario %s: %w", email, err)
	}

	bus := events.NewBus(log)
	bus.Subscribe(events.NewAuditSubscriber(log))
	shopRepo := sqlstore.NewShopRepository(db)
	registry := shop.NewRegistry(shopRepo, sqlstore.NewTxRunner(db.DB), store, bus, log)

	s, err := registry.CreateShop(ctx, name, user.ID)
	if err != nil {
		return err
	}

	products := sqlstore.NewProductRepository(db)
	for _, p := range demoProducts {
		if _, err := products.Insert(ctx, s.ID, entity.ProductInput{
			Name:        p.name,
			Stock:       p.stock,
			Price:       decimal.RequireFromString(p.price),
			CostPrice:   decimal.RequireFromString(p.cost),
			MinQuantity: p.minQty,
		}); err != nil {
			return err
		}
	}

	sales := sqlstore.NewSaleRepository(db)
	now := time.Now()
	for _, v := range demoSales {
		if _, err := sales.Insert(ctx, s.ID, entity.SaleInput{
			Product:   v.product,
			ItemsSold: v.items,
			Total:     decimal.RequireFromString(v.total),
			Date:      now.AddDate(0, 0, -v.daysBack),
		}); err != nil {
			return err
		}
	}

	log.Info().
		Str("user_id", user.ID).
		Str("shop_id", s.ID).
		Int("products", len(demoProducts)).
		Int("sales", len(demoSales)).
		Msg("tienda de demostración creada")
	return nil
}

func openSession(ctx context.Context, cfg config.SessionConfig) (repository.SessionStore, func(), error) {
	switch cfg.Backend {
	case config.SessionRedis:
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, cfg.KeyPrefix), func() { _ = client.Close() }, nil
	case config.SessionMemory:
		return session.NewMemoryStore(), func() {}, nil
	default:
		return session.NewFileStore(cfg.FilePath), func() {}, nil
	}
}
