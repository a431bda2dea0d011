package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/Multitienda-api/internal/application/analytics"
	"github.com/jhoicas/Multitienda-api/internal/application/auth"
	"github.com/jhoicas/Multitienda-api/internal/application/events"
	"github.com/jhoicas/Multitienda-api/internal/application/shop"
	"github.com/jhoicas/Multitienda-api/internal/application/shopdata"
	"github.com/jhoicas/Multitienda-api/internal/application/usecase"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
	"github.com/jhoicas/Multitienda-api/internal/infrastructure/session"
	"github.com/jhoicas/Multitienda-api/internal/infrastructure/sqlstore"
	httpRouter "github.com/jhoicas/Multitienda-api/internal/interfaces/http"
	"github.com/jhoicas/Multitienda-api/internal/observability/tracing"
	"github.com/jhoicas/Multitienda-api/pkg/config"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("session_backend", cfg.Session.Backend).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, log, cfg.Telemetry.OTLPEndpoint, cfg.App.Name, cfg.App.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	db, err := sqlstore.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer db.Close()

	sessionStore, closeSession, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de sesión")
	}
	defer closeSession()

	userRepo := sqlstore.NewUserRepository(db)
	shopRepo := sqlstore.NewShopRepository(db)
	productRepo := sqlstore.NewProductRepository(db)
	saleRepo := sqlstore.NewSaleRepository(db)
	txRunner := sqlstore.NewTxRunner(db.DB)

	// Bus de cambio de tienda activa: auditoría + recarga del snapshot en caché
	bus := events.NewBus(log)
	bus.Subscribe(events.NewAuditSubscriber(log))
	registry := shop.NewRegistry(shopRepo, txRunner, sessionStore, bus, log)
	snapshot := shopdata.NewService(productRepo, saleRepo, log, loc, shopdata.DefaultTTL)
	snapshot.Attach(bus)

	productUC := usecase.NewProductUseCase(productRepo, snapshot)
	saleUC := usecase.NewSaleUseCase(saleRepo, snapshot, loc)
	dashboardUC := appanalytics.NewDashboardUseCase(productRepo, saleRepo, log, loc)
	authUC := auth.NewAuthUseCase(userRepo, registry, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	if err := authUC.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("crear usuario administrador")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Multitienda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Registry:    registry,
		ProductUC:   productUC,
		SaleUC:      saleUC,
		DashboardUC: dashboardUC,
		Snapshot:    snapshot,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de trazas")
	}

	log.Info().Msg("aplicación detenida")
}

// newSessionStore elige el backend del puntero de tienda activa según configuración.
func newSessionStore(ctx context.Context, cfg config.SessionConfig) (repository.SessionStore, func(), error) {
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
