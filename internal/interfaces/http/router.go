package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Multitienda-api/internal/application/analytics"
	"github.com/jhoicas/Multitienda-api/internal/application/auth"
	"github.com/jhoicas/Multitienda-api/internal/application/shop"
	"github.com/jhoicas/Multitienda-api/internal/application/shopdata"
	"github.com/jhoicas/Multitienda-api/internal/application/usecase"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Registry    *shop.Registry
	ProductUC   *usecase.ProductUseCase
	SaleUC      *usecase.SaleUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Snapshot    *shopdata.Service
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log.Component("http")
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Registry, log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/logout", authHandler.Logout)

	// Shops (protegido; no requieren tienda activa salvo /active)
	shops := protected.Group("/shops")
	shopHandler := NewShopHandler(deps.Registry, log)
	activeShop := RequireActiveShop(deps.Registry, log)
	shops.Get("/", shopHandler.List)
	shops.Post("/", shopHandler.Create)
	shops.Get("/active", activeShop, shopHandler.Active)
	shops.Put("/:id", shopHandler.Update)
	shops.Delete("/:id", shopHandler.Delete)
	shops.Post("/:id/activate", shopHandler.Activate)

	// Datos de la tienda activa (protegido + tienda activa resuelta)
	products := protected.Group("/products", activeShop)
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/low-stock", productHandler.LowStock)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	sales := protected.Group("/sales", activeShop)
	saleHandler := NewSaleHandler(deps.SaleUC, log)
	sales.Get("/", saleHandler.List)
	sales.Post("/", saleHandler.Create)
	sales.Get("/recent", saleHandler.Recent)
	sales.Get("/daily", saleHandler.Daily)
	sales.Get("/weekly", saleHandler.Weekly)
	sales.Put("/:id", saleHandler.Update)
	sales.Delete("/:id", saleHandler.Delete)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Snapshot, log)
	protected.Get("/dashboard/metrics", activeShop, dashboardHandler.GetMetrics)
	protected.Get("/overview", activeShop, dashboardHandler.Overview)

	// Admin (protegido + rol admin)
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.AuthUC, log)
	admin.Get("/users", adminHandler.ListUsers)
}
