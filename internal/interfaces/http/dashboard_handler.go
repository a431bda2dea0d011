package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Multitienda-api/internal/application/analytics"
	"github.com/jhoicas/Multitienda-api/internal/application/shopdata"
	"github.com/jhoicas/Multitienda-api/internal/application/usecase"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// DashboardHandler maneja los endpoints del dashboard y del resumen en caché.
type DashboardHandler struct {
	uc       *appanalytics.DashboardUseCase
	snapshot *shopdata.Service
	log      *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, snapshot *shopdata.Service, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, snapshot: snapshot, log: log}
}

// GetMetrics devuelve las métricas de la tienda activa.
// GET /api/dashboard/metrics
//
// Siempre 200: las sub-métricas que fallan llegan en cero y se listan en "failed".
func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	m, err := h.uc.GetMetrics(c.UserContext(), GetShopID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(usecase.ToDashboardDTO(m))
}

// Overview devuelve el snapshot en caché de la tienda activa (ventas recientes, totales, stock).
// GET /api/overview
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	shop := getActiveShop(c)
	snap, err := h.snapshot.Get(c.UserContext(), GetUserID(c), shop.ID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(usecase.ToOverviewDTO(*shop, snap))
}
