package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Multitienda-api/internal/application/dto"
	"github.com/jhoicas/Multitienda-api/internal/application/usecase"
	"github.com/jhoicas/Multitienda-api/internal/domain/repository"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// SaleHandler maneja las ventas de la tienda activa.
type SaleHandler struct {
	uc  *usecase.SaleUseCase
	log *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *usecase.SaleUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar venta en la tienda activa
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Datos de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetShopID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas de la tienda activa
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetShopID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Recent godoc
// @Summary      Últimas ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(20)
// @Success      200    {object}  dto.SaleListResponse
// @Router       /api/sales/recent [get]
func (h *SaleHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", repository.DefaultRecentLimit)
	if limit > 100 {
		limit = 100
	}
	out, err := h.uc.Recent(c.UserContext(), GetShopID(c), limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Daily godoc
// @Summary      Totales de hoy
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SalesTotalsResponse
// @Router       /api/sales/daily [get]
func (h *SaleHandler) Daily(c *fiber.Ctx) error {
	out, err := h.uc.Daily(c.UserContext(), GetShopID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Weekly godoc
// @Summary      Totales de los últimos 7 días con ticket medio
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WeeklySummaryResponse
// @Router       /api/sales/weekly [get]
func (h *SaleHandler) Weekly(c *fiber.Ctx) error {
	out, err := h.uc.Weekly(c.UserContext(), GetShopID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Corregir venta (solo campos presentes)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Param        id    path  int  true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "Campos a corregir"
// @Success      204
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.UpdateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Update(c.UserContext(), GetShopID(c), id, in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar venta
// @Tags         sales
// @Security     Bearer
// @Param        id   path  int  true  "ID de la venta"
// @Success      204
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.UserContext(), GetShopID(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
