package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Multitienda-api/internal/application/dto"
	"github.com/jhoicas/Multitienda-api/internal/application/shop"
	"github.com/jhoicas/Multitienda-api/internal/application/usecase"
	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// ShopHandler maneja las tiendas del usuario y el cambio de tienda activa.
type ShopHandler struct {
	registry *shop.Registry
	log      *logger.Logger
}

// NewShopHandler construye el handler.
func NewShopHandler(registry *shop.Registry, log *logger.Logger) *ShopHandler {
	return &ShopHandler{registry: registry, log: log}
}

// List godoc
// @Summary      Listar tiendas del usuario (más recientes primero)
// @Tags         shops
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ShopListResponse
// @Router       /api/shops [get]
func (h *ShopHandler) List(c *fiber.Ctx) error {
	ctx, userID := c.UserContext(), GetUserID(c)
	shops, err := h.registry.ListShops(ctx, userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	activeID := ""
	if len(shops) > 0 {
		active, err := h.registry.ActiveShop(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return writeError(c, h.log, err)
		}
		if active != nil {
			activeID = active.ID
		}
	}
	return c.JSON(usecase.ToShopList(shops, activeID))
}

// Create godoc
// @Summary      Crear tienda (la primera queda activa)
// @Tags         shops
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShopRequest  true  "Nombre de la tienda"
// @Success      201   {object}  dto.ShopResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/shops [post]
func (h *ShopHandler) Create(c *fiber.Ctx) error {
	var in dto.ShopRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	userID := GetUserID(c)
	s, err := h.registry.CreateShop(c.UserContext(), in.Name, userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(usecase.ToShopResponse(*s, h.isActive(c, userID, s.ID)))
}

// Update godoc
// @Summary      Renombrar tienda
// @Tags         shops
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tienda"
// @Param        body  body  dto.ShopRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.ShopResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/shops/{id} [put]
func (h *ShopHandler) Update(c *fiber.Ctx) error {
	var in dto.ShopRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	userID := GetUserID(c)
	s, err := h.registry.UpdateShop(c.UserContext(), c.Params("id"), userID, in.Name)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(usecase.ToShopResponse(*s, h.isActive(c, userID, s.ID)))
}

// Delete godoc
// @Summary      Eliminar tienda (con sus productos y ventas)
// @Tags         shops
// @Security     Bearer
// @Param        id   path  string  true  "ID de la tienda"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "es la única tienda del usuario"
// @Router       /api/shops/{id} [delete]
func (h *ShopHandler) Delete(c *fiber.Ctx) error {
	if err := h.registry.DeleteShop(c.UserContext(), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activate godoc
// @Summary      Cambiar la tienda activa
// @Tags         shops
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.ShopResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shops/{id}/activate [post]
func (h *ShopHandler) Activate(c *fiber.Ctx) error {
	s, err := h.registry.SwitchActive(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(usecase.ToShopResponse(*s, true))
}

// Active godoc
// @Summary      Tienda activa del usuario
// @Tags         shops
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ShopResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shops/active [get]
func (h *ShopHandler) Active(c *fiber.Ctx) error {
	return c.JSON(usecase.ToShopResponse(*getActiveShop(c), true))
}

// isActive indica si shopID es la tienda activa; un error al resolverla cuenta como no activa.
func (h *ShopHandler) isActive(c *fiber.Ctx, userID, shopID string) bool {
	active, err := h.registry.ActiveShop(c.UserContext(), userID)
	return err == nil && active.ID == shopID
}
