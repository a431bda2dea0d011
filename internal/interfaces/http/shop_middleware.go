package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Multitienda-api/internal/application/dto"
	"github.com/jhoicas/Multitienda-api/internal/domain"
	"github.com/jhoicas/Multitienda-api/internal/domain/entity"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

const localShop = "active_shop"

// activeShopResolver es el contrato mínimo que necesita el middleware para resolver la tienda.
// Lo implementa *shop.Registry.
type activeShopResolver interface {
	ActiveShop(ctx context.Context, ownerID string) (*entity.Shop, error)
}

// RequireActiveShop resuelve la tienda activa del usuario y la deja en c.Locals.
// Debe usarse DESPUÉS de AuthMiddleware. Los handlers reciben el shopID ya validado
// (existe y pertenece al usuario) y lo pasan explícito a los repositorios.
//
// Comportamiento:
//   - 409 NO_ACTIVE_SHOP → el usuario no tiene ninguna tienda.
//   - Otros errores se mapean con writeError.
func RequireActiveShop(resolver activeShopResolver, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		s, err := resolver.ActiveShop(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
					Code:    "NO_ACTIVE_SHOP",
					Message: "cree o seleccione una tienda primero",
				})
			}
			return writeError(c, log, err)
		}

		c.Locals(localShop, s)
		return c.Next()
	}
}

// GetShopID devuelve el id de la tienda activa (después de RequireActiveShop).
func GetShopID(c *fiber.Ctx) string {
	if s := getActiveShop(c); s != nil {
		return s.ID
	}
	return ""
}

func getActiveShop(c *fiber.Ctx) *entity.Shop {
	s, _ := c.Locals(localShop).(*entity.Shop)
	return s
}
