package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Multitienda-api/internal/application/auth"
	"github.com/jhoicas/Multitienda-api/internal/application/dto"
	"github.com/jhoicas/Multitienda-api/pkg/logger"
)

// AdminHandler endpoints solo para rol admin.
type AdminHandler struct {
	uc  *auth.AuthUseCase
	log *logger.Logger
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *auth.AuthUseCase, log *logger.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, log: log}
}

// ListUsers godoc
// @Summary      Listar usuarios
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.UserListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultPageLimit), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListUsers(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
