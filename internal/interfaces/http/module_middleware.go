package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/domain/access"
)

// RequireModule corta la petición si el módulo está deshabilitado. Debe usarse DESPUÉS de
// AuthMiddleware. ADMIN y GERENTE pasan siempre, igual que en access.Policy.
//
// Comportamiento:
//   - 403 MODULE_DISABLED → módulo deshabilitado por administración.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireModule(module string, checker access.ModuleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if checker == nil || ActorFrom(c).Privileged() {
			return c.Next()
		}
		enabled, err := checker.IsModuleEnabled(c.Context(), module)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_CHECK_FAILED",
				Message: "no se pudo verificar el módulo, intente más tarde",
			})
		}
		if !enabled {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "el módulo '" + module + "' está deshabilitado",
			})
		}
		return c.Next()
	}
}
