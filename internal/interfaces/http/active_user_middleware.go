package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/wms-api/internal/application/dto"
)

// activeChecker es el contrato mínimo que necesita el middleware; lo implementa
// *usecase.UserUseCase.
type activeChecker interface {
	IsActive(ctx context.Context, userID string) (bool, error)
}

// RequireActiveUser rechaza tokens de usuarios eliminados o desactivados después del login.
// Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 si el usuario ya no existe o no hay user_id en el contexto.
//   - 403 si la cuenta está desactivada.
//   - 503 si falla la consulta.
func RequireActiveUser(checker activeChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no encontrado en el token"})
		}
		active, err := checker.IsActive(c.UserContext(), userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("no se pudo verificar el estado del usuario")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "USER_CHECK_FAILED",
				Message: "no se pudo verificar el usuario, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "USER_INACTIVE", Message: "cuenta inactiva o eliminada"})
		}
		return c.Next()
	}
}
