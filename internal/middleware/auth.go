package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"gestion-projets/internal/auth"
	"gestion-projets/pkg/logger"
)

// LocalUtilisateurID is the locals key under which RequireToken stores
// the authenticated user's id.
const LocalUtilisateurID = "utilisateurID"

// RequireToken authenticates the Authorization header. A missing or
// unparseable header is 401; an expired or invalid token is 403, with
// distinct messages so clients know whether to re-authenticate.
func RequireToken(tokens *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Accès non autorisé : Token manquant.",
			})
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Accès non autorisé : Format de token invalide.",
			})
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Accès interdit : Token expiré.",
				})
			}
			logger.SecurityLogger.Warn("Invalid token presented",
				zap.String("url", c.OriginalURL()),
			)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Accès interdit : Token invalide.",
			})
		}

		c.Locals(LocalUtilisateurID, claims.UtilisateurID)
		return c.Next()
	}
}
