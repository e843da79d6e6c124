package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"gestion-projets/pkg/logger"
)

// ErrorHandler logs every incoming request and converts panics into a
// plain 500; internals go to the error log only, never to the caller.
func ErrorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorLogger.Error(fmt.Sprintf("Recovered from panic: %v", r),
					zap.String("stack", string(debug.Stack())),
				)
				c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Erreur interne du serveur.",
				})
			}
		}()
		logger.RequestLogger.Info("Incoming request",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
		)
		return c.Next()
	}
}
