// Package handlers translates validated HTTP input into store calls
// guarded by the ownership authorizer. Absent and not-owned entities get
// the same 404 response on every route, so existence never leaks; the
// distinction survives in the security log.
package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"

	"gestion-projets/internal/auth"
	"gestion-projets/internal/authz"
	"gestion-projets/internal/middleware"
	"gestion-projets/internal/repository"
	ws "gestion-projets/internal/websocket"
)

type Handler struct {
	Store    *repository.Store
	Authz    *authz.Authorizer
	Tokens   *auth.TokenIssuer
	Validate *validator.Validate
	Cache    *redis.Client // optional; nil disables caching
	Hub      *ws.Hub       // optional; nil disables the activity feed
}

func New(store *repository.Store, az *authz.Authorizer, tokens *auth.TokenIssuer) *Handler {
	return &Handler{
		Store:    store,
		Authz:    az,
		Tokens:   tokens,
		Validate: validator.New(),
	}
}

func (h *Handler) Accueil(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Bienvenue sur l'API de la Plateforme de Gestion de Projets !",
	})
}

func utilisateurCourant(c *fiber.Ctx) int {
	return c.Locals(middleware.LocalUtilisateurID).(int)
}

func erreurInterne(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Erreur interne du serveur.",
	})
}

func requeteInvalide(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Requête invalide.",
	})
}
