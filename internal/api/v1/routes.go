package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"gestion-projets/internal/api/v1/handlers"
	"gestion-projets/internal/middleware"
	myws "gestion-projets/internal/websocket"
)

func RegisterRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api")
	api.Get("/", h.Accueil)

	// Utilisateurs
	api.Post("/utilisateurs/inscription", h.Inscription)
	api.Post("/utilisateurs/connexion", h.Connexion)

	// Projets
	projets := api.Group("/projets", middleware.RequireToken(h.Tokens))
	projets.Get("/", h.ListProjets)
	projets.Post("/", h.CreateProjet)
	projets.Get("/:id", h.GetProjet)
	projets.Put("/:id", h.UpdateProjet)
	projets.Delete("/:id", h.DeleteProjet)

	// Tâches d'un projet
	projets.Get("/:projetId/taches", h.ListTaches)
	projets.Post("/:projetId/taches", h.CreateTache)

	// Tâches (ownership resolved through the parent project)
	taches := api.Group("/taches", middleware.RequireToken(h.Tokens))
	taches.Put("/:id", h.UpdateTache)
	taches.Delete("/:id", h.DeleteTache)
}

// RegisterWebsocket exposes the activity feed. The upgrade is refused
// without a valid token in the query string (browsers cannot set an
// Authorization header on a websocket handshake); the verified user id
// binds the connection so the hub only delivers that user's events.
func RegisterWebsocket(app *fiber.App, hub *myws.Hub, h *handlers.Handler) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		claims, err := h.Tokens.Verify(c.Query("token"))
		if err != nil {
			return fiber.ErrForbidden
		}
		c.Locals(middleware.LocalUtilisateurID, claims.UtilisateurID)
		return c.Next()
	})
	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		utilisateurID, ok := conn.Locals(middleware.LocalUtilisateurID).(int)
		if !ok {
			conn.Close()
			return
		}
		client := &myws.Client{Conn: conn, UtilisateurID: utilisateurID}
		hub.Register <- client
		defer func() {
			hub.Unregister <- client
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
