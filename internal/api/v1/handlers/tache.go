package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"gestion-projets/internal/authz"
	"gestion-projets/internal/models"
	"gestion-projets/internal/repository"
	ws "gestion-projets/internal/websocket"
	"gestion-projets/pkg/logger"
)

func tacheIntrouvable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Tâche non trouvée ou accès non autorisé.",
	})
}

func statutInvalide(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Statut invalide : doit être 'à faire', 'en cours' ou 'terminé'.",
	})
}

func (h *Handler) ListTaches(c *fiber.Ctx) error {
	utilisateurID := utilisateurCourant(c)
	projetID, err := c.ParamsInt("projetId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant de projet invalide."})
	}

	ok, resp := h.verifierProjet(c, utilisateurID, projetID)
	if !ok {
		return resp
	}

	taches, err := h.Store.ListTachesForProjet(c.Context(), projetID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching taches", zap.Error(err))
		return erreurInterne(c)
	}
	return c.JSON(fiber.Map{"taches": taches})
}

func (h *Handler) CreateTache(c *fiber.Ctx) error {
	utilisateurID := utilisateurCourant(c)
	projetID, err := c.ParamsInt("projetId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant de projet invalide."})
	}

	type TacheRequest struct {
		NomTache    string  `json:"nom_tache" validate:"required,min=3"`
		Description *string `json:"description"`
		Statut      string  `json:"statut"`
	}
	var req TacheRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create tache", zap.Error(err))
		return requeteInvalide(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in create tache", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Le nom de la tâche doit faire au moins 3 caractères.",
		})
	}
	if req.Statut == "" {
		req.Statut = models.StatutAFaire
	}
	if !models.StatutValide(req.Statut) {
		return statutInvalide(c)
	}

	decision, err := h.Authz.CheckCreationTache(c.Context(), utilisateurID, projetID)
	if err != nil {
		logger.ErrorLogger.Error("Error checking projet ownership", zap.Error(err))
		return erreurInterne(c)
	}
	if decision != authz.Allowed {
		if decision == authz.Forbidden {
			logger.SecurityLogger.Warn("Tache creation denied",
				zap.Int("utilisateur_id", utilisateurID),
				zap.Int("projet_id", projetID),
			)
		}
		return projetIntrouvable(c)
	}

	tache := models.Tache{
		NomTache:    req.NomTache,
		Description: req.Description,
		Statut:      req.Statut,
		ProjetID:    projetID,
	}
	if err := h.Store.CreateTache(c.Context(), &tache); err != nil {
		logger.ErrorLogger.Error("Error creating tache", zap.Error(err))
		return erreurInterne(c)
	}

	h.Hub.Publish(ws.Event{Type: ws.EventTacheCreee, ProjetID: projetID, TacheID: tache.ID, UtilisateurID: utilisateurID})
	logger.AuditLogger.Info("Tache created",
		zap.Int("tache_id", tache.ID),
		zap.Int("projet_id", projetID),
	)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Tâche créée avec succès !",
		"tache":   tache,
	})
}

func (h *Handler) UpdateTache(c *fiber.Ctx) error {
	utilisateurID := utilisateurCourant(c)
	tacheID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant de tâche invalide."})
	}

	type UpdateTacheRequest struct {
		NomTache    *string `json:"nom_tache"`
		Description *string `json:"description"`
		Statut      *string `json:"statut"`
	}
	var req UpdateTacheRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update tache", zap.Error(err))
		return requeteInvalide(c)
	}
	if req.NomTache == nil && req.Description == nil && req.Statut == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Aucun champ à mettre à jour."})
	}
	if req.NomTache != nil && len([]rune(*req.NomTache)) < 3 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Le nom de la tâche doit faire au moins 3 caractères.",
		})
	}
	if req.Statut != nil && !models.StatutValide(*req.Statut) {
		return statutInvalide(c)
	}

	decision, projetID, err := h.Authz.CheckTache(c.Context(), utilisateurID, tacheID)
	if err != nil {
		logger.ErrorLogger.Error("Error checking tache ownership", zap.Error(err))
		return erreurInterne(c)
	}
	if decision != authz.Allowed {
		if decision == authz.Forbidden {
			logger.SecurityLogger.Warn("Tache update denied",
				zap.Int("utilisateur_id", utilisateurID),
				zap.Int("tache_id", tacheID),
			)
		}
		return tacheIntrouvable(c)
	}

	// The update re-checks ownership in its own WHERE clause; no rows
	// back means the task vanished since the check.
	tache, err := h.Store.UpdateTache(c.Context(), tacheID, utilisateurID, repository.TacheUpdate{
		NomTache:    req.NomTache,
		Description: req.Description,
		Statut:      req.Statut,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tacheIntrouvable(c)
		}
		logger.ErrorLogger.Error("Error updating tache", zap.Error(err))
		return erreurInterne(c)
	}

	h.Hub.Publish(ws.Event{Type: ws.EventTacheModifiee, ProjetID: projetID, TacheID: tacheID, UtilisateurID: utilisateurID})
	logger.AuditLogger.Info("Tache updated", zap.Int("tache_id", tacheID))
	return c.JSON(fiber.Map{
		"message": "Tâche mise à jour.",
		"tache":   tache,
	})
}

func (h *Handler) DeleteTache(c *fiber.Ctx) error {
	utilisateurID := utilisateurCourant(c)
	tacheID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant de tâche invalide."})
	}

	decision, projetID, err := h.Authz.CheckTache(c.Context(), utilisateurID, tacheID)
	if err != nil {
		logger.ErrorLogger.Error("Error checking tache ownership", zap.Error(err))
		return erreurInterne(c)
	}
	if decision != authz.Allowed {
		if decision == authz.Forbidden {
			logger.SecurityLogger.Warn("Tache delete denied",
				zap.Int("utilisateur_id", utilisateurID),
				zap.Int("tache_id", tacheID),
			)
		}
		return tacheIntrouvable(c)
	}

	changes, err := h.Store.DeleteTache(c.Context(), tacheID, utilisateurID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting tache", zap.Error(err))
		return erreurInterne(c)
	}
	if changes == 0 {
		return tacheIntrouvable(c)
	}

	h.Hub.Publish(ws.Event{Type: ws.EventTacheSupprimee, ProjetID: projetID, TacheID: tacheID, UtilisateurID: utilisateurID})
	logger.AuditLogger.Info("Tache deleted", zap.Int("tache_id", tacheID))
	return c.JSON(fiber.Map{"message": "Tâche supprimée avec succès."})
}
