package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"gestion-projets/internal/authz"
	"gestion-projets/internal/models"
	"gestion-projets/internal/repository"
	ws "gestion-projets/internal/websocket"
	"gestion-projets/pkg/logger"
)

const cacheTTL = time.Hour

func projetIntrouvable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Projet non trouvé ou accès non autorisé.",
	})
}

// verifierProjet runs the ownership check and writes the 404 response
// itself on refusal; it returns true when the handler may proceed.
func (h *Handler) verifierProjet(c *fiber.Ctx, utilisateurID, projetID int) (bool, error) {
	decision, err := h.Authz.CheckProjet(c.Context(), utilisateurID, projetID)
	if err != nil {
		logger.ErrorLogger.Error("Error checking projet ownership", zap.Error(err))
		return false, erreurInterne(c)
	}
	switch decision {
	case authz.Forbidden:
		logger.SecurityLogger.Warn("Projet access denied",
			zap.Int("utilisateur_id", utilisateurID),
			zap.Int("projet_id", projetID),
		)
		return false, projetIntrouvable(c)
	case authz.NotFound:
		return false, projetIntrouvable(c)
	}
	return true, nil
}

func (h *Handler) ListProjets(c *fiber.Ctx) error {
	utilisateurID := utilisateurCourant(c)

	projets, err := h.Store.ListProjetsForUtilisateur(c.Context(), utilisateurID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching projets", zap.Error(err))
		return erreurInterne(c)
	}
	return c.JSON(fiber.Map{"projets": projets})
}

func (h *Handler) CreateProjet(c *fiber.Ctx) error {
	utilisateurID := utilisateurCourant(c)

	type ProjetRequest struct {
		NomProjet   string  `json:"nom_projet" validate:"required,min=3"`
		Description *string `json:"description"`
	}

	var req ProjetRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create projet", zap.Error(err))
		return requeteInvalide(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in create projet", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Le nom du projet doit faire au moins 3 caractères.",
		})
	}

	projet := models.Projet{
		NomProjet:     req.NomProjet,
		Description:   req.Description,
		UtilisateurID: utilisateurID,
	}
	if err := h.Store.CreateProjet(c.Context(), &projet); err != nil {
		logger.ErrorLogger.Error("Error creating projet", zap.Error(err))
		return erreurInterne(c)
	}

	h.Hub.Publish(ws.Event{Type: ws.EventProjetCree, ProjetID: projet.ID, UtilisateurID: utilisateurID})
	logger.AuditLogger.Info("Projet created",
		zap.Int("projet_id", projet.ID),
		zap.Int("utilisateur_id", utilisateurID),
	)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Projet créé avec succès !",
		"projet":  projet,
	})
}

func (h *Handler) GetProjet(c *fiber.Ctx) error {
	utilisateurID := utilisateurCourant(c)
	projetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant de projet invalide."})
	}

	ok, resp := h.verifierProjet(c, utilisateurID, projetID)
	if !ok {
		return resp
	}

	cacheKey := fmt.Sprintf("projet:%d", projetID)
	if h.Cache != nil {
		if cached, err := h.Cache.Get(c.Context(), cacheKey).Result(); err == nil {
			var projet models.Projet
			if err := json.Unmarshal([]byte(cached), &projet); err == nil {
				return c.JSON(fiber.Map{"projet": projet})
			}
		}
	}

	projet, err := h.Store.GetProjet(c.Context(), projetID)
	if err != nil {
		// Deleted between the check and the read; the absence is what
		// counts.
		if errors.Is(err, sql.ErrNoRows) {
			return projetIntrouvable(c)
		}
		logger.ErrorLogger.Error("Error fetching projet", zap.Error(err))
		return erreurInterne(c)
	}

	if h.Cache != nil {
		if projetJSON, err := json.Marshal(projet); err == nil {
			h.Cache.SetEX(c.Context(), cacheKey, projetJSON, cacheTTL)
		}
	}
	return c.JSON(fiber.Map{"projet": projet})
}

func (h *Handler) UpdateProjet(c *fiber.Ctx) error {
	utilisateurID := utilisateurCourant(c)
	projetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant de projet invalide."})
	}

	type UpdateProjetRequest struct {
		NomProjet   *string `json:"nom_projet"`
		Description *string `json:"description"`
	}
	var req UpdateProjetRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update projet", zap.Error(err))
		return requeteInvalide(c)
	}
	if req.NomProjet == nil && req.Description == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Aucun champ à mettre à jour."})
	}
	if req.NomProjet != nil && len([]rune(*req.NomProjet)) < 3 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Le nom du projet doit faire au moins 3 caractères.",
		})
	}

	ok, resp := h.verifierProjet(c, utilisateurID, projetID)
	if !ok {
		return resp
	}

	changes, err := h.Store.UpdateProjet(c.Context(), projetID, utilisateurID, repository.ProjetUpdate{
		NomProjet:   req.NomProjet,
		Description: req.Description,
	})
	if err != nil {
		logger.ErrorLogger.Error("Error updating projet", zap.Error(err))
		return erreurInterne(c)
	}
	// Zero rows after an allowed check: deleted concurrently.
	if changes == 0 {
		return projetIntrouvable(c)
	}

	h.invalidateProjet(c, projetID)
	h.Hub.Publish(ws.Event{Type: ws.EventProjetModifie, ProjetID: projetID, UtilisateurID: utilisateurID})
	logger.AuditLogger.Info("Projet updated", zap.Int("projet_id", projetID))
	return c.JSON(fiber.Map{
		"message": "Projet mis à jour avec succès.",
		"changes": changes,
	})
}

func (h *Handler) DeleteProjet(c *fiber.Ctx) error {
	utilisateurID := utilisateurCourant(c)
	projetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Identifiant de projet invalide."})
	}

	ok, resp := h.verifierProjet(c, utilisateurID, projetID)
	if !ok {
		return resp
	}

	changes, err := h.Store.DeleteProjet(c.Context(), projetID, utilisateurID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting projet", zap.Error(err))
		return erreurInterne(c)
	}
	if changes == 0 {
		return projetIntrouvable(c)
	}

	h.invalidateProjet(c, projetID)
	h.Hub.Publish(ws.Event{Type: ws.EventProjetSupprime, ProjetID: projetID, UtilisateurID: utilisateurID})
	logger.AuditLogger.Info("Projet deleted", zap.Int("projet_id", projetID))
	return c.JSON(fiber.Map{
		"message": "Projet supprimé avec succès.",
		"changes": changes,
	})
}

func (h *Handler) invalidateProjet(c *fiber.Ctx, projetID int) {
	if h.Cache != nil {
		h.Cache.Del(c.Context(), fmt.Sprintf("projet:%d", projetID))
	}
}
