package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"gestion-projets/internal/auth"
	"gestion-projets/internal/models"
	"gestion-projets/internal/repository"
	"gestion-projets/pkg/logger"
)

func (h *Handler) Inscription(c *fiber.Ctx) error {
	type InscriptionRequest struct {
		Nom        string `json:"nom" validate:"required,min=2"`
		Prenom     string `json:"prenom" validate:"required,min=2"`
		Email      string `json:"email" validate:"required,email"`
		MotDePasse string `json:"mot_de_passe" validate:"required,min=6"`
	}

	var req InscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in inscription", zap.Error(err))
		return requeteInvalide(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during inscription", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Données invalides.",
			"details": err.Error(),
		})
	}

	motDePasseHash, err := auth.HashPassword(req.MotDePasse)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return erreurInterne(c)
	}

	utilisateur := models.Utilisateur{
		Nom:    req.Nom,
		Prenom: req.Prenom,
		Email:  req.Email,
	}
	if err := h.Store.CreateUtilisateur(c.Context(), &utilisateur, motDePasseHash); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			logger.SecurityLogger.Warn("Duplicate email on inscription", zap.String("email", req.Email))
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Cet email est déjà utilisé.",
			})
		}
		logger.ErrorLogger.Error("Error creating utilisateur", zap.Error(err))
		return erreurInterne(c)
	}

	logger.AuditLogger.Info("Utilisateur registered", zap.Int("utilisateur_id", utilisateur.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Utilisateur créé avec succès !",
		"utilisateur": utilisateur,
	})
}

func (h *Handler) Connexion(c *fiber.Ctx) error {
	type ConnexionRequest struct {
		Email      string `json:"email" validate:"required,email"`
		MotDePasse string `json:"mot_de_passe" validate:"required"`
	}

	var req ConnexionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in connexion", zap.Error(err))
		return requeteInvalide(c)
	}
	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during connexion", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Données invalides.",
			"details": err.Error(),
		})
	}

	// Absent email and wrong password share one message so the response
	// never reveals whether an account exists.
	utilisateur, hash, err := h.Store.FindUtilisateurByEmail(c.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.ErrorLogger.Error("Error fetching utilisateur", zap.Error(err))
			return erreurInterne(c)
		}
		logger.SecurityLogger.Warn("Login with unknown email", zap.String("email", req.Email))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Email ou mot de passe incorrect.",
		})
	}
	if !auth.CheckPassword(req.MotDePasse, hash) {
		logger.SecurityLogger.Warn("Login with wrong password", zap.Int("utilisateur_id", utilisateur.ID))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Email ou mot de passe incorrect.",
		})
	}

	token, err := h.Tokens.Issue(utilisateur.ID, utilisateur.Email, utilisateur.Nom)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return erreurInterne(c)
	}

	logger.AuditLogger.Info("Connexion réussie", zap.Int("utilisateur_id", utilisateur.ID))
	return c.JSON(fiber.Map{
		"message":     "Connexion réussie !",
		"token":       token,
		"utilisateur": utilisateur,
	})
}
