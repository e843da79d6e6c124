package models

import "time"

// Statuts possibles d'une tâche.
const (
	StatutAFaire  = "à faire"
	StatutEnCours = "en cours"
	StatutTermine = "terminé"
)

// StatutValide reports whether s is one of the allowed task statuses.
func StatutValide(s string) bool {
	switch s {
	case StatutAFaire, StatutEnCours, StatutTermine:
		return true
	default:
		return false
	}
}

// Utilisateur never carries the password hash; the hash stays inside the
// repository layer so it cannot leak into a JSON response.
type Utilisateur struct {
	ID           int       `json:"id"`
	Nom          string    `json:"nom"`
	Prenom       string    `json:"prenom"`
	Email        string    `json:"email"`
	DateCreation time.Time `json:"date_creation"`
}

type Projet struct {
	ID            int       `json:"id"`
	NomProjet     string    `json:"nom_projet"`
	Description   *string   `json:"description"`
	UtilisateurID int       `json:"utilisateur_id"`
	DateCreation  time.Time `json:"date_creation"`
}

// Tache has no owner field of its own; ownership is always derived from
// the parent project.
type Tache struct {
	ID           int       `json:"id"`
	NomTache     string    `json:"nom_tache"`
	Description  *string   `json:"description"`
	Statut       string    `json:"statut"`
	ProjetID     int       `json:"projet_id"`
	DateCreation time.Time `json:"date_creation"`
}
