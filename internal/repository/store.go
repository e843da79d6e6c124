// Package repository is the persistence gateway: parameterized CRUD over
// utilisateurs, projets and taches. Writes on owned entities carry the
// ownership predicate in their WHERE clause and report rows affected, so
// a check-then-act race against a concurrent delete resolves to zero
// rows, never to a write on someone else's data.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"gestion-projets/internal/models"
)

var (
	// ErrEmailTaken maps the unique-constraint violation on
	// utilisateurs.email.
	ErrEmailTaken = errors.New("email déjà utilisé")
	// ErrNoFields is returned by partial updates when the request
	// supplied nothing to change; the store is never touched.
	ErrNoFields = errors.New("aucun champ à mettre à jour")
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateUtilisateur inserts a new user and fills in the generated id and
// creation timestamp. The password hash never leaves this layer again.
func (s *Store) CreateUtilisateur(ctx context.Context, u *models.Utilisateur, motDePasseHash string) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO utilisateurs (nom, prenom, email, mot_de_passe) VALUES ($1, $2, $3, $4) RETURNING id, date_creation",
		u.Nom, u.Prenom, u.Email, motDePasseHash,
	).Scan(&u.ID, &u.DateCreation)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindUtilisateurByEmail returns the user and their password hash, or
// sql.ErrNoRows.
func (s *Store) FindUtilisateurByEmail(ctx context.Context, email string) (*models.Utilisateur, string, error) {
	var u models.Utilisateur
	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nom, prenom, email, mot_de_passe, date_creation FROM utilisateurs WHERE email = $1",
		email,
	).Scan(&u.ID, &u.Nom, &u.Prenom, &u.Email, &hash, &u.DateCreation)
	if err != nil {
		return nil, "", err
	}
	return &u, hash, nil
}

// ProjetOwner implements authz.OwnershipStore.
func (s *Store) ProjetOwner(ctx context.Context, projetID int) (int, error) {
	var owner int
	err := s.db.QueryRowContext(ctx,
		"SELECT utilisateur_id FROM projets WHERE id = $1", projetID,
	).Scan(&owner)
	return owner, err
}

// TacheOwner implements authz.OwnershipStore. A single joined query
// resolves the owner through the parent project; two round trips could
// race against a concurrent delete.
func (s *Store) TacheOwner(ctx context.Context, tacheID int) (int, int, error) {
	var owner, projetID int
	err := s.db.QueryRowContext(ctx,
		`SELECT p.utilisateur_id, p.id
		 FROM taches t
		 JOIN projets p ON p.id = t.projet_id
		 WHERE t.id = $1`, tacheID,
	).Scan(&owner, &projetID)
	return owner, projetID, err
}
