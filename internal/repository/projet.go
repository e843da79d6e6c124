package repository

import (
	"context"
	"fmt"
	"strings"

	"gestion-projets/internal/models"
)

// ProjetUpdate is a partial field set; nil fields are left untouched.
type ProjetUpdate struct {
	NomProjet   *string
	Description *string
}

func (s *Store) CreateProjet(ctx context.Context, p *models.Projet) error {
	return s.db.QueryRowContext(ctx,
		"INSERT INTO projets (nom_projet, description, utilisateur_id) VALUES ($1, $2, $3) RETURNING id, date_creation",
		p.NomProjet, p.Description, p.UtilisateurID,
	).Scan(&p.ID, &p.DateCreation)
}

func (s *Store) ListProjetsForUtilisateur(ctx context.Context, utilisateurID int) ([]models.Projet, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nom_projet, description, utilisateur_id, date_creation FROM projets WHERE utilisateur_id = $1 ORDER BY date_creation DESC",
		utilisateurID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projets := []models.Projet{}
	for rows.Next() {
		var p models.Projet
		if err := rows.Scan(&p.ID, &p.NomProjet, &p.Description, &p.UtilisateurID, &p.DateCreation); err != nil {
			return nil, err
		}
		projets = append(projets, p)
	}
	return projets, rows.Err()
}

func (s *Store) GetProjet(ctx context.Context, projetID int) (*models.Projet, error) {
	var p models.Projet
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nom_projet, description, utilisateur_id, date_creation FROM projets WHERE id = $1",
		projetID,
	).Scan(&p.ID, &p.NomProjet, &p.Description, &p.UtilisateurID, &p.DateCreation)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProjet applies a partial update scoped to the owner and returns
// the number of rows written. Zero rows after a positive ownership check
// means the project was deleted concurrently.
func (s *Store) UpdateProjet(ctx context.Context, projetID, utilisateurID int, upd ProjetUpdate) (int64, error) {
	fields := []string{}
	values := []interface{}{}
	if upd.NomProjet != nil {
		values = append(values, *upd.NomProjet)
		fields = append(fields, fmt.Sprintf("nom_projet = $%d", len(values)))
	}
	if upd.Description != nil {
		values = append(values, *upd.Description)
		fields = append(fields, fmt.Sprintf("description = $%d", len(values)))
	}
	if len(fields) == 0 {
		return 0, ErrNoFields
	}

	values = append(values, projetID, utilisateurID)
	query := fmt.Sprintf(
		"UPDATE projets SET %s WHERE id = $%d AND utilisateur_id = $%d",
		strings.Join(fields, ", "), len(values)-1, len(values),
	)
	res, err := s.db.ExecContext(ctx, query, values...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteProjet removes an owned project; the cascade on taches is
// enforced by the schema.
func (s *Store) DeleteProjet(ctx context.Context, projetID, utilisateurID int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM projets WHERE id = $1 AND utilisateur_id = $2",
		projetID, utilisateurID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
