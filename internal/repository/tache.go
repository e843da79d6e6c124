package repository

import (
	"context"
	"fmt"
	"strings"

	"gestion-projets/internal/models"
)

// TacheUpdate is a partial field set; nil fields are left untouched.
type TacheUpdate struct {
	NomTache    *string
	Description *string
	Statut      *string
}

func (s *Store) CreateTache(ctx context.Context, t *models.Tache) error {
	return s.db.QueryRowContext(ctx,
		"INSERT INTO taches (nom_tache, description, statut, projet_id) VALUES ($1, $2, $3, $4) RETURNING id, date_creation",
		t.NomTache, t.Description, t.Statut, t.ProjetID,
	).Scan(&t.ID, &t.DateCreation)
}

func (s *Store) ListTachesForProjet(ctx context.Context, projetID int) ([]models.Tache, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nom_tache, description, statut, projet_id, date_creation FROM taches WHERE projet_id = $1 ORDER BY date_creation ASC",
		projetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taches := []models.Tache{}
	for rows.Next() {
		var t models.Tache
		if err := rows.Scan(&t.ID, &t.NomTache, &t.Description, &t.Statut, &t.ProjetID, &t.DateCreation); err != nil {
			return nil, err
		}
		taches = append(taches, t)
	}
	return taches, rows.Err()
}

func (s *Store) GetTache(ctx context.Context, tacheID int) (*models.Tache, error) {
	var t models.Tache
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nom_tache, description, statut, projet_id, date_creation FROM taches WHERE id = $1",
		tacheID,
	).Scan(&t.ID, &t.NomTache, &t.Description, &t.Statut, &t.ProjetID, &t.DateCreation)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTache applies a partial update. The WHERE clause checks both the
// task id and the ownership of the parent project, so the write itself
// is the authoritative ownership check. Returns sql.ErrNoRows when
// nothing matched.
func (s *Store) UpdateTache(ctx context.Context, tacheID, utilisateurID int, upd TacheUpdate) (*models.Tache, error) {
	fields := []string{}
	values := []interface{}{}
	if upd.NomTache != nil {
		values = append(values, *upd.NomTache)
		fields = append(fields, fmt.Sprintf("nom_tache = $%d", len(values)))
	}
	if upd.Description != nil {
		values = append(values, *upd.Description)
		fields = append(fields, fmt.Sprintf("description = $%d", len(values)))
	}
	if upd.Statut != nil {
		values = append(values, *upd.Statut)
		fields = append(fields, fmt.Sprintf("statut = $%d", len(values)))
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	values = append(values, tacheID, utilisateurID)
	query := fmt.Sprintf(
		`UPDATE taches SET %s
		 WHERE id = $%d AND projet_id IN (SELECT id FROM projets WHERE utilisateur_id = $%d)
		 RETURNING id, nom_tache, description, statut, projet_id, date_creation`,
		strings.Join(fields, ", "), len(values)-1, len(values),
	)
	var t models.Tache
	err := s.db.QueryRowContext(ctx, query, values...).Scan(
		&t.ID, &t.NomTache, &t.Description, &t.Statut, &t.ProjetID, &t.DateCreation)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTache removes a task only when the caller owns its parent
// project, and reports the rows removed.
func (s *Store) DeleteTache(ctx context.Context, tacheID, utilisateurID int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM taches
		 WHERE id = $1 AND projet_id IN (SELECT id FROM projets WHERE utilisateur_id = $2)`,
		tacheID, utilisateurID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
