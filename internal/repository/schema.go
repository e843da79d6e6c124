package repository

import "database/sql"

// CreateTables creates the schema if it does not exist. Cascade deletes
// on projets and taches are enforced here, at the storage layer.
func CreateTables(db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS utilisateurs (
    id SERIAL PRIMARY KEY,
    nom VARCHAR(255) NOT NULL,
    prenom VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL UNIQUE,
    mot_de_passe VARCHAR(255) NOT NULL,
    date_creation TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS projets (
    id SERIAL PRIMARY KEY,
    nom_projet VARCHAR(255) NOT NULL,
    description TEXT,
    utilisateur_id INT NOT NULL REFERENCES utilisateurs (id) ON DELETE CASCADE,
    date_creation TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS taches (
    id SERIAL PRIMARY KEY,
    nom_tache VARCHAR(255) NOT NULL,
    description TEXT,
    statut VARCHAR(50) NOT NULL DEFAULT 'à faire',
    projet_id INT NOT NULL REFERENCES projets (id) ON DELETE CASCADE,
    date_creation TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := db.Exec(query)
	return err
}

// DropTables removes the schema; used by the test suite teardown.
func DropTables(db *sql.DB) error {
	query := `
DROP TABLE IF EXISTS taches;
DROP TABLE IF EXISTS projets;
DROP TABLE IF EXISTS utilisateurs;
`
	_, err := db.Exec(query)
	return err
}
