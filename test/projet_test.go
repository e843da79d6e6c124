package test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEtGetProjet(t *testing.T) {
	app := CreateTestApp()
	token, utilisateurID := inscrireEtConnecter(t, app, emailUnique("projet"), "secret1")

	projetID := creerProjet(t, app, token, "Site web")

	resp, result := doJSON(t, app, "GET", fmt.Sprintf("/api/projets/%d", projetID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	projet := result["projet"].(map[string]interface{})
	assert.Equal(t, "Site web", projet["nom_projet"])
	assert.Equal(t, float64(utilisateurID), projet["utilisateur_id"])
}

func TestListProjetsScope(t *testing.T) {
	app := CreateTestApp()
	tokenA, _ := inscrireEtConnecter(t, app, emailUnique("listea"), "secret1")
	tokenB, _ := inscrireEtConnecter(t, app, emailUnique("listeb"), "secret1")

	projetA := creerProjet(t, app, tokenA, "Projet de A")

	resp, result := doJSON(t, app, "GET", "/api/projets", tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	projets := result["projets"].([]interface{})
	for _, raw := range projets {
		p := raw.(map[string]interface{})
		assert.NotEqual(t, float64(projetA), p["id"], "B's list must never contain A's project")
	}
}

// Another user's project reads as non-existent, never as its body.
func TestGetProjetAutreUtilisateur(t *testing.T) {
	app := CreateTestApp()
	tokenA, _ := inscrireEtConnecter(t, app, emailUnique("proprio"), "secret1")
	tokenB, _ := inscrireEtConnecter(t, app, emailUnique("intrus"), "secret1")

	projetID := creerProjet(t, app, tokenA, "Projet privé")

	resp, result := doJSON(t, app, "GET", fmt.Sprintf("/api/projets/%d", projetID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, result, "projet")

	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/projets/%d", projetID), tokenB, map[string]string{
		"nom_projet": "Détourné",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/projets/%d", projetID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Still intact for its owner
	resp, result = doJSON(t, app, "GET", fmt.Sprintf("/api/projets/%d", projetID), tokenA, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Projet privé", result["projet"].(map[string]interface{})["nom_projet"])
}

func TestUpdateProjetPartiel(t *testing.T) {
	app := CreateTestApp()
	token, _ := inscrireEtConnecter(t, app, emailUnique("maj"), "secret1")
	projetID := creerProjet(t, app, token, "Avant")

	// Only nom_projet supplied; description must survive
	resp, result := doJSON(t, app, "PUT", fmt.Sprintf("/api/projets/%d", projetID), token, map[string]string{
		"nom_projet": "Après",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), result["changes"])

	resp, result = doJSON(t, app, "GET", fmt.Sprintf("/api/projets/%d", projetID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	projet := result["projet"].(map[string]interface{})
	assert.Equal(t, "Après", projet["nom_projet"])
	assert.Equal(t, "v1", projet["description"])
}

func TestUpdateProjetSansChamps(t *testing.T) {
	app := CreateTestApp()
	token, _ := inscrireEtConnecter(t, app, emailUnique("vide"), "secret1")
	projetID := creerProjet(t, app, token, "Inchangé")

	resp, result := doJSON(t, app, "PUT", fmt.Sprintf("/api/projets/%d", projetID), token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Aucun champ à mettre à jour.", result["error"])
}

func TestProjetNomTropCourt(t *testing.T) {
	app := CreateTestApp()
	token, _ := inscrireEtConnecter(t, app, emailUnique("court"), "secret1")

	resp, _ := doJSON(t, app, "POST", "/api/projets", token, map[string]string{
		"nom_projet": "ab",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProjetIDInvalide(t *testing.T) {
	app := CreateTestApp()
	token, _ := inscrireEtConnecter(t, app, emailUnique("idinvalide"), "secret1")

	resp, _ := doJSON(t, app, "GET", "/api/projets/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteProjetCascade(t *testing.T) {
	app := CreateTestApp()
	token, _ := inscrireEtConnecter(t, app, emailUnique("cascade"), "secret1")
	projetID := creerProjet(t, app, token, "À supprimer")

	resp, result := doJSON(t, app, "POST", fmt.Sprintf("/api/projets/%d/taches", projetID), token, map[string]string{
		"nom_tache": "Orpheline potentielle",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tacheID := int(result["tache"].(map[string]interface{})["id"].(float64))

	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/projets/%d", projetID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The project is gone
	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/projets/%d", projetID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Its task went with it
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/taches/%d", tacheID), token, map[string]string{
		"statut": "terminé",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// No orphan row survived in the store
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM taches WHERE projet_id = $1", projetID).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}
