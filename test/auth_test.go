package test

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInscription(t *testing.T) {
	app := CreateTestApp()

	resp, result := doJSON(t, app, "POST", "/api/utilisateurs/inscription", "", map[string]string{
		"nom":          "Dupont",
		"prenom":       "Jean",
		"email":        emailUnique("inscription"),
		"mot_de_passe": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	utilisateur, ok := result["utilisateur"].(map[string]interface{})
	require.True(t, ok, "expected utilisateur in response")
	assert.Equal(t, "Dupont", utilisateur["nom"])
	assert.Equal(t, "Jean", utilisateur["prenom"])
	assert.NotContains(t, utilisateur, "mot_de_passe", "password must never appear in a response")
	assert.NotContains(t, utilisateur, "password")
}

func TestInscriptionValidation(t *testing.T) {
	app := CreateTestApp()

	// Password below the 6-character minimum
	resp, _ := doJSON(t, app, "POST", "/api/utilisateurs/inscription", "", map[string]string{
		"nom":          "Dupont",
		"prenom":       "Jean",
		"email":        emailUnique("courtmdp"),
		"mot_de_passe": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed email
	resp, _ = doJSON(t, app, "POST", "/api/utilisateurs/inscription", "", map[string]string{
		"nom":          "Dupont",
		"prenom":       "Jean",
		"email":        "pas-un-email",
		"mot_de_passe": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInscriptionEmailDuplique(t *testing.T) {
	app := CreateTestApp()
	email := emailUnique("doublon")

	body := map[string]string{
		"nom":          "Dupont",
		"prenom":       "Jean",
		"email":        email,
		"mot_de_passe": "secret1",
	}
	resp, _ := doJSON(t, app, "POST", "/api/utilisateurs/inscription", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, result := doJSON(t, app, "POST", "/api/utilisateurs/inscription", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Cet email est déjà utilisé.", result["error"])
}

func TestConnexion(t *testing.T) {
	app := CreateTestApp()
	email := emailUnique("connexion")

	token, utilisateurID := inscrireEtConnecter(t, app, email, "secret1")
	assert.NotEmpty(t, token)
	assert.Positive(t, utilisateurID)
}

// Unknown email and wrong password must be indistinguishable.
func TestConnexionMessagesIdentiques(t *testing.T) {
	app := CreateTestApp()
	email := emailUnique("identiques")
	inscrireEtConnecter(t, app, email, "secret1")

	respInconnu, resultInconnu := doJSON(t, app, "POST", "/api/utilisateurs/connexion", "", map[string]string{
		"email":        emailUnique("inconnu"),
		"mot_de_passe": "secret1",
	})
	respMauvais, resultMauvais := doJSON(t, app, "POST", "/api/utilisateurs/connexion", "", map[string]string{
		"email":        email,
		"mot_de_passe": "mauvais-mot-de-passe",
	})

	assert.Equal(t, http.StatusUnauthorized, respInconnu.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, respMauvais.StatusCode)
	assert.Equal(t, resultInconnu["error"], resultMauvais["error"])
}

func TestRoutesProtegees(t *testing.T) {
	app := CreateTestApp()

	// No token
	resp, _ := doJSON(t, app, "GET", "/api/projets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Garbage token
	resp, _ = doJSON(t, app, "GET", "/api/projets", "nimporte-quoi", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Expired token, signed with the right secret
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"utilisateur_id": 1,
		"email":          "jean@exemple.fr",
		"nom":            "Dupont",
		"exp":            time.Now().Add(-time.Minute).Unix(),
	})
	tokenString, err := expired.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	resp, result := doJSON(t, app, "GET", "/api/projets", tokenString, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Accès interdit : Token expiré.", result["error"])
}
