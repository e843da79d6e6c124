package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrTokenExpired means the caller should re-authenticate.
	ErrTokenExpired = errors.New("token expiré")
	// ErrTokenInvalid covers malformed tokens, wrong algorithms and bad
	// signatures, which may indicate tampering.
	ErrTokenInvalid = errors.New("token invalide")
)

// Claims is the identity carried by a bearer token.
type Claims struct {
	UtilisateurID int
	Email         string
	Nom           string
}

// TokenIssuer signs and verifies HS256 bearer tokens. It is constructed
// once at startup and injected wherever tokens are needed.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (ti *TokenIssuer) Issue(utilisateurID int, email, nom string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"utilisateur_id": utilisateurID,
		"email":          email,
		"nom":            nom,
		"exp":            time.Now().Add(ti.ttl).Unix(),
	})
	return token.SignedString(ti.secret)
}

// Verify returns the claims of a valid token, ErrTokenExpired for an
// expired one, and ErrTokenInvalid for everything else. Callers map the
// two failures to distinct responses.
func (ti *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	utilisateurID, ok := mapClaims["utilisateur_id"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}
	email, ok := mapClaims["email"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}
	nom, ok := mapClaims["nom"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return &Claims{
		UtilisateurID: int(utilisateurID),
		Email:         email,
		Nom:           nom,
	}, nil
}
