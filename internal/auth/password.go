package auth

import "golang.org/x/crypto/bcrypt"

// BcryptCost matches the work factor the platform has always used.
const BcryptCost = 10

func HashPassword(motDePasse string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(motDePasse), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(motDePasse, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(motDePasse)) == nil
}
