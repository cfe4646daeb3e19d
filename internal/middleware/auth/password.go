package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// Hashpassword creates a bcrypt hash from the given plaintext password.
func Hashpassword(password string) (string, error) {
	// default cost is enough here, bump it if login latency allows
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassword checks if the provided plaintext password matches the stored bcrypt hash.
func VerifyPassword(hashedPassword, providedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword))
}
