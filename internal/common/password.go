package common

import (
	"golang.org/x/crypto/bcrypt"
)

// UnusablePassword marks accounts whose credentials live in the remote
// identity provider. The marker can never match a bcrypt hash.
const UnusablePassword = "!"

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func CheckPassword(password, hashedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// HasUsablePassword reports whether the stored hash can be checked locally
func HasUsablePassword(hashedPassword string) bool {
	return hashedPassword != "" && hashedPassword != UnusablePassword
}
