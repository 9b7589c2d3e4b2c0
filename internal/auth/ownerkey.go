package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// VerifyOwnerKey compares the presented owner API key against the configured
// bcrypt hash. An empty hash means no owner key is configured and every
// presentation fails closed.
func VerifyOwnerKey(presented, hash string) error {
	if hash == "" {
		return errors.New("owner key is not configured")
	}
	if presented == "" {
		return errors.New("owner key is required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(presented)); err != nil {
		return errors.New("invalid owner key")
	}
	return nil
}

// HashOwnerKey produces the bcrypt hash to store in configuration.
func HashOwnerKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
