package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// APIKeyScheme prefixes every issued API key.
const APIKeyScheme = "ph"

var ErrMalformedAPIKey = errors.New("malformed api key")

// Generate Random String (hex encoded, length bytes of entropy)
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateAPIKey returns a new key of the form ph_<prefix>_<secret>, its lookup
// prefix and the bcrypt hash to store. The full key is shown to the user once.
func GenerateAPIKey() (key, prefix, hash string, err error) {
	id, err := GenerateRandomToken(4)
	if err != nil {
		return "", "", "", err
	}
	secret, err := GenerateRandomToken(24)
	if err != nil {
		return "", "", "", err
	}

	prefix = APIKeyScheme + "_" + id
	key = prefix + "_" + secret
	hash, err = HashPassword(key)
	if err != nil {
		return "", "", "", err
	}
	return key, prefix, hash, nil
}

// SplitAPIKey extracts the lookup prefix from a presented key.
func SplitAPIKey(key string) (string, error) {
	parts := strings.Split(key, "_")
	if len(parts) != 3 || parts[0] != APIKeyScheme || parts[1] == "" || parts[2] == "" {
		return "", ErrMalformedAPIKey
	}
	return parts[0] + "_" + parts[1], nil
}
