package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateState returns a URL-safe random string for the OAuth state parameter
func GenerateState() (string, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
