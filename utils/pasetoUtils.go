package utils

import (
	"errors"
	"os"
	"time"

	"github.com/o1egl/paseto"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrSecretNotSet   = errors.New("server configuration error: PASETO_SECRET is not set")
	ErrSecretTooShort = errors.New("secret key is too short")
	ErrTokenExpired   = errors.New("token has expired")
)

// SessionClaims represents the claims carried in a session token
type SessionClaims struct {
	SessionID string    `json:"sid"`
	Expiry    time.Time `json:"expiry"`
}

// GetPasetoSecret retrieves the PASETO secret from the environment variables
// and ensures it is the correct length.
func GetPasetoSecret() ([]byte, error) {
	pasetoSecret := os.Getenv("PASETO_SECRET")
	if pasetoSecret == "" {
		return nil, ErrSecretNotSet
	}
	return SymmetricKey(pasetoSecret)
}

// SymmetricKey turns a secret into a chacha20poly1305 key. Longer secrets
// are truncated to the key size.
func SymmetricKey(secret string) ([]byte, error) {
	symmetricKey := []byte(secret)
	if len(symmetricKey) < chacha20poly1305.KeySize {
		return nil, ErrSecretTooShort
	}
	if len(symmetricKey) > chacha20poly1305.KeySize {
		symmetricKey = symmetricKey[:chacha20poly1305.KeySize]
	}
	return symmetricKey, nil
}

// GeneratePASETO generates a v2.local token for a session with an expiration time
func GeneratePASETO(key []byte, sessionID string, expiration time.Duration) (string, error) {
	if len(key) != chacha20poly1305.KeySize {
		return "", ErrSecretTooShort
	}

	claims := SessionClaims{
		SessionID: sessionID,
		Expiry:    time.Now().Add(expiration),
	}

	v2 := paseto.NewV2()
	token, err := v2.Encrypt(key, claims, nil)
	if err != nil {
		return "", err
	}

	return token, nil
}

// ValidatePASETO validates a PASETO token and returns the claims
func ValidatePASETO(key []byte, tokenString string) (*SessionClaims, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrSecretTooShort
	}

	var claims SessionClaims
	v2 := paseto.NewV2()
	if err := v2.Decrypt(tokenString, key, &claims, nil); err != nil {
		return nil, err
	}

	if time.Now().After(claims.Expiry) {
		return nil, ErrTokenExpired
	}

	return &claims, nil
}
