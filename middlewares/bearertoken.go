package middlewares

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"strings"
)

// LoadBearerTokenConfig retrieves the admin bearer token from the environment.
func LoadBearerTokenConfig() (string, error) {
	bearerToken := os.Getenv("BEARER_TOKEN")
	if bearerToken == "" {
		return "", errors.New("bearer token environment variable (BEARER_TOKEN) is not set")
	}
	return bearerToken, nil
}

// ValidateBearerToken guards operator endpoints with a static bearer token.
func ValidateBearerToken(expectedBearerToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				RespondError(w, "Authorization header is missing", http.StatusUnauthorized)
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				RespondError(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			if expectedBearerToken == "" ||
				subtle.ConstantTimeCompare([]byte(token), []byte(expectedBearerToken)) != 1 {
				RespondError(w, "Invalid Bearer Token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
