package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the optional server settings. Required secrets are loaded
// by the packages that use them.
type Config struct {
	ListenAddr     string
	AllowedOrigins []string
	SessionTTL     time.Duration
	CookieSecure   bool
	RateLimit      int
	// TrustProxy makes the rate limiter key clients by X-Forwarded-For.
	TrustProxy bool
}

func Load() Config {
	return Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8000"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8000"}),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_HOURS", 30*24)) * time.Hour,
		CookieSecure:   getEnvBool("COOKIE_SECURE", true),
		RateLimit:      getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		TrustProxy:     getEnvBool("TRUST_PROXY_HEADERS", false),
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}

	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	var values []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
