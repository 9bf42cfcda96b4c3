package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port           string
	CafeAPIURL     string
	JWTSecret      string
	APITimeout     time.Duration
	SessionTTL     time.Duration
	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8082"),
		CafeAPIURL:     strings.TrimRight(getEnv("CAFE_API_URL", "http://localhost:5000"), "/"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		APITimeout:     getDuration("CAFE_API_TIMEOUT", 10*time.Second),
		SessionTTL:     getDuration("SESSION_TTL", 12*time.Hour),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
