// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is read first
// when present; real environment variables win over it.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Either set DATABASE_URL
	// directly or let Load assemble it from DB_HOST, DB_NAME, and optionally
	// DB_USER/DB_PASS.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// GeocodingKey authenticates reverse-geocoding lookups. Required.
	GeocodingKey string

	// TimezoneKey authenticates timezone-by-coordinate lookups. Required.
	TimezoneKey string

	// ImageKitPublicKey and ImageKitPrivateKey are the hosted image service
	// credential pair. Required.
	ImageKitPublicKey  string
	ImageKitPrivateKey string

	// ImageKitUploadURL is the upload endpoint of the hosted image service.
	ImageKitUploadURL string

	// ExternalTimeout bounds every outbound call to the geocoding, timezone,
	// and image services. Defaults to 10s.
	ExternalTimeout time.Duration
}

// Load reads configuration from the environment (and a .env file when one
// exists) and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	// Missing .env is the normal production case, not an error.
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		ImageKitUploadURL:  getEnv("IMAGEKIT_UPLOAD_URL", "https://upload.imagekit.io/api/v1/files/upload"),
		ExternalTimeout:    getEnvAsDuration("EXTERNAL_TIMEOUT", 10*time.Second),
		GeocodingKey:       os.Getenv("GEOCODING_API_KEY"),
		TimezoneKey:        os.Getenv("TIMEZONE_API_KEY"),
		ImageKitPublicKey:  os.Getenv("IMAGEKIT_PUBLIC_KEY"),
		ImageKitPrivateKey: os.Getenv("IMAGEKIT_PRIVATE_KEY"),
	}

	var missing []string

	cfg.DatabaseURL = databaseURL()
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.GeocodingKey == "" {
		missing = append(missing, "GEOCODING_API_KEY")
	}
	if cfg.TimezoneKey == "" {
		missing = append(missing, "TIMEZONE_API_KEY")
	}
	if cfg.ImageKitPublicKey == "" {
		missing = append(missing, "IMAGEKIT_PUBLIC_KEY")
	}
	if cfg.ImageKitPrivateKey == "" {
		missing = append(missing, "IMAGEKIT_PRIVATE_KEY")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// databaseURL returns DATABASE_URL when set, otherwise assembles a Postgres
// DSN from DB_HOST, DB_NAME, and optionally DB_USER/DB_PASS. Credentials are
// included only when both user and password are present. Returns "" when
// neither form is configured.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := os.Getenv("DB_HOST")
	name := os.Getenv("DB_NAME")
	if host == "" || name == "" {
		return ""
	}

	cred := ""
	if user, pass := os.Getenv("DB_USER"), os.Getenv("DB_PASS"); user != "" && pass != "" {
		cred = user + ":" + pass + "@"
	}
	return fmt.Sprintf("postgres://%s%s/%s", cred, host, name)
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvAsDuration parses the environment variable named by key as a
// time.Duration, or returns fallback when unset or malformed.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
