// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values for the tour server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8000".
	Port string

	// DataDir is the directory holding the tours/ tree. Required.
	DataDir string

	// PublicDir is the directory of the static frontend (editor and
	// viewer pages). Defaults to "public"; setting PUBLIC_DIR to an
	// empty value disables static hosting entirely.
	PublicDir string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxUploadBytes caps the size of a scene upload request.
	// Defaults to 32 MiB.
	MaxUploadBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	// An explicitly empty PUBLIC_DIR means "no static hosting", so the
	// set-but-empty case must not fall back to the default.
	cfg.PublicDir = "public"
	if v, ok := os.LookupEnv("PUBLIC_DIR"); ok {
		cfg.PublicDir = v
	}

	var missing []string

	cfg.DataDir = os.Getenv("DATA_DIR")
	if cfg.DataDir == "" {
		missing = append(missing, "DATA_DIR")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	raw := getEnv("MAX_UPLOAD_BYTES", "33554432")
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer, got %q", raw)
	}
	cfg.MaxUploadBytes = limit

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
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
