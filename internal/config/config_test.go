package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tourforge/pano360/internal/config"
)

// TestLoad_defaults verifies that optional env vars fall back to their defaults
// when only the required DATA_DIR is provided.
func TestLoad_defaults(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/pano360")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	// PUBLIC_DIR must be absent, not empty: set-but-empty carries
	// meaning of its own. t.Setenv registers the restore cleanup.
	t.Setenv("PUBLIC_DIR", "x")
	os.Unsetenv("PUBLIC_DIR")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8000", cfg.Port)
	require.Equal(t, "/var/lib/pano360", cfg.DataDir)
	require.Equal(t, "public", cfg.PublicDir)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, int64(33554432), cfg.MaxUploadBytes)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/tours")
	t.Setenv("PORT", "9090")
	t.Setenv("PUBLIC_DIR", "/srv/frontend")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "/srv/tours", cfg.DataDir)
	require.Equal(t, "/srv/frontend", cfg.PublicDir)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, int64(1048576), cfg.MaxUploadBytes)
}

// TestLoad_emptyPublicDirDisablesStatic verifies that an explicitly empty
// PUBLIC_DIR is kept empty, which turns off static hosting, rather than
// falling back to the default directory.
func TestLoad_emptyPublicDirDisablesStatic(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/tours")
	t.Setenv("PUBLIC_DIR", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Empty(t, cfg.PublicDir)
}

// TestLoad_missingRequired verifies that an error is returned when DATA_DIR
// is not set, and that the error message names the missing variable.
func TestLoad_missingRequired(t *testing.T) {
	t.Setenv("DATA_DIR", "")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "DATA_DIR")
}

// TestLoad_badUploadLimit verifies that non-numeric and non-positive
// limits are rejected rather than silently defaulted.
func TestLoad_badUploadLimit(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/tours")

	for _, bad := range []string{"abc", "-1", "0"} {
		t.Setenv("MAX_UPLOAD_BYTES", bad)
		_, err := config.Load()
		require.Error(t, err, bad)
		require.ErrorContains(t, err, "MAX_UPLOAD_BYTES")
	}
}
