package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Setenv("SESSION_LIMIT", "")

	cfg := Load()
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, 16, cfg.MaxUploadMB)
	require.Equal(t, 100, cfg.SessionLimit)
	require.Empty(t, cfg.ListingsCSVPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("MAX_UPLOAD_MB", "32")
	t.Setenv("LISTINGS_CSV_PATH", "/data/export.csv")

	cfg := Load()
	require.Equal(t, ":9999", cfg.ListenAddr)
	require.Equal(t, 32, cfg.MaxUploadMB)
	require.Equal(t, "/data/export.csv", cfg.ListingsCSVPath)
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("SESSION_LIMIT", "lots")

	cfg := Load()
	require.Equal(t, 100, cfg.SessionLimit)
}
