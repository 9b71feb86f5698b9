package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("QR_CONFIG_PATH", "")
	t.Setenv("ADMIN_TOKEN", "")
	t.Setenv("QR_DEBUG", "")

	cfg := LoadConfig()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "", cfg.AdminToken)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "config.json", filepath.Base(cfg.SettingsPath))
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9090")
	t.Setenv("QR_CONFIG_PATH", "/tmp/qr/settings.json")
	t.Setenv("ADMIN_TOKEN", "  secret  ")
	t.Setenv("QR_DEBUG", "1")
	t.Setenv("SETTINGS_BACKEND", "SQLite")

	cfg := LoadConfig()

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/qr/settings.json", cfg.SettingsPath)
	assert.Equal(t, "secret", cfg.AdminToken)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.SettingsBackend)
}

func TestLoadConfig_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg := LoadConfig()

	assert.Equal(t, 8000, cfg.Port)
}
