package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prasetyowira/qrsite/constant"
)

type Config struct {
	Host            string
	Port            int
	SettingsPath    string
	SettingsBackend string
	SettingsDBPath  string
	AdminToken      string
	Debug           bool
	LogLevel        string
}

func LoadConfig() Config {
	port, err := strconv.Atoi(getEnv("PORT", "8000"))
	if err != nil || port <= 0 {
		port = 8000
	}

	return Config{
		Host:            getEnv("HOST", "127.0.0.1"),
		Port:            port,
		SettingsPath:    settingsPath(),
		SettingsBackend: strings.ToLower(getEnv("SETTINGS_BACKEND", constant.BackendJSON)),
		SettingsDBPath:  getEnv("SETTINGS_DB_PATH", "settings.db"),
		AdminToken:      strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
		Debug:           strings.TrimSpace(os.Getenv("QR_DEBUG")) == "1",
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
	}
}

// IsProduction reports whether logging should use the production encoder.
func (c Config) IsProduction() bool {
	return !c.Debug && c.LogLevel == "INFO"
}

// settingsPath honours QR_CONFIG_PATH, else config.json beside the binary.
func settingsPath() string {
	if p := strings.TrimSpace(os.Getenv("QR_CONFIG_PATH")); p != "" {
		return p
	}
	exe, err := os.Executable()
	if err != nil {
		return constant.DefaultSettingsFile
	}
	return filepath.Join(filepath.Dir(exe), constant.DefaultSettingsFile)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
