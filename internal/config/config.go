// ABOUTME: Configuration loader for the geochallenge CLI
// ABOUTME: Loads settings from environment variables with defaults, with optional .env support

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Backend
	APIUrl         string // base URL of the GeoChallenge Tracker API
	RequestTimeout int    // seconds, per HTTP request (default 30)

	// Search
	DefaultRadiusKm float64 // initial radius for radius searches (default 10)
	PageSize        int     // results per page requested from the backend (default 100)

	// Caching
	SnapshotTTL int // seconds, TTL for cached profile/location snapshots (default 60)

	// Storage
	ConfigDir string // where the refresh token file lives
}

// Load reads configuration from the environment.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	// Missing .env is the normal case, not an error
	_ = godotenv.Load()

	cfg := &Config{
		APIUrl:          ensureScheme(getEnv("GEOCHALLENGE_API_URL", "http://localhost:8000")),
		RequestTimeout:  getEnvInt("GEOCHALLENGE_REQUEST_TIMEOUT", 30),
		DefaultRadiusKm: getEnvFloat("GEOCHALLENGE_DEFAULT_RADIUS_KM", 10.0),
		PageSize:        getEnvInt("GEOCHALLENGE_PAGE_SIZE", 100),
		SnapshotTTL:     getEnvInt("GEOCHALLENGE_SNAPSHOT_TTL", 60),
		ConfigDir:       getEnv("GEOCHALLENGE_CONFIG_DIR", DefaultConfigDir()),
	}

	if cfg.RequestTimeout < 1 {
		return nil, fmt.Errorf("GEOCHALLENGE_REQUEST_TIMEOUT must be positive, got %d", cfg.RequestTimeout)
	}
	if cfg.DefaultRadiusKm < 0.1 || cfg.DefaultRadiusKm > 100 {
		return nil, fmt.Errorf("GEOCHALLENGE_DEFAULT_RADIUS_KM must be between 0.1 and 100, got %g", cfg.DefaultRadiusKm)
	}
	if cfg.PageSize < 1 || cfg.PageSize > 200 {
		return nil, fmt.Errorf("GEOCHALLENGE_PAGE_SIZE must be between 1 and 200, got %d", cfg.PageSize)
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "geochallenge")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "geochallenge")
}

// ensureScheme prepends https:// when a URL is given without a scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return strings.TrimSuffix(url, "/")
	}
	return "https://" + strings.TrimSuffix(url, "/")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
