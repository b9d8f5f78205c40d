package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-mcp/internal/weather"
)

type AppConfig struct {
	// Source selects the weather provider.
	Source weather.Source

	AccuWeatherAPIKey     string
	GoogleGeocodingAPIKey string

	// CacheDir overrides the location cache directory (default ~/.cache/weather).
	CacheDir string

	LogLevel string

	// Transport is "stdio" or "http".
	Transport string
	Host      string
	Port      string

	HTTPTimeout time.Duration

	// WarmLocations are looked up every WarmInterval to keep the location
	// cache populated. Empty disables the warmer.
	WarmLocations []string
	WarmInterval  time.Duration
}

// LoadDotEnv loads a .env file from the working directory if there is one.
// A missing file is not an error.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	src, err := weather.ParseSource(getenvDefault("WEATHER_SOURCE", string(weather.SourceWeatherGov)))
	if err != nil {
		return nil, err
	}
	cfg.Source = src

	cfg.AccuWeatherAPIKey = os.Getenv("ACCUWEATHER_API_KEY")
	cfg.GoogleGeocodingAPIKey = os.Getenv("GOOGLE_GEOCODING_API_KEY")
	cfg.CacheDir = os.Getenv("WEATHER_CACHE_DIR")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))

	cfg.Transport = strings.ToLower(getenvDefault("MCP_TRANSPORT", "stdio"))
	if cfg.Transport != "stdio" && cfg.Transport != "http" {
		return nil, fmt.Errorf("invalid MCP_TRANSPORT: %s", cfg.Transport)
	}
	cfg.Host = getenvDefault("HOST", "0.0.0.0")
	cfg.Port = getenvDefault("PORT", "8080")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	interval, err := time.ParseDuration(getenvDefault("WARM_INTERVAL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid WARM_INTERVAL: %w", err)
	}
	cfg.WarmInterval = interval
	cfg.WarmLocations = splitLocations(os.Getenv("WARM_LOCATIONS"))

	return cfg, nil
}

// splitLocations splits a ';'-separated list; locations such as
// "Huntsville, AL" contain commas.
func splitLocations(s string) []string {
	var locs []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			locs = append(locs, p)
		}
	}
	return locs
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
