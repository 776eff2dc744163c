package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/climate"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// DatabaseURL enables the Postgres report archive when set.
	DatabaseURL string

	// HotCacheTTL bounds reuse of raw provider fetch results.
	HotCacheTTL time.Duration

	// ReportCacheTTL bounds reuse of fully assembled reports.
	ReportCacheTTL time.Duration

	// LookbackYears controls the historical fetch range.
	LookbackYears int

	// RefreshInterval controls how often tracked locations are re-analyzed.
	RefreshInterval time.Duration

	// TrackedLocations are refreshed in the background.
	TrackedLocations []climate.Coordinate

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	hotTTL, err := getenvDuration("HOT_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	cfg.HotCacheTTL = hotTTL

	reportTTL, err := getenvDuration("REPORT_CACHE_TTL", "6h")
	if err != nil {
		return nil, err
	}
	cfg.ReportCacheTTL = reportTTL

	cfg.LookbackYears = getenvInt("HISTORY_LOOKBACK_YEARS", 1)

	refresh, err := getenvDuration("REFRESH_INTERVAL", "6h")
	if err != nil {
		return nil, err
	}
	cfg.RefreshInterval = refresh

	cfg.Port = getenvDefault("PORT", "8080")

	locs, err := parseTrackedLocations(os.Getenv("TRACKED_LOCATIONS"))
	if err != nil {
		return nil, err
	}
	cfg.TrackedLocations = locs

	return cfg, nil
}

// parseTrackedLocations parses "lat,lon;lat,lon" pairs.
func parseTrackedLocations(raw string) ([]climate.Coordinate, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var locs []climate.Coordinate
	for _, pair := range strings.Split(raw, ";") {
		parts := strings.Split(strings.TrimSpace(pair), ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid TRACKED_LOCATIONS entry %q: want lat,lon", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in TRACKED_LOCATIONS entry %q", pair)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in TRACKED_LOCATIONS entry %q", pair)
		}

		coord := climate.Coordinate{Latitude: lat, Longitude: lon}
		if !coord.Valid() {
			return nil, fmt.Errorf("TRACKED_LOCATIONS entry %q out of range", pair)
		}
		locs = append(locs, coord)
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
