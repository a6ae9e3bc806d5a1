package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pantanalmet/meteogram/internal/domain"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	InputRoot    string
	InputPattern string
	OutputDir    string
	StrictMatch  bool

	SourceTZ  string
	TargetTZ  string
	SourceLoc *time.Location
	TargetLoc *time.Location

	ContourMin float64
	ContourMax float64
	DPI        int

	BorderDataDir string
	Cities        []domain.PointOfInterest

	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// defaultCities are the operational Mato Grosso do Sul reference points.
const defaultCities = "Campo Grande,-54.6156,-20.4428;Dourados,-54.5494,-22.2231;Três Lagoas,-51.7044,-20.7511"

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		InputRoot:     envOrDefault("INPUT_ROOT", "data/wrf"),
		InputPattern:  envOrDefault("INPUT_PATTERN", "*d02*4km"),
		OutputDir:     envOrDefault("OUTPUT_DIR", "out/frames"),
		StrictMatch:   os.Getenv("STRICT_INPUT_MATCH") == "true",
		SourceTZ:      envOrDefault("SOURCE_TZ", "UTC"),
		TargetTZ:      envOrDefault("TARGET_TZ", "America/Cuiaba"),
		BorderDataDir: envOrDefault("BORDER_DATA_DIR", "data/naturalearth"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		LogFormat:     envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
	}

	var err error
	if cfg.ContourMin, err = parseFloat("CONTOUR_MIN", 5); err != nil {
		return nil, err
	}
	if cfg.ContourMax, err = parseFloat("CONTOUR_MAX", 39); err != nil {
		return nil, err
	}
	if cfg.ContourMin >= cfg.ContourMax {
		return nil, errors.New("CONTOUR_MIN must be less than CONTOUR_MAX")
	}

	if cfg.DPI, err = parseInt("DPI", 200); err != nil {
		return nil, err
	}
	if cfg.DPI <= 0 {
		return nil, errors.New("DPI must be positive")
	}

	if cfg.SourceLoc, err = time.LoadLocation(cfg.SourceTZ); err != nil {
		return nil, fmt.Errorf("invalid SOURCE_TZ: %w", err)
	}
	if cfg.TargetLoc, err = time.LoadLocation(cfg.TargetTZ); err != nil {
		return nil, fmt.Errorf("invalid TARGET_TZ: %w", err)
	}

	if cfg.Cities, err = parseCities(envOrDefault("CITIES", defaultCities)); err != nil {
		return nil, err
	}

	if cfg.InputRoot == "" {
		return nil, errors.New("INPUT_ROOT is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.InputPattern == "" {
		return nil, errors.New("INPUT_PATTERN is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// parseCities decodes the "name,lon,lat;name,lon,lat" city list format.
func parseCities(s string) ([]domain.PointOfInterest, error) {
	var cities []domain.PointOfInterest
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ",")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid CITIES entry %q: want name,lon,lat", part)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CITIES longitude in %q: %w", part, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CITIES latitude in %q: %w", part, err)
		}
		cities = append(cities, domain.PointOfInterest{
			Name: strings.TrimSpace(fields[0]),
			Lon:  lon,
			Lat:  lat,
		})
	}
	return cities, nil
}
