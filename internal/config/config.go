package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/david/scholarship-finder/internal/favorites"
)

type Config struct {
	Port string

	DatasetURL     string
	DatasetFetcher string
	SchemaPath     string

	FavoritesBackend string
	FavoritesPath    string
	DatabaseURL      string

	CORSOrigins    []string
	AdminSecret    string
	DeadlineWindow time.Duration
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:             envOrDefault("PORT", "8081"),
		DatasetURL:       envOrDefault("DATASET_URL", "data/scholarships.json"),
		DatasetFetcher:   envOrDefault("DATASET_FETCHER", "http"),
		SchemaPath:       os.Getenv("SCHEMA_PATH"),
		FavoritesBackend: strings.ToLower(envOrDefault("FAVORITES_BACKEND", "sqlite")),
		FavoritesPath:    envOrDefault("FAVORITES_PATH", "data/favorites.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		CORSOrigins:      splitCSV(os.Getenv("CORS_ORIGINS")),
		AdminSecret:      strings.TrimSpace(os.Getenv("ADMIN_SECRET")),
	}

	days, err := envOrInt("DEADLINE_WINDOW_DAYS", 21)
	if err != nil {
		return cfg, err
	}
	if days < 0 {
		return cfg, errors.New("DEADLINE_WINDOW_DAYS must not be negative")
	}
	cfg.DeadlineWindow = time.Duration(days) * 24 * time.Hour

	switch cfg.FavoritesBackend {
	case "sqlite", "postgres", "postgresql", "memory":
	default:
		return cfg, fmt.Errorf("unknown FAVORITES_BACKEND %q", cfg.FavoritesBackend)
	}

	return cfg, nil
}

// FavoritesOptions selects the favorites backend.
func (c Config) FavoritesOptions() favorites.Options {
	return favorites.Options{
		Backend:     c.FavoritesBackend,
		Path:        c.FavoritesPath,
		DatabaseURL: c.DatabaseURL,
	}
}

func envOrDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envOrInt(key string, fallback int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func splitCSV(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
