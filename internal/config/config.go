package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"hos-trip-planner/internal/services"
)

// EnvPrefix scopes structured overrides, e.g. HOS_POLICY__PICKUP_DURATION=2h.
const EnvPrefix = "HOS_"

type Config struct {
	Port        string `koanf:"port"`
	DatabaseURL string `koanf:"database_url"`
	DBPath      string `koanf:"db_path"`
	SeedPath    string `koanf:"seed_path"`
	LogLevel    string `koanf:"log_level"`

	ORSAPIKey  string `koanf:"ors_api_key"`
	ORSBaseURL string `koanf:"ors_base_url"`
	ORSProfile string `koanf:"ors_profile"`
	// ISO country code restricting geocoding results. Empty means worldwide.
	ORSCountry string `koanf:"ors_country"`
	// Cached routes older than this are fetched again. Zero keeps them forever.
	RouteCacheTTL time.Duration `koanf:"route_cache_ttl"`

	Policy services.Policy `koanf:"policy"`
}

// Default returns the configuration used for keys nothing sets.
func Default() Config {
	return Config{
		Port:          "8080",
		DBPath:        "data/app.db",
		SeedPath:      "data/seeds/locations.json",
		LogLevel:      "info",
		ORSBaseURL:    "https://api.openrouteservice.org",
		ORSProfile:    "driving-hgv",
		RouteCacheTTL: 7 * 24 * time.Hour,
		Policy:        services.DefaultPolicy(),
	}
}

// Plain variables the service has always read, mapped to their keys.
var plainEnv = map[string]string{
	"PORT":            "port",
	"DATABASE_URL":    "database_url",
	"DB_PATH":         "db_path",
	"SEED_PATH":       "seed_path",
	"LOG_LEVEL":       "log_level",
	"ORS_API_KEY":     "ors_api_key",
	"ORS_BASE_URL":    "ors_base_url",
	"ORS_PROFILE":     "ors_profile",
	"ORS_COUNTRY":     "ors_country",
	"ROUTE_CACHE_TTL": "route_cache_ttl",
}

// Load builds the configuration from, in increasing precedence: defaults, the
// optional YAML or JSON file at path, plain environment variables (a .env file
// is loaded first when present) and HOS_-prefixed overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config %q: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return plainEnv[key], value
	}), nil); err != nil {
		return nil, fmt.Errorf("load config env: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(key, "__", "."), value
	}), nil); err != nil {
		return nil, fmt.Errorf("load config env overrides: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("config: port is required")
	}
	if c.DatabaseURL == "" && c.DBPath == "" {
		return errors.New("config: one of database_url or db_path is required")
	}
	if c.RouteCacheTTL < 0 {
		return errors.New("config: route_cache_ttl must not be negative")
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Get returns the environment variable key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
