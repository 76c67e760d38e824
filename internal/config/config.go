package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joshua-takyi/gigbook/internal/helpers"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverSupabase = "supabase"
)

// Config is read from an optional YAML file named by CONFIG_FILE and then
// from the environment, which wins.
type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	Timezone    string `yaml:"timezone"`
	FrontendURL string `yaml:"frontend_url"`

	StoreDriver     string `yaml:"store_driver"`
	MongoDBURI      string `yaml:"mongodb_uri"`
	MongoDBPassword string `yaml:"mongodb_password"`
	MongoDBDatabase string `yaml:"mongodb_database"`
	SupabaseURL     string `yaml:"supabase_url"`
	SupabaseAnonKey string `yaml:"supabase_anon_key"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWKSURL   string        `yaml:"jwks_url"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	MapboxAccessToken string        `yaml:"mapbox_access_token"`
	RedisAddr         string        `yaml:"redis_addr"`
	RedisPassword     string        `yaml:"redis_password"`
	RedisDB           int           `yaml:"redis_db"`
	GeocodeCacheTTL   time.Duration `yaml:"geocode_cache_ttl"`
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		Environment:     "development",
		LogLevel:        "info",
		Timezone:        "UTC",
		FrontendURL:     "http://localhost:3000",
		StoreDriver:     DriverMemory,
		TokenTTL:        24 * time.Hour,
		GeocodeCacheTTL: 24 * time.Hour,
	}
}

func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.Environment, "ENVIRONMENT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.Timezone, "TIMEZONE")
	overrideString(&cfg.FrontendURL, "FRONTEND_URL")
	overrideString(&cfg.StoreDriver, "STORE_DRIVER")
	overrideString(&cfg.MongoDBURI, "MONGODB_URI")
	overrideString(&cfg.MongoDBPassword, "MONGODB_PASSWORD")
	overrideString(&cfg.MongoDBDatabase, "MONGODB_DATABASE")
	overrideString(&cfg.SupabaseURL, "SUPABASE_URL")
	overrideString(&cfg.SupabaseAnonKey, "SUPABASE_URL_ANON_KEY")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.JWKSURL, "JWKS_URL")
	overrideString(&cfg.MapboxAccessToken, "MAPBOX_ACCESS_TOKEN")
	overrideString(&cfg.RedisAddr, "REDIS_ADDR")
	overrideString(&cfg.RedisPassword, "REDIS_PASSWORD")
	if err := overrideInt(&cfg.RedisDB, "REDIS_DB"); err != nil {
		return nil, err
	}
	if err := overrideDuration(&cfg.TokenTTL, "TOKEN_TTL"); err != nil {
		return nil, err
	}
	if err := overrideDuration(&cfg.GeocodeCacheTTL, "GEOCODE_CACHE_TTL"); err != nil {
		return nil, err
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if !strings.HasPrefix(c.FrontendURL, "http://") && !strings.HasPrefix(c.FrontendURL, "https://") {
		return fmt.Errorf("FRONTEND_URL must be an http(s) origin")
	}
	if _, err := helpers.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	switch c.StoreDriver {
	case DriverMemory:
	case DriverMongo:
		if c.MongoDBURI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
		if strings.Contains(c.MongoDBURI, "<password>") && c.MongoDBPassword == "" {
			return fmt.Errorf("MONGODB_PASSWORD is required")
		}
	case DriverSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseAnonKey == "" {
			return fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q (expected memory, mongo or supabase)", c.StoreDriver)
	}
	return nil
}

func overrideString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func overrideInt(dst *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %v", key, err)
	}
	*dst = n
	return nil
}

func overrideDuration(dst *time.Duration, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s must be a duration like 24h: %v", key, err)
	}
	*dst = d
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Level maps LOG_LEVEL onto slog, defaulting to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) Location() *time.Location {
	loc, err := helpers.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) GeocodingEnabled() bool {
	return c.MapboxAccessToken != ""
}
