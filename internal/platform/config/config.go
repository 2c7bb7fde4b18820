// Package config assembles service settings from defaults, an optional
// YAML or TOML file and environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port" toml:"port"`
	PlansDir    string `yaml:"plans_dir" toml:"plans_dir"`
	RequestsDir string `yaml:"requests_dir" toml:"requests_dir"`
	DefaultPlan string `yaml:"default_plan" toml:"default_plan"`

	DBPath      string `yaml:"db_path" toml:"db_path"`           // SQLite run history, used when DatabaseURL is empty
	DatabaseURL string `yaml:"database_url" toml:"database_url"` // Postgres run history
	RedisURL    string `yaml:"redis_url" toml:"redis_url"`       // route cache, disabled when empty

	RouteCacheTTLSeconds int     `yaml:"route_cache_ttl_seconds" toml:"route_cache_ttl_seconds"`
	RateRPS              float64 `yaml:"rate_rps" toml:"rate_rps"` // 0 disables rate limiting
	RateBurst            int     `yaml:"rate_burst" toml:"rate_burst"`
	MaxCouriers          int     `yaml:"max_couriers" toml:"max_couriers"`
	CourierSpeedKmh      float64 `yaml:"courier_speed_kmh" toml:"courier_speed_kmh"` // stop timelines only

	LogLevel string `yaml:"log_level" toml:"log_level"`
	LogFile  string `yaml:"log_file" toml:"log_file"` // empty logs to stderr

	PreloadGraphs  bool     `yaml:"preload_graphs" toml:"preload_graphs"`
	PreloadWorkers int      `yaml:"preload_workers" toml:"preload_workers"`
	AllowOrigins   []string `yaml:"allow_origins" toml:"allow_origins"`
}

func Default() *Config {
	return &Config{
		Port:                 "8080",
		PlansDir:             "xml/plans",
		RequestsDir:          "xml/requests",
		DefaultPlan:          "grandPlan.xml",
		DBPath:               "data/app.db",
		RouteCacheTTLSeconds: 600,
		RateBurst:            20,
		MaxCouriers:          50,
		CourierSpeedKmh:      15,
		LogLevel:             "info",
		PreloadWorkers:       4,
		AllowOrigins:         []string{"*"},
	}
}

// Load reads .env when present, then CONFIG_FILE when set, then the
// environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("load config: parse yaml %q: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("load config: parse toml %q: %w", path, err)
		}
	default:
		return fmt.Errorf("load config: unsupported config file extension %q", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = Get("PORT", c.Port)
	c.PlansDir = Get("PLANS_DIR", c.PlansDir)
	c.RequestsDir = Get("REQUESTS_DIR", c.RequestsDir)
	c.DefaultPlan = Get("DEFAULT_PLAN", c.DefaultPlan)
	c.DBPath = Get("DB_PATH", c.DBPath)
	c.DatabaseURL = Get("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = Get("REDIS_URL", c.RedisURL)
	c.LogLevel = Get("LOG_LEVEL", c.LogLevel)
	c.LogFile = Get("LOG_FILE", c.LogFile)

	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = splitList(v)
	}

	var err error
	if c.RouteCacheTTLSeconds, err = getInt("ROUTE_CACHE_TTL_SECONDS", c.RouteCacheTTLSeconds); err != nil {
		return err
	}
	if c.RateBurst, err = getInt("RATE_BURST", c.RateBurst); err != nil {
		return err
	}
	if c.MaxCouriers, err = getInt("MAX_COURIERS", c.MaxCouriers); err != nil {
		return err
	}
	if c.PreloadWorkers, err = getInt("PRELOAD_WORKERS", c.PreloadWorkers); err != nil {
		return err
	}
	if v := os.Getenv("RATE_RPS"); v != "" {
		if c.RateRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("load config: RATE_RPS %q: %w", v, err)
		}
	}
	if v := os.Getenv("COURIER_SPEED_KMH"); v != "" {
		if c.CourierSpeedKmh, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("load config: COURIER_SPEED_KMH %q: %w", v, err)
		}
	}
	if v := os.Getenv("PRELOAD_GRAPHS"); v != "" {
		if c.PreloadGraphs, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("load config: PRELOAD_GRAPHS %q: %w", v, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("config: invalid port %q", c.Port)
	}
	if strings.TrimSpace(c.PlansDir) == "" {
		return errors.New("config: plans_dir is required")
	}
	if c.MaxCouriers < 1 {
		return fmt.Errorf("config: max_couriers must be >= 1, got %d", c.MaxCouriers)
	}
	if c.PreloadWorkers < 1 {
		return fmt.Errorf("config: preload_workers must be >= 1, got %d", c.PreloadWorkers)
	}
	if c.RateRPS < 0 || c.RateBurst < 0 {
		return errors.New("config: rate_rps and rate_burst must be >= 0")
	}
	if !(c.CourierSpeedKmh > 0) {
		return fmt.Errorf("config: courier_speed_kmh must be > 0, got %v", c.CourierSpeedKmh)
	}
	if c.RouteCacheTTLSeconds < 0 {
		return errors.New("config: route_cache_ttl_seconds must be >= 0")
	}
	return nil
}

// Get returns the environment value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("load config: %s %q: %w", key, v, err)
	}
	return n, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
