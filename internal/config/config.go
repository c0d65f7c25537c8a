package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Engine tuning, optionally read from the YAML file at CONFIG_PATH.
type EngineConfig struct {
	PoolSize           int           `yaml:"pool_size"`
	ResultCap          int           `yaml:"result_cap"`
	Parallelism        int           `yaml:"parallelism"`
	RecentActivityDays int           `yaml:"recent_activity_days"`
	SearchTimeout      time.Duration `yaml:"search_timeout"`
}

type Config struct {
	Port            string
	DBDriver        string
	DatabaseURL     string
	SeedPath        string
	RedisURL        string
	HistoryCacheTTL time.Duration
	KafkaBrokers    []string
	KafkaTopic      string
	Engine          EngineConfig
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PoolSize:           100,
		ResultCap:          25,
		Parallelism:        8,
		RecentActivityDays: 30,
		SearchTimeout:      20 * time.Second,
	}
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads .env (if present), the environment and the optional engine
// YAML file. Engine values come from defaults, then environment, then YAML.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := Config{
		Port:        Get("PORT", "8080"),
		DBDriver:    Get("DB_DRIVER", "pgx"),
		DatabaseURL: Get("DATABASE_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/carriers.json"),
		RedisURL:    Get("REDIS_URL", ""),
		KafkaTopic:  Get("KAFKA_TOPIC", "carrier-search.completed"),
		Engine:      DefaultEngineConfig(),
	}

	if brokers := Get("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.HistoryCacheTTL, err = durationEnv("HISTORY_CACHE_TTL", 2*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Engine.PoolSize, err = intEnv("CARRIER_POOL_SIZE", cfg.Engine.PoolSize); err != nil {
		return Config{}, err
	}
	if cfg.Engine.ResultCap, err = intEnv("CARRIER_RESULT_CAP", cfg.Engine.ResultCap); err != nil {
		return Config{}, err
	}
	if cfg.Engine.Parallelism, err = intEnv("CARRIER_SEARCH_PARALLELISM", cfg.Engine.Parallelism); err != nil {
		return Config{}, err
	}
	if cfg.Engine.SearchTimeout, err = durationEnv("CARRIER_SEARCH_TIMEOUT", cfg.Engine.SearchTimeout); err != nil {
		return Config{}, err
	}

	if path := Get("CONFIG_PATH", ""); path != "" {
		if err := cfg.Engine.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// mergeFile overlays non-zero values from a YAML file.
func (e *EngineConfig) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}

	var file EngineConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}

	if file.PoolSize != 0 {
		e.PoolSize = file.PoolSize
	}
	if file.ResultCap != 0 {
		e.ResultCap = file.ResultCap
	}
	if file.Parallelism != 0 {
		e.Parallelism = file.Parallelism
	}
	if file.RecentActivityDays != 0 {
		e.RecentActivityDays = file.RecentActivityDays
	}
	if file.SearchTimeout != 0 {
		e.SearchTimeout = file.SearchTimeout
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.DBDriver != "pgx" && c.DBDriver != "sqlite" {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be pgx or sqlite, got %q", c.DBDriver))
	}
	if c.Engine.PoolSize <= 0 {
		errs = append(errs, fmt.Errorf("pool_size must be positive, got %d", c.Engine.PoolSize))
	}
	if c.Engine.ResultCap <= 0 {
		errs = append(errs, fmt.Errorf("result_cap must be positive, got %d", c.Engine.ResultCap))
	}
	if c.Engine.Parallelism <= 0 {
		errs = append(errs, fmt.Errorf("parallelism must be positive, got %d", c.Engine.Parallelism))
	}
	if c.Engine.RecentActivityDays <= 0 {
		errs = append(errs, fmt.Errorf("recent_activity_days must be positive, got %d", c.Engine.RecentActivityDays))
	}
	if c.Engine.SearchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("search_timeout must be positive, got %s", c.Engine.SearchTimeout))
	}
	if c.HistoryCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("HISTORY_CACHE_TTL must be positive, got %s", c.HistoryCacheTTL))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RecentActivityWindow converts the configured day count into a duration.
func (e EngineConfig) RecentActivityWindow() time.Duration {
	return time.Duration(e.RecentActivityDays) * 24 * time.Hour
}

func intEnv(key string, fallback int) (int, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("load config: %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("load config: %s: %w", key, err)
	}
	return d, nil
}
