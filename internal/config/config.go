package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the service. Values come from
// an optional YAML file; environment variables override the file so
// container deployments can tune a shared config.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Cache  CacheConfig  `yaml:"cache"`
	Ingest IngestConfig `yaml:"ingest"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// StoreConfig selects the row-store backend. Backend "postgres" and
// "sqlite3" use DSN; "csv" uses Path.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
	Path    string `yaml:"path"`
}

type CacheConfig struct {
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

type IngestConfig struct {
	StatsAPIBase string `yaml:"stats_api_base"`
	Season       string `yaml:"season"`
}

// Default returns the configuration used when no file and no
// environment overrides are present.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Store: StoreConfig{
			Backend: "sqlite3",
			DSN:     "gamelog.db",
			Path:    "data/gamelog.csv",
		},
		Cache: CacheConfig{
			RedisURL: "",
			TTL:      time.Minute,
		},
		Ingest: IngestConfig{
			StatsAPIBase: "https://stats.nba.com",
			Season:       "2024-25",
		},
	}
}

// Load reads the YAML file at path, falling back to defaults when the
// file does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Wrap(err, "Load Unmarshal")
			}
		case os.IsNotExist(err):
			// Defaults plus environment are enough to run.
		default:
			return cfg, errors.Wrap(err, "Load ReadFile")
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Store.Backend = getEnv("STORE_BACKEND", c.Store.Backend)
	c.Store.DSN = getEnv("STORE_DSN", c.Store.DSN)
	c.Store.Path = getEnv("STORE_PATH", c.Store.Path)
	c.Cache.RedisURL = getEnv("REDIS_URL", c.Cache.RedisURL)
	c.Cache.TTL = getEnvDuration("CACHE_TTL", c.Cache.TTL)
	c.Ingest.StatsAPIBase = getEnv("STATS_API_BASE", c.Ingest.StatsAPIBase)
	c.Ingest.Season = getEnv("CURRENT_SEASON", c.Ingest.Season)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
