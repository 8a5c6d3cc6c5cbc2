// Package config loads posd configuration from a YAML file with environment
// overrides. Every setting has a usable default so the daemon starts with an
// empty environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for the config file.
const DefaultPath = "config/posd.yaml"

// Config is the full daemon configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Insights InsightsConfig `yaml:"insights"`
	Printer  PrinterConfig  `yaml:"printer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RateLimitPerSecond caps requests per client; zero disables limiting.
	RateLimitPerSecond int `yaml:"rate_limit_per_second"`
	RateLimitBurst     int `yaml:"rate_limit_burst"`
}

// Addr renders the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthConfig holds the accepted bearer tokens. Empty disables auth.
type AuthConfig struct {
	Tokens []string `yaml:"tokens"`
}

// StorageConfig selects the persistence backends. Empty values fall back to
// the in-memory store and no relational mirror.
type StorageConfig struct {
	RedisURL    string `yaml:"redis_url"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// InsightsConfig configures the external text-generation service. An empty
// APIKey disables the adapter; generation then yields the fallback text.
type InsightsConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

// PrinterConfig configures the receipt side channel. Empty disables it.
type PrinterConfig struct {
	Address string `yaml:"address"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads DefaultPath if present and applies environment overrides.
func Load() (*Config, error) {
	return LoadFromPath(DefaultPath)
}

// LoadFromPath reads the given file if present and applies environment
// overrides. A missing file is not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults plus environment only.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			RateLimitPerSecond: 50,
			RateLimitBurst:     100,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("POSD_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("POSD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("POSD_AUTH_TOKENS"); v != "" {
		var tokens []string
		for _, tok := range strings.Split(v, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				tokens = append(tokens, tok)
			}
		}
		cfg.Auth.Tokens = tokens
	}
	if v := os.Getenv("POSD_REDIS_URL"); v != "" {
		cfg.Storage.RedisURL = v
	}
	if v := os.Getenv("POSD_POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("POSD_INSIGHTS_ENDPOINT"); v != "" {
		cfg.Insights.Endpoint = v
	}
	if v := os.Getenv("POSD_INSIGHTS_MODEL"); v != "" {
		cfg.Insights.Model = v
	}
	if v := os.Getenv("POSD_INSIGHTS_API_KEY"); v != "" {
		cfg.Insights.APIKey = v
	}
	if v := os.Getenv("POSD_PRINTER_ADDR"); v != "" {
		cfg.Printer.Address = v
	}
	if v := os.Getenv("POSD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("POSD_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
