// Package config loads service configuration from defaults, an optional YAML
// file and CATALOG_ environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigPathEnvVar names the YAML file to load.
	ConfigPathEnvVar = "CATALOG_CONFIG_PATH"
	envPrefix        = "CATALOG_"
)

// DefaultConfigPaths are probed when ConfigPathEnvVar is unset.
var DefaultConfigPaths = []string{"config.yaml", "/etc/movie-catalog/config.yaml"}

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Paging    PagingConfig    `koanf:"paging"`
	Integrity IntegrityConfig `koanf:"integrity"`
	Logging   LoggingConfig   `koanf:"logging"`
	Tracing   TracingConfig   `koanf:"tracing"`
}

type ServerConfig struct {
	HTTPAddr        string        `koanf:"http_addr"`
	GRPCAddr        string        `koanf:"grpc_addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

type StorageConfig struct {
	Driver          string        `koanf:"driver"`
	DatabaseURL     string        `koanf:"database_url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	Migrate         bool          `koanf:"migrate"`
}

type PagingConfig struct {
	DefaultSize int `koanf:"default_size"`
	ReviewSize  int `koanf:"review_size"`
	MaxSize     int `koanf:"max_size"`
}

// IntegrityConfig points existence checks at a remote lookup service. Empty LookupAddr
// means the local store answers them.
type IntegrityConfig struct {
	LookupAddr    string        `koanf:"lookup_addr"`
	LookupTimeout time.Duration `koanf:"lookup_timeout"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			GRPCAddr:        ":9090",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Storage: StorageConfig{
			Driver:          DriverMemory,
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
			Migrate:         true,
		},
		Paging: PagingConfig{
			DefaultSize: 20,
			ReviewSize:  5,
			MaxSize:     100,
		},
		Integrity: IntegrityConfig{
			LookupTimeout: 3 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4317",
			ServiceName: "movie-catalog",
		},
	}
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// CATALOG_STORAGE__DATABASE_URL -> storage.database_url
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSliceField(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitSliceField turns a comma-separated env value into a string slice.
func splitSliceField(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if err := k.Set(path, parts); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"json", "text"}
)

func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, errors.New("storage.database_url is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not one of memory, postgres", c.Storage.Driver))
	}
	if c.Paging.MaxSize <= 0 {
		errs = append(errs, errors.New("paging.max_size must be > 0"))
	}
	if c.Paging.DefaultSize <= 0 || c.Paging.DefaultSize > c.Paging.MaxSize {
		errs = append(errs, errors.New("paging.default_size must be in (0, paging.max_size]"))
	}
	if c.Paging.ReviewSize <= 0 || c.Paging.ReviewSize > c.Paging.MaxSize {
		errs = append(errs, errors.New("paging.review_size must be in (0, paging.max_size]"))
	}
	if !slices.Contains(validLevels, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of %s", c.Logging.Level, strings.Join(validLevels, ", ")))
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Logging.Format)) {
		errs = append(errs, fmt.Errorf("logging.format %q is not one of %s", c.Logging.Format, strings.Join(validFormats, ", ")))
	}
	if c.Server.HTTPAddr == "" || c.Server.GRPCAddr == "" {
		errs = append(errs, errors.New("server.http_addr and server.grpc_addr are required"))
	}
	return errors.Join(errs...)
}
