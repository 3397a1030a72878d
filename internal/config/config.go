package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the dirmaker server configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
	Filter   FilterConfig   `yaml:"filter"`
	Views    ViewsConfig    `yaml:"views"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Catalog sources.
const (
	SourceFile   = "file"
	SourceValkey = "valkey"
	SourceRedis  = "redis"
)

// CatalogConfig holds catalog loading settings.
type CatalogConfig struct {
	Source     string   `yaml:"source"` // file, valkey, redis (default: file)
	Path       string   `yaml:"path"`   // data file for the file source
	Key        string   `yaml:"key"`    // store key for valkey/redis sources
	Taxonomies []string `yaml:"taxonomies"`
	PerPage    int      `yaml:"per_page"`
}

// UsesStore reports whether the catalog is read from Valkey/Redis.
func (c CatalogConfig) UsesStore() bool {
	return c.Source == SourceValkey || c.Source == SourceRedis
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// FilterConfig holds search and composition settings of the filter coordinator.
type FilterConfig struct {
	MinQueryLength int    `yaml:"min_query_length"`
	DebounceMs     *int   `yaml:"debounce_ms"` // nil = default, 0 = disabled
	Compose        string `yaml:"compose"`     // independent, conjunctive
}

// Debounce returns the search cool-down window.
func (f FilterConfig) Debounce() time.Duration {
	if f.DebounceMs == nil {
		return defaultDebounceMs * time.Millisecond
	}
	return time.Duration(*f.DebounceMs) * time.Millisecond
}

// ViewsConfig holds view registry limits.
type ViewsConfig struct {
	TTLSec int `yaml:"ttl_sec"`
	Max    int `yaml:"max"`
}

const defaultDebounceMs = 100

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = SourceFile
	}
	if c.Catalog.Key == "" {
		c.Catalog.Key = "dirmaker:catalog"
	}
	if c.Catalog.PerPage <= 0 {
		c.Catalog.PerPage = 50
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Filter.MinQueryLength <= 0 {
		c.Filter.MinQueryLength = 3
	}
	if c.Filter.Compose == "" {
		c.Filter.Compose = "independent"
	}
	if c.Views.TTLSec <= 0 {
		c.Views.TTLSec = 1800
	}
	if c.Views.Max <= 0 {
		c.Views.Max = 10000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for the file source")
		}
	case SourceValkey, SourceRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the %s source", c.Catalog.Source)
		}
	default:
		return fmt.Errorf("catalog.source must be \"file\", \"valkey\" or \"redis\", got %q", c.Catalog.Source)
	}
	switch c.Filter.Compose {
	case "independent", "conjunctive":
		// ok
	default:
		return fmt.Errorf("filter.compose must be \"independent\" or \"conjunctive\", got %q", c.Filter.Compose)
	}
	if c.Filter.DebounceMs != nil && *c.Filter.DebounceMs < 0 {
		return fmt.Errorf("filter.debounce_ms must be >= 0, got %d", *c.Filter.DebounceMs)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
