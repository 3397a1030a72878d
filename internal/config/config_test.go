package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Source: SourceFile, Path: "config/data.yml"},
		Filter:  FilterConfig{Compose: "independent"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	negative := -5

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"file without path", func(c *Config) { c.Catalog.Path = "" }, "catalog.path"},
		{"store without addrs", func(c *Config) { c.Catalog.Source = SourceValkey }, "database.addrs"},
		{"unknown source", func(c *Config) { c.Catalog.Source = "s3" }, "catalog.source"},
		{"unknown compose", func(c *Config) { c.Filter.Compose = "union" }, "filter.compose"},
		{"negative debounce", func(c *Config) { c.Filter.DebounceMs = &negative }, "filter.debounce_ms"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q should mention %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Catalog.Source != SourceFile {
		t.Errorf("catalog.source = %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.PerPage != 50 {
		t.Errorf("catalog.per_page = %d", cfg.Catalog.PerPage)
	}
	if cfg.Filter.MinQueryLength != 3 {
		t.Errorf("filter.min_query_length = %d", cfg.Filter.MinQueryLength)
	}
	if cfg.Filter.Compose != "independent" {
		t.Errorf("filter.compose = %q", cfg.Filter.Compose)
	}
	if cfg.Views.TTLSec != 1800 || cfg.Views.Max != 10000 {
		t.Errorf("views = %+v", cfg.Views)
	}
}

func TestFilterConfig_Debounce(t *testing.T) {
	zero := 0
	custom := 250

	tests := []struct {
		name string
		ms   *int
		want time.Duration
	}{
		{"unset uses default", nil, 100 * time.Millisecond},
		{"zero disables", &zero, 0},
		{"custom", &custom, 250 * time.Millisecond},
	}
	for _, tc := range tests {
		got := FilterConfig{DebounceMs: tc.ms}.Debounce()
		if got != tc.want {
			t.Errorf("%s: Debounce() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCatalogConfig_UsesStore(t *testing.T) {
	for src, want := range map[string]bool{SourceFile: false, SourceValkey: true, SourceRedis: true} {
		if got := (CatalogConfig{Source: src}).UsesStore(); got != want {
			t.Errorf("UsesStore(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DIRMAKER_TEST_PORT", "9090")

	tests := []struct {
		in   string
		want string
	}{
		{"port: ${DIRMAKER_TEST_PORT}", "port: 9090"},
		{"port: ${DIRMAKER_TEST_PORT:-8080}", "port: 9090"},
		{"port: ${DIRMAKER_TEST_UNSET:-8080}", "port: 8080"},
		{"port: ${DIRMAKER_TEST_UNSET}", "port: "},
	}
	for _, tc := range tests {
		if got := string(expandEnvVars([]byte(tc.in))); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoad_Local(t *testing.T) {
	t.Setenv("HTTP_PORT", "8181")
	t.Setenv("CATALOG_SOURCE", "")

	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.HTTP.Port != 8181 {
		t.Errorf("http.port = %d", cfg.HTTP.Port)
	}
	if cfg.Catalog.Source != SourceFile {
		t.Errorf("catalog.source = %q", cfg.Catalog.Source)
	}
	if len(cfg.Catalog.Taxonomies) != 2 {
		t.Errorf("catalog.taxonomies = %v", cfg.Catalog.Taxonomies)
	}
	if cfg.Filter.Debounce() != 100*time.Millisecond {
		t.Errorf("filter debounce = %v", cfg.Filter.Debounce())
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load("nonexistent"); err == nil {
		t.Fatal("expected error for missing config")
	}
}
