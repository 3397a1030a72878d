package dirmaker

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog sources.
const (
	sourceFile   = "file"
	sourceYAML   = "yaml"
	sourceValkey = "valkey"
	sourceRedis  = "redis"
)

const defaultCatalogKey = "dirmaker:catalog"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	source   string // "file", "yaml", "valkey" or "redis"
	path     string
	data     []byte
	addrs    []string
	password string
	key      string

	taxonomies []string
	perPage    int
	minQuery   int
	debounce   time.Duration
	compose    string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithFile loads the catalog from a YAML data file.
func WithFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = sourceFile
		c.path = path
	})
}

// WithYAML loads the catalog from YAML data held in memory.
func WithYAML(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = sourceYAML
		c.data = data
	})
}

// WithValkey loads the catalog from a key in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = sourceValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis loads the catalog from a key in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.source = sourceRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKey sets the store key holding the catalog. Default: "dirmaker:catalog".
func WithKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.key = key
	})
}

// WithTaxonomies sets the facet dimensions. By default every list-valued
// entry field other than categories is a taxonomy.
func WithTaxonomies(names ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.taxonomies = names
	})
}

// WithPerPage sets the category page size. Default: 50.
func WithPerPage(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.perPage = n
	})
}

// WithMinQueryLength sets the shortest query, in characters, that filters anything.
// Default: 3.
func WithMinQueryLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minQuery = n
	})
}

// WithDebounce sets the search cool-down of interactive filters. Zero disables it.
// Default: 100ms.
func WithDebounce(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.debounce = d
	})
}

// WithConjunctive makes every interactive pass apply both the facets and the
// query. By default the most recent kind of input alone decides visibility.
func WithConjunctive() Option {
	return optionFunc(func(c *clientConfig) {
		c.compose = "conjunctive"
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
