package dirmaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/dirmaker/internal/db"
	dbRedis "github.com/kailas-cloud/dirmaker/internal/db/redis"
	"github.com/kailas-cloud/dirmaker/internal/domain"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/facet"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/mode"
	catalogrepo "github.com/kailas-cloud/dirmaker/internal/repository/catalog"
	cataloguc "github.com/kailas-cloud/dirmaker/internal/usecase/catalog"
	"github.com/kailas-cloud/dirmaker/internal/usecase/directory"
	healthuc "github.com/kailas-cloud/dirmaker/internal/usecase/health"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the dirmaker SDK entry point.
type Client struct {
	store     db.Store
	catalog   *cataloguc.Service
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and loads the catalog.
// The provided context is used for the readiness check and the initial load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		key:      defaultCatalogKey,
		debounce: directory.DefaultDebounceWindow,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	source, store, err := createSource(cfg)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("dirmaker: database not ready: %w", err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	c := wireClient(source, store, cfg, obs)
	if err := c.Reload(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func createSource(cfg *clientConfig) (cataloguc.Source, db.Store, error) {
	switch cfg.source {
	case sourceFile:
		return catalogrepo.NewFileSource(cfg.path, cfg.taxonomies), nil, nil
	case sourceYAML:
		return &yamlSource{data: cfg.data, taxonomies: cfg.taxonomies}, nil, nil
	case sourceValkey, sourceRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("dirmaker: create %s store: %w", cfg.source, err)
		}
		return catalogrepo.NewStoreSource(s, cfg.key, cfg.taxonomies), s, nil
	case "":
		return nil, nil, errors.New("dirmaker: catalog source required (use WithFile, WithYAML, WithValkey or WithRedis)")
	default:
		return nil, nil, fmt.Errorf("dirmaker: unknown catalog source %q", cfg.source)
	}
}

func wireClient(source cataloguc.Source, store db.Store, cfg *clientConfig, obs *observer) *Client {
	catalog := cataloguc.New(source, cfg.taxonomies, nil).
		WithPagination(cfg.perPage).
		WithFilter(cfg.minQuery, cfg.debounce, mode.Compose(cfg.compose))

	// nil interface, not a typed nil pointer, when there is no store
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:     store,
		catalog:   catalog,
		healthSvc: healthuc.New(catalog, pinger),
		obs:       obs,
	}
}

// yamlSource parses catalog data held in memory.
type yamlSource struct {
	data       []byte
	taxonomies []string
}

func (s *yamlSource) Load(_ context.Context) ([]item.Item, error) {
	items, err := catalogrepo.ParseYAML(s.data, s.taxonomies)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return items, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity. Clients without a store always succeed.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if c.store == nil {
		return nil
	}
	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Reload reads the catalog from its source again. Interactive filters created
// before the reload keep filtering the catalog they were created over.
func (c *Client) Reload(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("catalog.load", start, err) }()

	if err = c.catalog.Load(ctx); err != nil {
		return fmt.Errorf("dirmaker: %w", err)
	}
	return nil
}

// Items returns every item of the catalog in data file order.
func (c *Client) Items() ([]Item, error) {
	cat, err := c.catalog.Catalog()
	if err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}
	return fromInternalItems(cat.Items()), nil
}

// Taxonomies returns the collated terms of every facet dimension.
func (c *Client) Taxonomies() ([]Taxonomy, error) {
	names, terms, err := c.catalog.Taxonomies()
	if err != nil {
		return nil, fmt.Errorf("taxonomies: %w", err)
	}
	out := make([]Taxonomy, len(names))
	for i, name := range names {
		out[i] = Taxonomy{Name: name, Terms: fromInternalTerms(terms[name])}
	}
	return out, nil
}

// Categories returns the collated categories.
func (c *Client) Categories() ([]Term, error) {
	cats, err := c.catalog.Categories()
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return fromInternalTerms(cats), nil
}

// CategoryPage returns one page of a category listing, sorted by name.
func (c *Client) CategoryPage(slug string, page int) (_ Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("category.page", start, err) }()

	p, err := c.catalog.CategoryPage(slug, page)
	if err != nil {
		return Page{}, fmt.Errorf("category page: %w", err)
	}
	return Page{Items: fromInternalItems(p.Items), Page: p.Current, TotalPages: p.Total}, nil
}

// Filter returns the items matching every facet group and the query.
func (c *Client) Filter(facets []Facet, query string) (_ Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("filter", start, err) }()

	sel, err := toSelection(facets)
	if err != nil {
		return Result{}, fmt.Errorf("filter: %w", err)
	}
	l, err := c.catalog.Filter(sel, query)
	if err != nil {
		return Result{}, fmt.Errorf("filter: %w", err)
	}
	return Result{
		Items:     fromInternalItems(l.Items),
		Indices:   l.Visible.Indices(),
		Total:     l.Total,
		NoResults: l.NoResults,
	}, nil
}

func toSelection(facets []Facet) (facet.Selection, error) {
	sel := make(facet.Selection, 0, len(facets))
	for _, f := range facets {
		p, err := facet.NewPair(f.Taxonomy, f.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		sel = append(sel, p)
	}
	return sel, nil
}
