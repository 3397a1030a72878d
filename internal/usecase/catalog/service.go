package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dirmaker/internal/domain"
	domcat "github.com/kailas-cloud/dirmaker/internal/domain/catalog"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/taxonomy"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/facet"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/mode"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/token"
	"github.com/kailas-cloud/dirmaker/internal/usecase/directory"
)

// Service owns the loaded catalog and answers listing and filter queries over it.
type Service struct {
	source     Source
	taxonomies []string
	perPage    int
	minQuery   int
	compose    mode.Compose
	debounce   time.Duration
	recorder   directory.Recorder
	logger     *zap.Logger

	mu    sync.RWMutex
	cat   domcat.Catalog
	index *token.Index
	ready bool
}

// New creates a catalog service. taxonomies lists the facet dimensions (empty = discover).
func New(source Source, taxonomies []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:     source,
		taxonomies: taxonomies,
		perPage:    domcat.DefaultPerPage,
		minQuery:   token.DefaultMinQueryLength,
		compose:    mode.Independent,
		debounce:   directory.DefaultDebounceWindow,
		logger:     logger,
	}
}

// WithPagination sets the category page size.
func (s *Service) WithPagination(perPage int) *Service {
	if perPage > 0 {
		s.perPage = perPage
	}
	return s
}

// WithFilter sets the search and composition settings handed to coordinators.
func (s *Service) WithFilter(minQuery int, debounce time.Duration, compose mode.Compose) *Service {
	if minQuery > 0 {
		s.minQuery = minQuery
	}
	s.debounce = debounce
	if compose.IsValid() {
		s.compose = compose
	}
	return s
}

// WithRecorder sets the recorder handed to coordinators.
func (s *Service) WithRecorder(r directory.Recorder) *Service {
	s.recorder = r
	return s
}

// Load reads the collection from the source and indexes it. Safe to call again to reload.
func (s *Service) Load(ctx context.Context) error {
	start := time.Now()
	items, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	cat := domcat.New(items, s.taxonomies)
	index := token.NewIndex(items)

	s.mu.Lock()
	s.cat, s.index, s.ready = cat, index, true
	s.mu.Unlock()

	s.logger.Info("Catalog loaded",
		zap.Int("items", cat.Len()),
		zap.Strings("taxonomies", cat.TaxonomyNames()),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Ready reports whether a catalog has been loaded.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Service) snapshot() (domcat.Catalog, *token.Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return domcat.Catalog{}, nil, domain.ErrCatalogNotLoaded
	}
	return s.cat, s.index, nil
}

// Catalog returns the loaded catalog.
func (s *Service) Catalog() (domcat.Catalog, error) {
	cat, _, err := s.snapshot()
	return cat, err
}

// Taxonomies returns the collated terms of every facet dimension, in display order.
func (s *Service) Taxonomies() ([]string, map[string][]taxonomy.Term, error) {
	cat, _, err := s.snapshot()
	if err != nil {
		return nil, nil, err
	}
	return cat.TaxonomyNames(), cat.Taxonomies(), nil
}

// Categories returns the collated categories.
func (s *Service) Categories() ([]taxonomy.Term, error) {
	cat, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return cat.Categories(), nil
}

// CategoryPage returns one page of a category listing.
func (s *Service) CategoryPage(slug string, page int) (domcat.Page, error) {
	cat, _, err := s.snapshot()
	if err != nil {
		return domcat.Page{}, err
	}
	items := cat.ByCategory(slug)
	if len(items) == 0 {
		return domcat.Page{}, fmt.Errorf("category %q: %w", slug, domain.ErrNotFound)
	}
	p, err := domcat.Paginate(items, page, s.perPage)
	if err != nil {
		return domcat.Page{}, fmt.Errorf("category %q: %w", slug, err)
	}
	return p, nil
}

// Listing is a filter result together with the items it leaves visible.
type Listing struct {
	directory.Result
	Items []item.Item
	Total int
}

// Filter evaluates a selection and a query in one pass. A stateless request has no event
// order, so both constraints always apply (facet AND search).
func (s *Service) Filter(sel facet.Selection, query string) (Listing, error) {
	cat, index, err := s.snapshot()
	if err != nil {
		return Listing{}, err
	}
	for _, tx := range sel.Taxonomies() {
		if !cat.HasTaxonomy(tx) {
			return Listing{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, domain.NewUnknownTaxonomy(tx))
		}
	}

	vis := facet.Visible(cat.Items(), sel).Intersect(index.Visible(query, s.minQuery))
	active := !sel.IsEmpty() || utf8.RuneCountInString(query) >= s.minQuery
	res := directory.Result{Visible: vis, NoResults: active && vis.Empty(), Pass: mode.Combined}
	return Listing{Result: res, Items: res.Select(cat.Items()), Total: cat.Len()}, nil
}

// NewCoordinator creates a coordinator over the loaded catalog with one control per term.
func (s *Service) NewCoordinator(p directory.Presenter, logger *zap.Logger) (*directory.Coordinator, error) {
	cat, index, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return directory.New(cat.Items(), index, directory.ControlsFor(cat), p).
		WithCompose(s.compose).
		WithMinQueryLength(s.minQuery).
		WithDebounce(s.debounce, nil).
		WithRecorder(s.recorder).
		WithLogger(logger), nil
}
