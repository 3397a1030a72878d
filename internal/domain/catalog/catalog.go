package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kailas-cloud/dirmaker/internal/domain"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/taxonomy"
)

// DefaultPerPage is the category page size used when none is configured.
const DefaultPerPage = 50

// Catalog is the static item collection loaded once per process.
type Catalog struct {
	items      []item.Item
	taxonomies []string
}

// New creates a Catalog. taxonomies lists the facet dimensions in display order;
// when empty, every taxonomy found on the items is used (sorted).
func New(items []item.Item, taxonomies []string) Catalog {
	if len(taxonomies) == 0 {
		seen := make(map[string]struct{})
		for i := range items {
			for _, n := range items[i].TaxonomyNames() {
				seen[n] = struct{}{}
			}
		}
		taxonomies = slices.Sorted(maps.Keys(seen))
	}
	return Catalog{items: items, taxonomies: slices.Clone(taxonomies)}
}

// Items returns the items in collection order. Callers must not modify the slice.
func (c Catalog) Items() []item.Item { return c.items }

// Len returns the number of items.
func (c Catalog) Len() int { return len(c.items) }

// TaxonomyNames returns the facet dimensions.
func (c Catalog) TaxonomyNames() []string { return c.taxonomies }

// HasTaxonomy reports whether name is one of the catalog's facet dimensions.
func (c Catalog) HasTaxonomy(name string) bool {
	return slices.Contains(c.taxonomies, name)
}

// Taxonomies collates the unique terms of every facet dimension with item counts.
func (c Catalog) Taxonomies() map[string][]taxonomy.Term {
	return Collate(c.items, c.taxonomies)
}

// Categories collates the unique categories with item counts.
func (c Catalog) Categories() []taxonomy.Term {
	cnt := taxonomy.NewCounter()
	for i := range c.items {
		for _, cat := range c.items[i].Categories() {
			cnt.Add(cat)
		}
	}
	return cnt.Terms()
}

// ByCategory returns the items in the category sorted by lowercase name.
func (c Catalog) ByCategory(slug string) []item.Item {
	var out []item.Item
	for i := range c.items {
		if c.items[i].InCategory(slug) {
			out = append(out, c.items[i])
		}
	}
	slices.SortStableFunc(out, func(a, b item.Item) int {
		return strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
	})
	return out
}

// Collate returns the unique terms per taxonomy across items, with counts, sorted by name.
// Every requested taxonomy is present in the result, possibly with no terms.
func Collate(items []item.Item, taxonomies []string) map[string][]taxonomy.Term {
	out := make(map[string][]taxonomy.Term, len(taxonomies))
	for _, tx := range taxonomies {
		cnt := taxonomy.NewCounter()
		for i := range items {
			terms, _ := items[i].Values(tx)
			for _, t := range terms {
				cnt.Add(t)
			}
		}
		out[tx] = cnt.Terms()
	}
	return out
}

// Page is one page of a paginated listing.
type Page struct {
	Items   []item.Item
	Current int
	Total   int
}

// Paginate returns the 1-based page of items. Page 1 of an empty listing is valid and empty.
func Paginate(items []item.Item, page, perPage int) (Page, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		return Page{}, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidRequest, page)
	}
	total := (len(items) + perPage - 1) / perPage
	if page > 1 && page > total {
		return Page{}, fmt.Errorf("page %d of %d: %w", page, total, domain.ErrNotFound)
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(items))
	return Page{Items: items[start:end], Current: page, Total: total}, nil
}
