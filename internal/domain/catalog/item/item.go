package item

import (
	"fmt"
	"maps"
	"slices"

	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/taxonomy"
)

// Item is a directory entry (immutable value object).
type Item struct {
	id          string
	name        string
	description string
	url         string
	categories  []taxonomy.Term
	taxonomies  map[string][]taxonomy.Term
}

// New validates and creates an Item.
// Name is required. Categories and taxonomy values are trimmed, deduplicated and sorted by name.
// id defaults to the slug of the name.
func New(id, name, description, url string, categories []string, taxonomies map[string][]string) (Item, error) {
	if name == "" {
		return Item{}, fmt.Errorf("item name is required")
	}
	if id == "" {
		id = taxonomy.Slug(name)
	}

	tx := make(map[string][]taxonomy.Term, len(taxonomies))
	for k, vals := range taxonomies {
		if k == "" {
			return Item{}, fmt.Errorf("item %q: taxonomy name is required", name)
		}
		tx[k] = taxonomy.Normalize(vals)
	}

	return Item{
		id:          id,
		name:        name,
		description: description,
		url:         url,
		categories:  taxonomy.Normalize(categories),
		taxonomies:  tx,
	}, nil
}

// Reconstruct creates an Item without validation (storage hydration).
func Reconstruct(
	id, name, description, url string,
	categories []taxonomy.Term, taxonomies map[string][]taxonomy.Term,
) Item {
	return Item{
		id: id, name: name, description: description, url: url,
		categories: categories, taxonomies: taxonomies,
	}
}

// ID returns the item identifier.
func (i *Item) ID() string { return i.id }

// Name returns the title.
func (i *Item) Name() string { return i.name }

// Description returns the description text.
func (i *Item) Description() string { return i.description }

// URL returns the item link.
func (i *Item) URL() string { return i.url }

// Categories returns the item categories sorted by name.
func (i *Item) Categories() []taxonomy.Term { return i.categories }

// Taxonomies returns a copy of the taxonomy map.
func (i *Item) Taxonomies() map[string][]taxonomy.Term { return maps.Clone(i.taxonomies) }

// TaxonomyNames returns the sorted taxonomy names present on the item.
func (i *Item) TaxonomyNames() []string {
	return slices.Sorted(maps.Keys(i.taxonomies))
}

// Values returns the terms for one taxonomy. ok is false when the item lacks the taxonomy.
func (i *Item) Values(tax string) (terms []taxonomy.Term, ok bool) {
	terms, ok = i.taxonomies[tax]
	return terms, ok
}

// HasValue reports whether the item carries the slug under the taxonomy.
func (i *Item) HasValue(tax, slug string) bool {
	for _, t := range i.taxonomies[tax] {
		if t.Slug() == slug {
			return true
		}
	}
	return false
}

// InCategory reports whether the item belongs to the category slug.
func (i *Item) InCategory(slug string) bool {
	for _, c := range i.categories {
		if c.Slug() == slug {
			return true
		}
	}
	return false
}

// SearchText returns the text searched by free-text queries.
func (i *Item) SearchText() string {
	return i.name + " " + i.description
}
