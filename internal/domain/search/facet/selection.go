package facet

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/taxonomy"
)

// Pair is one chosen (taxonomy, value) facet.
type Pair struct {
	taxonomy string
	value    string
}

// NewPair validates and creates a Pair. The value is compared by slug.
func NewPair(tax, value string) (Pair, error) {
	if tax == "" {
		return Pair{}, fmt.Errorf("facet taxonomy is required")
	}
	slug := taxonomy.Slug(value)
	if slug == "" {
		return Pair{}, fmt.Errorf("facet value is required for taxonomy %q", tax)
	}
	return Pair{taxonomy: tax, value: slug}, nil
}

// Taxonomy returns the facet dimension.
func (p Pair) Taxonomy() string { return p.taxonomy }

// Value returns the value slug.
func (p Pair) Value() string { return p.value }

// Selection is the list of currently chosen facets. Duplicates are harmless.
type Selection []Pair

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool { return len(s) == 0 }

// Group is the selected values of one taxonomy.
type Group struct {
	Taxonomy string
	Values   map[string]struct{}
}

// Groups groups the selection by taxonomy, in order of first appearance.
func (s Selection) Groups() []Group {
	var groups []Group
	idx := make(map[string]int)
	for _, p := range s {
		i, ok := idx[p.taxonomy]
		if !ok {
			i = len(groups)
			idx[p.taxonomy] = i
			groups = append(groups, Group{Taxonomy: p.taxonomy, Values: make(map[string]struct{})})
		}
		groups[i].Values[p.value] = struct{}{}
	}
	return groups
}

// Taxonomies returns the distinct selected taxonomies, sorted.
func (s Selection) Taxonomies() []string {
	out := make([]string, 0, len(s))
	for _, p := range s {
		if !slices.Contains(out, p.taxonomy) {
			out = append(out, p.taxonomy)
		}
	}
	slices.Sort(out)
	return out
}
