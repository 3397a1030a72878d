package taxonomy

import (
	"slices"
	"strings"
)

// Term is a single taxonomy value (or category) as shown to visitors.
type Term struct {
	name  string
	slug  string
	count int
}

// NewTerm creates a Term with a slug derived from name. Returns false for blank names.
func NewTerm(name string) (Term, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Term{}, false
	}
	return Term{name: name, slug: Slug(name)}, true
}

// Reconstruct creates a Term without normalization (storage hydration).
func Reconstruct(name, slug string, count int) Term {
	return Term{name: name, slug: slug, count: count}
}

// Name returns the display name.
func (t Term) Name() string { return t.name }

// Slug returns the URL/markup-safe identifier.
func (t Term) Slug() string { return t.slug }

// Count returns the number of items carrying the term (zero outside collations).
func (t Term) Count() int { return t.count }

// Slug lowercases s and replaces spaces with hyphens.
func Slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// Normalize trims, drops blanks, dedupes case-insensitively (first spelling wins)
// and sorts the resulting terms by name.
func Normalize(names []string) []Term {
	seen := make(map[string]struct{}, len(names))
	out := make([]Term, 0, len(names))
	for _, n := range names {
		t, ok := NewTerm(n)
		if !ok {
			continue
		}
		id := strings.ToLower(t.name)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, t)
	}
	SortByName(out)
	return out
}

// SortByName sorts terms by display name.
func SortByName(terms []Term) {
	slices.SortFunc(terms, func(a, b Term) int { return strings.Compare(a.name, b.name) })
}

// Counter accumulates unique terms with occurrence counts.
type Counter struct {
	terms map[string]*Term
}

// NewCounter creates an empty Counter.
func NewCounter() *Counter {
	return &Counter{terms: make(map[string]*Term)}
}

// Add counts one occurrence of t. Terms are keyed by lowercase name.
func (c *Counter) Add(t Term) {
	id := strings.ToLower(strings.TrimSpace(t.name))
	if id == "" {
		return
	}
	cur, ok := c.terms[id]
	if !ok {
		cp := t
		cp.count = 0
		cur = &cp
		c.terms[id] = cur
	}
	cur.count++
}

// Terms returns the accumulated terms sorted by name.
func (c *Counter) Terms() []Term {
	out := make([]Term, 0, len(c.terms))
	for _, t := range c.terms {
		out = append(out, *t)
	}
	SortByName(out)
	return out
}
