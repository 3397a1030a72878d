package dirmaker

import (
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/taxonomy"
	"github.com/kailas-cloud/dirmaker/internal/usecase/directory"
)

// Item is one directory entry.
type Item struct {
	ID          string
	Name        string
	Description string
	URL         string
	Categories  []string
	Taxonomies  map[string][]string
}

// Term is a collated taxonomy value or category with its item count.
type Term struct {
	Name  string
	Slug  string
	Count int
}

// Taxonomy lists the terms of one facet dimension.
type Taxonomy struct {
	Name  string
	Terms []Term
}

// Facet selects one value of a taxonomy. Values compare by slug,
// so "Apache 2" and "apache-2" select the same thing.
type Facet struct {
	Taxonomy string
	Value    string
}

// Control is one facet input of an interactive filter.
type Control struct {
	Taxonomy string
	Value    string
	Checked  bool
}

// Result is the outcome of a filter pass.
type Result struct {
	Items []Item
	// Positions of Items in the catalog.
	Indices   []int
	Total     int
	NoResults bool
}

// Page is one page of a category listing.
type Page struct {
	Items      []Item
	Page       int
	TotalPages int
}

func fromInternalItem(it *item.Item) Item {
	out := Item{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		URL:         it.URL(),
		Categories:  termNames(it.Categories()),
		Taxonomies:  make(map[string][]string),
	}
	for _, tx := range it.TaxonomyNames() {
		terms, _ := it.Values(tx)
		out.Taxonomies[tx] = termNames(terms)
	}
	return out
}

func fromInternalItems(items []item.Item) []Item {
	out := make([]Item, len(items))
	for i := range items {
		out[i] = fromInternalItem(&items[i])
	}
	return out
}

func fromInternalTerms(terms []taxonomy.Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{Name: t.Name(), Slug: t.Slug(), Count: t.Count()}
	}
	return out
}

func fromInternalResult(r directory.Result, items []item.Item) Result {
	return Result{
		Items:     fromInternalItems(r.Select(items)),
		Indices:   r.Visible.Indices(),
		Total:     len(items),
		NoResults: r.NoResults,
	}
}

func termNames(terms []taxonomy.Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Name()
	}
	return out
}
