package facet

import (
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/visibility"
)

// Visible computes the items matching the selection.
// Within a taxonomy any selected value qualifies (OR); across taxonomies every
// selected taxonomy must match (AND). An empty selection shows every item.
// Items lacking a selected taxonomy do not match it.
func Visible(items []item.Item, sel Selection) visibility.Set {
	if sel.IsEmpty() {
		return visibility.All(len(items))
	}

	groups := sel.Groups()
	result := visibility.All(len(items))
	for _, g := range groups {
		result = result.Intersect(matchGroup(items, g))
	}
	return result
}

// matchGroup returns the items whose values for the group taxonomy intersect the group values.
func matchGroup(items []item.Item, g Group) visibility.Set {
	return visibility.FromFunc(len(items), func(i int) bool {
		terms, ok := items[i].Values(g.Taxonomy)
		if !ok {
			return false
		}
		for _, t := range terms {
			if _, hit := g.Values[t.Slug()]; hit {
				return true
			}
		}
		return false
	})
}
