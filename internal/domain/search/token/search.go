package token

import (
	"unicode/utf8"

	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/visibility"
)

// DefaultMinQueryLength is the shortest query that filters anything.
const DefaultMinQueryLength = 3

// Index holds the pre-tokenized search text of every item, in collection order.
type Index struct {
	tokens [][]string
}

// NewIndex tokenizes the title and description of every item.
func NewIndex(items []item.Item) *Index {
	tokens := make([][]string, len(items))
	for i := range items {
		tokens[i] = Tokenize(items[i].SearchText())
	}
	return &Index{tokens: tokens}
}

// Len returns the number of indexed items.
func (x *Index) Len() int { return len(x.tokens) }

// Tokens returns the tokens of item i.
func (x *Index) Tokens(i int) []string { return x.tokens[i] }

// Visible computes the items matching query. Queries shorter than minLen characters
// show every item; minLen <= 0 uses DefaultMinQueryLength.
func (x *Index) Visible(query string, minLen int) visibility.Set {
	if minLen <= 0 {
		minLen = DefaultMinQueryLength
	}
	if utf8.RuneCountInString(query) < minLen {
		return visibility.All(len(x.tokens))
	}
	q := Tokenize(query)
	return visibility.FromFunc(len(x.tokens), func(i int) bool {
		return MatchAll(q, x.tokens[i])
	})
}

// Visible tokenizes items and computes the items matching query.
// Use an Index when the same items are searched repeatedly.
func Visible(items []item.Item, query string, minLen int) visibility.Set {
	return NewIndex(items).Visible(query, minLen)
}
