package item

import (
	"strings"

	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/taxonomy"
)

// AttrDelimiter separates taxonomy slugs in a markup attribute.
const AttrDelimiter = "|"

// EncodeAttr renders slugs as a delimited attribute value with every slug wrapped
// in delimiters ("|go|rust|"), so a substring match on "|go|" never hits "|golang|".
// Returns "" for no terms.
func EncodeAttr(terms []taxonomy.Term) string {
	if len(terms) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(AttrDelimiter)
	for _, t := range terms {
		b.WriteString(t.Slug())
		b.WriteString(AttrDelimiter)
	}
	return b.String()
}

// DecodeAttr parses an attribute produced by EncodeAttr. Empty segments are skipped.
func DecodeAttr(attr string) []string {
	parts := strings.Split(attr, AttrDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Attrs returns the encoded attribute for every taxonomy on the item.
func (i *Item) Attrs() map[string]string {
	out := make(map[string]string, len(i.taxonomies))
	for k, terms := range i.taxonomies {
		out[k] = EncodeAttr(terms)
	}
	return out
}
