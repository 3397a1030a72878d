package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/dirmaker/internal/domain"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
)

// reservedKeys are entry fields that are never treated as taxonomies.
var reservedKeys = []string{"id", "name", "description", "url", "categories"}

// entryDTO is the storage representation of one item. Taxonomies are stored as
// top-level list fields next to the fixed ones, as in the directory data file.
type entryDTO map[string]any

// toItem converts a raw entry. When taxonomies is empty, every list-valued
// non-reserved field is taken as a taxonomy.
func (e entryDTO) toItem(pos int, taxonomies []string) (item.Item, error) {
	name, err := e.str("name")
	if err != nil {
		return item.Item{}, entryErr(pos, err)
	}
	id, err := e.str("id")
	if err != nil {
		return item.Item{}, entryErr(pos, err)
	}
	desc, err := e.str("description")
	if err != nil {
		return item.Item{}, entryErr(pos, err)
	}
	url, err := e.str("url")
	if err != nil {
		return item.Item{}, entryErr(pos, err)
	}
	cats, err := e.list("categories")
	if err != nil {
		return item.Item{}, entryErr(pos, err)
	}

	keys := taxonomies
	if len(keys) == 0 {
		for k, v := range e {
			if _, isList := v.([]any); isList && !slices.Contains(reservedKeys, k) {
				keys = append(keys, k)
			}
		}
	}

	tx := make(map[string][]string, len(keys))
	for _, k := range keys {
		vals, err := e.list(k)
		if err != nil {
			return item.Item{}, entryErr(pos, err)
		}
		tx[k] = vals
	}

	it, err := item.New(id, strings.TrimSpace(name), strings.TrimSpace(desc), strings.TrimSpace(url), cats, tx)
	if err != nil {
		return item.Item{}, entryErr(pos, err)
	}
	return it, nil
}

func (e entryDTO) str(key string) (string, error) {
	v, ok := e[key]
	if !ok || v == nil {
		return "", nil
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case int, int64, float64, bool:
		return fmt.Sprint(s), nil
	default:
		return "", fmt.Errorf("field %q must be a string, got %T", key, v)
	}
}

func (e entryDTO) list(key string) ([]string, error) {
	v, ok := e[key]
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q must be a list, got %T", key, v)
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		switch s := r.(type) {
		case string:
			out = append(out, s)
		case int, int64, float64, bool:
			out = append(out, fmt.Sprint(s))
		default:
			return nil, fmt.Errorf("field %q: values must be strings, got %T", key, r)
		}
	}
	return out, nil
}

func entryErr(pos int, err error) error {
	return fmt.Errorf("%w: entry %d: %w", domain.ErrInvalidCatalog, pos, err)
}

func toItems(entries []entryDTO, taxonomies []string) ([]item.Item, error) {
	items := make([]item.Item, 0, len(entries))
	for i, e := range entries {
		it, err := e.toItem(i, taxonomies)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// fromItem renders an item back into the data file layout.
func fromItem(it *item.Item) entryDTO {
	e := entryDTO{
		"id":          it.ID(),
		"name":        it.Name(),
		"description": it.Description(),
		"url":         it.URL(),
	}
	cats := make([]any, 0, len(it.Categories()))
	for _, c := range it.Categories() {
		cats = append(cats, c.Name())
	}
	e["categories"] = cats
	for k, terms := range it.Taxonomies() {
		vals := make([]any, 0, len(terms))
		for _, t := range terms {
			vals = append(vals, t.Name())
		}
		e[k] = vals
	}
	return e
}
