package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/dirmaker/internal/db"
	"github.com/kailas-cloud/dirmaker/internal/domain"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
)

// FileSource loads items from a YAML data file: a list of entries with name,
// description, url, categories and one list per taxonomy.
type FileSource struct {
	path       string
	taxonomies []string
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string, taxonomies []string) *FileSource {
	return &FileSource{path: path, taxonomies: taxonomies}
}

// Load reads and parses the data file. A file that is empty or not a list yields no items.
func (s *FileSource) Load(_ context.Context) ([]item.Item, error) {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	return ParseYAML(data, s.taxonomies)
}

// ParseYAML parses YAML catalog data.
func ParseYAML(data []byte, taxonomies []string) ([]item.Item, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %w", domain.ErrInvalidCatalog, err)
	}
	entries, err := asEntries(raw)
	if err != nil {
		return nil, err
	}
	return toItems(entries, taxonomies)
}

func asEntries(raw any) ([]entryDTO, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, nil
	}
	out := make([]entryDTO, 0, len(list))
	for i, r := range list {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d must be a mapping, got %T", domain.ErrInvalidCatalog, i, r)
		}
		out = append(out, entryDTO(m))
	}
	return out, nil
}

// store is the consumer interface for the catalog (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// StoreSource loads items published as a JSON list under one key.
type StoreSource struct {
	store      store
	key        string
	taxonomies []string
}

// NewStoreSource creates a key-value backed source.
func NewStoreSource(s store, key string, taxonomies []string) *StoreSource {
	return &StoreSource{store: s, key: key, taxonomies: taxonomies}
}

// Load fetches and parses the catalog key.
func (s *StoreSource) Load(ctx context.Context) ([]item.Item, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("catalog key %s: %w", s.key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get catalog %s: %w", s.key, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse json: %w", domain.ErrInvalidCatalog, err)
	}
	entries, err := asEntries(raw)
	if err != nil {
		return nil, err
	}
	return toItems(entries, s.taxonomies)
}

// Publish stores items under the catalog key, replacing any previous catalog.
func (s *StoreSource) Publish(ctx context.Context, items []item.Item) error {
	entries := make([]entryDTO, len(items))
	for i := range items {
		entries[i] = fromItem(&items[i])
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("set catalog %s: %w", s.key, err)
	}
	return nil
}

// Unpublish removes the catalog key. Removing a missing key is not an error.
func (s *StoreSource) Unpublish(ctx context.Context) error {
	if err := s.store.Del(ctx, s.key); err != nil {
		return fmt.Errorf("del catalog %s: %w", s.key, err)
	}
	return nil
}
