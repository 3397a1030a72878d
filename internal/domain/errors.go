package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrViewNotFound signals a missing or expired view.
	ErrViewNotFound = errors.New("view not found")
	// ErrInvalidCatalog signals malformed catalog data.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrInvalidRequest signals a malformed filter or search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownTaxonomy signals a facet on a taxonomy the catalog does not define.
	ErrUnknownTaxonomy = errors.New("unknown taxonomy")
	// ErrTooManyViews signals the view registry is full.
	ErrTooManyViews = errors.New("too many views")
	// ErrCatalogNotLoaded signals a request served before the catalog was loaded.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)

// UnknownTaxonomyError wraps ErrUnknownTaxonomy with the offending name.
type UnknownTaxonomyError struct {
	Taxonomy string
}

func (e *UnknownTaxonomyError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownTaxonomy.Error(), e.Taxonomy)
}

func (e *UnknownTaxonomyError) Unwrap() error { return ErrUnknownTaxonomy }

// NewUnknownTaxonomy creates an unknown taxonomy error.
func NewUnknownTaxonomy(name string) error {
	return &UnknownTaxonomyError{Taxonomy: name}
}
