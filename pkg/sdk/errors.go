package dirmaker

import "github.com/kailas-cloud/dirmaker/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrInvalidCatalog   = domain.ErrInvalidCatalog
	ErrInvalidRequest   = domain.ErrInvalidRequest
	ErrUnknownTaxonomy  = domain.ErrUnknownTaxonomy
	ErrCatalogNotLoaded = domain.ErrCatalogNotLoaded
)
