package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogChecker reports whether the catalog is loaded.
type CatalogChecker interface {
	Ready() bool
}
