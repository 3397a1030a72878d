package catalog

import (
	"context"

	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
)

// Source loads the static item collection.
type Source interface {
	Load(ctx context.Context) ([]item.Item, error)
}
