package view

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/dirmaker/internal/usecase/directory"
)

// CoordinatorFactory builds a coordinator that presents to p.
type CoordinatorFactory interface {
	NewCoordinator(p directory.Presenter, logger *zap.Logger) (*directory.Coordinator, error)
}

// Gauge tracks the number of live views.
type Gauge interface {
	Set(v float64)
}
