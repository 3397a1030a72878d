package view

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dirmaker/internal/domain"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/mode"
	"github.com/kailas-cloud/dirmaker/internal/usecase/directory"
)

// Default registry limits.
const (
	DefaultTTL      = 30 * time.Minute
	DefaultMaxViews = 10000
)

// Snapshot is the observable state of a view.
type Snapshot struct {
	ID       string
	Compose  mode.Compose
	Controls []directory.Control
	Markers  map[string]bool
	Query    string
	Result   directory.Result
	// Items are the visible items of Result, in listing order.
	Items []item.Item
	Total int
}

// view serialises the events of one coordinator.
type view struct {
	mu      sync.Mutex
	id      string
	coord   *directory.Coordinator
	touched time.Time
}

func (v *view) snapshot() Snapshot {
	controls := v.coord.Controls()
	markers := make(map[string]bool)
	for _, c := range controls {
		markers[c.Taxonomy] = v.coord.Marker(c.Taxonomy)
	}
	last := v.coord.Last()
	return Snapshot{
		ID:       v.id,
		Compose:  v.coord.Compose(),
		Controls: controls,
		Markers:  markers,
		Query:    v.coord.Query(),
		Result:   last,
		Items:    last.Select(v.coord.Items()),
		Total:    len(v.coord.Items()),
	}
}

// Service is an in-memory registry of filter views.
type Service struct {
	factory CoordinatorFactory
	ttl     time.Duration
	max     int
	now     func() time.Time
	gauge   Gauge
	logger  *zap.Logger

	mu    sync.Mutex
	views map[string]*view
}

// New creates a view registry.
func New(factory CoordinatorFactory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		factory: factory,
		ttl:     DefaultTTL,
		max:     DefaultMaxViews,
		now:     time.Now,
		logger:  logger,
		views:   make(map[string]*view),
	}
}

// WithLimits sets the idle TTL and the maximum number of live views.
func (s *Service) WithLimits(ttl time.Duration, maxViews int) *Service {
	if ttl > 0 {
		s.ttl = ttl
	}
	if maxViews > 0 {
		s.max = maxViews
	}
	return s
}

// WithClock sets the clock used for expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// WithGauge sets the gauge reporting the number of live views.
func (s *Service) WithGauge(g Gauge) *Service {
	s.gauge = g
	return s
}

// report must be called with s.mu held.
func (s *Service) report() {
	if s.gauge != nil {
		s.gauge.Set(float64(len(s.views)))
	}
}

// Create opens a view with nothing selected and every item visible.
func (s *Service) Create() (Snapshot, error) {
	s.Sweep()

	id := uuid.NewString()
	v := &view{id: id, touched: s.now()}
	coord, err := s.factory.NewCoordinator(nil, s.logger.With(zap.String("view_id", id)))
	if err != nil {
		return Snapshot{}, fmt.Errorf("create coordinator: %w", err)
	}
	v.coord = coord

	s.mu.Lock()
	if len(s.views) >= s.max {
		s.mu.Unlock()
		return Snapshot{}, domain.ErrTooManyViews
	}
	s.views[id] = v
	s.report()
	s.mu.Unlock()

	s.logger.Debug("view created", zap.String("view_id", id))
	return v.snapshot(), nil
}

// Get returns the current state of a view.
func (s *Service) Get(id string) (Snapshot, error) {
	var snap Snapshot
	err := s.with(id, func(v *view) error {
		snap = v.snapshot()
		return nil
	})
	return snap, err
}

// Delete closes a view.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[id]; !ok {
		return fmt.Errorf("view %s: %w", id, domain.ErrViewNotFound)
	}
	delete(s.views, id)
	s.report()
	return nil
}

// SetChecked changes one facet input of a view.
func (s *Service) SetChecked(id, tax, value string, checked bool) (Snapshot, error) {
	var snap Snapshot
	err := s.with(id, func(v *view) error {
		if _, err := v.coord.SetChecked(tax, value, checked); err != nil {
			return fmt.Errorf("set facet: %w", err)
		}
		snap = v.snapshot()
		return nil
	})
	return snap, err
}

// Search feeds a search input event to a view. accepted is false when the event was debounced.
func (s *Service) Search(id, query string) (snap Snapshot, accepted bool, err error) {
	err = s.with(id, func(v *view) error {
		accepted = v.coord.Search(query)
		snap = v.snapshot()
		return nil
	})
	return snap, accepted, err
}

// ToggleAll flips the bulk toggle of a taxonomy. applied is false when the taxonomy has no inputs.
func (s *Service) ToggleAll(id, tax string) (snap Snapshot, applied bool, err error) {
	err = s.with(id, func(v *view) error {
		applied = v.coord.ToggleAll(tax)
		snap = v.snapshot()
		return nil
	})
	return snap, applied, err
}

// Sweep drops views idle for longer than the TTL and returns how many were dropped.
func (s *Service) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, v := range s.views {
		v.mu.Lock()
		idle := v.touched.Before(cutoff)
		v.mu.Unlock()
		if idle {
			delete(s.views, id)
			n++
		}
	}
	if n > 0 {
		s.report()
		s.logger.Debug("views expired", zap.Int("count", n))
	}
	return n
}

// Len returns the number of live views.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func (s *Service) with(id string, fn func(v *view) error) error {
	s.mu.Lock()
	v, ok := s.views[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("view %s: %w", id, domain.ErrViewNotFound)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if s.now().Sub(v.touched) > s.ttl {
		return fmt.Errorf("view %s expired: %w", id, domain.ErrViewNotFound)
	}
	v.touched = s.now()
	return fn(v)
}
