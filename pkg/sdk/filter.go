package dirmaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/dirmaker/internal/usecase/directory"
)

// Filter is an interactive filter: a set of facet inputs, per-taxonomy bulk
// toggles and a debounced search box over the catalog. Every accepted input
// recomputes visibility from scratch and reports it to the change callback.
// A Filter is safe for concurrent use; the callback runs synchronously and
// must not call back into the Filter.
type Filter struct {
	mu    sync.Mutex
	coord *directory.Coordinator
	obs   *observer
}

// NewFilter creates an interactive filter over the current catalog with nothing
// selected and every item visible. onChange may be nil.
func (c *Client) NewFilter(onChange func(Result)) (*Filter, error) {
	f := &Filter{obs: c.obs}
	presenter := directory.PresenterFunc(func(r directory.Result) {
		if onChange != nil {
			onChange(fromInternalResult(r, f.coord.Items()))
		}
	})
	coord, err := c.catalog.NewCoordinator(presenter, nil)
	if err != nil {
		return nil, fmt.Errorf("new filter: %w", err)
	}
	f.coord = coord
	return f, nil
}

// Check sets one facet input and recomputes.
func (f *Filter) Check(taxonomy, value string, checked bool) (_ Result, err error) {
	start := time.Now()
	defer func() { f.obs.observe("filter.check", start, err) }()

	f.mu.Lock()
	defer f.mu.Unlock()
	r, err := f.coord.SetChecked(taxonomy, value, checked)
	if err != nil {
		return Result{}, fmt.Errorf("check: %w", err)
	}
	return fromInternalResult(r, f.coord.Items()), nil
}

// Search records the query and recomputes, unless the previous search event is
// still within the debounce window. Returns whether the event was applied.
func (f *Filter) Search(query string) bool {
	start := time.Now()
	defer func() { f.obs.observe("filter.search", start, nil) }()

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.coord.Search(query)
}

// ToggleAll checks every input of the taxonomy, or unchecks them all when the
// previous toggle checked them. Returns false for a taxonomy without inputs.
func (f *Filter) ToggleAll(taxonomy string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.coord.ToggleAll(taxonomy)
}

// Result returns the most recent filter result.
func (f *Filter) Result() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fromInternalResult(f.coord.Last(), f.coord.Items())
}

// Controls returns the facet inputs.
func (f *Filter) Controls() []Control {
	f.mu.Lock()
	defer f.mu.Unlock()
	ctls := f.coord.Controls()
	out := make([]Control, len(ctls))
	for i, c := range ctls {
		out[i] = Control{Taxonomy: c.Taxonomy, Value: c.Value, Checked: c.Checked}
	}
	return out
}

// Query returns the last search text, including debounced events.
func (f *Filter) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.coord.Query()
}
