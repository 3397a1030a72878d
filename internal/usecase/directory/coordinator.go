package directory

import (
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dirmaker/internal/domain"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/taxonomy"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/facet"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/mode"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/token"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/visibility"
)

// Control is a checkbox-like facet input.
type Control struct {
	Taxonomy string
	Value    string
	Checked  bool
}

// ControlsFor returns one unchecked control per collated taxonomy term, in display order.
func ControlsFor(cat catalog.Catalog) []Control {
	tx := cat.Taxonomies()
	var out []Control
	for _, name := range cat.TaxonomyNames() {
		for _, t := range tx[name] {
			out = append(out, Control{Taxonomy: name, Value: t.Slug()})
		}
	}
	return out
}

// Coordinator owns the facet inputs, bulk toggles and search query of one listing
// and pushes every recomputed visibility set to a Presenter.
// A Coordinator is not safe for concurrent use.
type Coordinator struct {
	items     []item.Item
	index     *token.Index
	controls  []Control
	byTax     map[string][]int
	markers   map[string]bool
	query     string
	minQuery  int
	compose   mode.Compose
	window    time.Duration
	debounce  *Debouncer
	presenter Presenter
	recorder  Recorder
	logger    *zap.Logger
	last      Result
}

// New creates a Coordinator over items. index may be nil, in which case items are tokenized here.
// Initially nothing is selected, the query is empty and every item is visible.
func New(items []item.Item, index *token.Index, controls []Control, presenter Presenter) *Coordinator {
	if index == nil {
		index = token.NewIndex(items)
	}
	c := &Coordinator{
		items:     items,
		index:     index,
		controls:  make([]Control, len(controls)),
		byTax:     make(map[string][]int),
		markers:   make(map[string]bool),
		minQuery:  token.DefaultMinQueryLength,
		compose:   mode.Independent,
		window:    DefaultDebounceWindow,
		presenter: presenter,
		recorder:  nopRecorder{},
		logger:    zap.NewNop(),
		last:      Result{Visible: visibility.All(len(items)), Pass: mode.Combined},
	}
	for i, ctl := range controls {
		ctl.Value = taxonomy.Slug(ctl.Value)
		c.controls[i] = ctl
		c.byTax[ctl.Taxonomy] = append(c.byTax[ctl.Taxonomy], i)
	}
	c.debounce = NewDebouncer(c.window, nil)
	return c
}

// WithCompose sets how facet and search passes combine.
func (c *Coordinator) WithCompose(m mode.Compose) *Coordinator {
	if m.IsValid() {
		c.compose = m
	}
	return c
}

// WithMinQueryLength sets the shortest query that filters anything.
func (c *Coordinator) WithMinQueryLength(n int) *Coordinator {
	if n > 0 {
		c.minQuery = n
	}
	return c
}

// WithDebounce sets the search cool-down window and the clock it is measured on.
// now may be nil for wall-clock time; a non-positive window disables debouncing.
func (c *Coordinator) WithDebounce(window time.Duration, now func() time.Time) *Coordinator {
	c.window = window
	c.debounce = NewDebouncer(window, now)
	return c
}

// WithRecorder sets the activity recorder.
func (c *Coordinator) WithRecorder(r Recorder) *Coordinator {
	if r != nil {
		c.recorder = r
	}
	return c
}

// WithLogger sets the logger.
func (c *Coordinator) WithLogger(l *zap.Logger) *Coordinator {
	if l != nil {
		c.logger = l
	}
	return c
}

// Items returns the listing the coordinator filters.
func (c *Coordinator) Items() []item.Item { return c.items }

// Compose returns the composition mode.
func (c *Coordinator) Compose() mode.Compose { return c.compose }

// Controls returns a copy of the facet inputs.
func (c *Coordinator) Controls() []Control {
	out := make([]Control, len(c.controls))
	copy(out, c.controls)
	return out
}

// Marker reports the bulk toggle state of a taxonomy ("on" after select-all).
func (c *Coordinator) Marker(tax string) bool { return c.markers[tax] }

// Query returns the raw search text.
func (c *Coordinator) Query() string { return c.query }

// Last returns the most recent visibility result.
func (c *Coordinator) Last() Result { return c.last }

// Selection returns the (taxonomy, value) pairs of the checked controls.
func (c *Coordinator) Selection() facet.Selection {
	var sel facet.Selection
	for _, ctl := range c.controls {
		if !ctl.Checked {
			continue
		}
		p, err := facet.NewPair(ctl.Taxonomy, ctl.Value)
		if err != nil {
			continue
		}
		sel = append(sel, p)
	}
	return sel
}

// SetChecked changes one facet input and recomputes the facet pass.
func (c *Coordinator) SetChecked(tax, value string, checked bool) (Result, error) {
	slug := taxonomy.Slug(value)
	for _, i := range c.byTax[tax] {
		if c.controls[i].Value != slug {
			continue
		}
		c.controls[i].Checked = checked
		return c.Recompute(mode.Facet), nil
	}
	if _, ok := c.byTax[tax]; !ok {
		return c.last, domain.NewUnknownTaxonomy(tax)
	}
	return c.last, fmt.Errorf("facet %s=%q: %w", tax, value, domain.ErrNotFound)
}

// Search records the query and recomputes the search pass, unless a previous search
// event is still within the cool-down, in which case the event is dropped and false is returned.
func (c *Coordinator) Search(query string) bool {
	c.query = query
	if !c.debounce.Accept() {
		c.recorder.SearchDropped()
		c.logger.Debug("search event dropped", zap.String("query", query), zap.Duration("window", c.window))
		return false
	}
	c.Recompute(mode.Search)
	return true
}

// ToggleAll sets every input of the taxonomy to the opposite of its marker, flips the
// marker and recomputes the facet pass. A taxonomy without inputs is left untouched
// and false is returned.
func (c *Coordinator) ToggleAll(tax string) bool {
	idx := c.byTax[tax]
	if len(idx) == 0 {
		return false
	}
	on := c.markers[tax]
	for _, i := range idx {
		c.controls[i].Checked = !on
	}
	c.markers[tax] = !on
	c.Recompute(mode.Facet)
	return true
}

// Recompute evaluates the current selection and query for the given pass,
// presents the result and returns it.
func (c *Coordinator) Recompute(pass mode.Pass) Result {
	res := c.Evaluate(pass)
	c.last = res
	c.recorder.ObservePass(pass, c.compose, res.Visible.Count())
	c.logger.Debug("visibility recomputed",
		zap.String("pass", string(pass)),
		zap.String("compose", string(c.compose)),
		zap.Int("visible", res.Visible.Count()),
		zap.Int("total", res.Visible.Len()),
	)
	if c.presenter != nil {
		c.presenter.Present(res)
	}
	return res
}

// Evaluate computes the visibility for the given pass without presenting it.
// In independent mode a facet pass ignores the query and a search pass ignores the
// selection; in conjunctive mode, and for the Combined pass, both apply.
func (c *Coordinator) Evaluate(pass mode.Pass) Result {
	useFacets := pass != mode.Search || c.compose == mode.Conjunctive
	useSearch := pass != mode.Facet || c.compose == mode.Conjunctive

	vis := visibility.All(len(c.items))
	active := false
	if useFacets {
		sel := c.Selection()
		vis = vis.Intersect(facet.Visible(c.items, sel))
		active = active || !sel.IsEmpty()
	}
	if useSearch {
		vis = vis.Intersect(c.index.Visible(c.query, c.minQuery))
		active = active || utf8.RuneCountInString(c.query) >= c.minQuery
	}
	return Result{Visible: vis, NoResults: active && vis.Empty(), Pass: pass}
}
