package directory

import (
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/mode"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/visibility"
)

// Result is one visibility pass as handed to the presentation layer.
type Result struct {
	Visible visibility.Set
	// NoResults is set when a filter is active and nothing is visible.
	NoResults bool
	Pass      mode.Pass
}

// Select returns the visible items in listing order.
func (r Result) Select(items []item.Item) []item.Item {
	out := make([]item.Item, 0, r.Visible.Count())
	for _, i := range r.Visible.Indices() {
		if i < len(items) {
			out = append(out, items[i])
		}
	}
	return out
}

// Presenter applies a visibility result to the presentation layer.
type Presenter interface {
	Present(r Result)
}

// Recorder observes coordinator activity.
type Recorder interface {
	ObservePass(pass mode.Pass, compose mode.Compose, visible int)
	SearchDropped()
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(r Result)

// Present calls f(r).
func (f PresenterFunc) Present(r Result) { f(r) }

type nopRecorder struct{}

func (nopRecorder) ObservePass(mode.Pass, mode.Compose, int) {}
func (nopRecorder) SearchDropped()                            {}
