package catalog

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/kailas-cloud/dirmaker/internal/domain"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/facet"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/mode"
	"github.com/kailas-cloud/dirmaker/internal/usecase/directory"
)

// --- Mocks ---

type mockSource struct {
	items []item.Item
	err   error
	calls int
}

func (m *mockSource) Load(_ context.Context) ([]item.Item, error) {
	m.calls++
	return m.items, m.err
}

func testItems(t *testing.T) []item.Item {
	t.Helper()
	specs := []struct {
		name, desc string
		cats       []string
		tx         map[string][]string
	}{
		{"Gopher tools", "A dog catalog", []string{"Tools"}, map[string][]string{"language": {"Go"}}},
		{"Rusty", "The cat fox", []string{"Tools"}, map[string][]string{"language": {"Rust"}}},
		{"Polyglot", "dog and cat", []string{"Libraries"}, map[string][]string{"language": {"Go", "Rust"}}},
	}
	out := make([]item.Item, len(specs))
	for i, s := range specs {
		it, err := item.New("", s.name, s.desc, "", s.cats, s.tx)
		if err != nil {
			t.Fatalf("item.New: %v", err)
		}
		out[i] = it
	}
	return out
}

func loadedService(t *testing.T) *Service {
	t.Helper()
	svc := New(&mockSource{items: testItems(t)}, nil, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc
}

func pair(t *testing.T, tax, value string) facet.Pair {
	t.Helper()
	p, err := facet.NewPair(tax, value)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// --- Tests ---

func TestNotLoaded(t *testing.T) {
	svc := New(&mockSource{}, nil, nil)
	if svc.Ready() {
		t.Error("service should not be ready before Load")
	}
	if _, err := svc.Categories(); !errors.Is(err, domain.ErrCatalogNotLoaded) {
		t.Errorf("expected ErrCatalogNotLoaded, got %v", err)
	}
	if _, err := svc.Filter(nil, ""); !errors.Is(err, domain.ErrCatalogNotLoaded) {
		t.Errorf("expected ErrCatalogNotLoaded, got %v", err)
	}
	if _, err := svc.NewCoordinator(nil, nil); !errors.Is(err, domain.ErrCatalogNotLoaded) {
		t.Errorf("expected ErrCatalogNotLoaded, got %v", err)
	}
}

func TestLoad_SourceError(t *testing.T) {
	boom := errors.New("boom")
	svc := New(&mockSource{err: boom}, nil, nil)
	if err := svc.Load(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected source error, got %v", err)
	}
	if svc.Ready() {
		t.Error("failed load must not mark the service ready")
	}
}

func TestTaxonomiesAndCategories(t *testing.T) {
	svc := loadedService(t)

	names, tx, err := svc.Taxonomies()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(names, []string{"language"}) || len(tx["language"]) != 2 {
		t.Errorf("taxonomies = %v %v", names, tx)
	}

	cats, err := svc.Categories()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cats) != 2 || cats[1].Slug() != "tools" || cats[1].Count() != 2 {
		t.Errorf("categories = %+v", cats)
	}
}

func TestCategoryPage(t *testing.T) {
	svc := loadedService(t).WithPagination(1)

	p, err := svc.CategoryPage("tools", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Total != 2 || len(p.Items) != 1 || p.Items[0].Name() != "Rusty" {
		t.Errorf("page = %+v", p)
	}

	if _, err := svc.CategoryPage("nope", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown category, got %v", err)
	}
	if _, err := svc.CategoryPage("tools", 3); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for page out of range, got %v", err)
	}
}

func TestFilter_BothConstraintsApply(t *testing.T) {
	svc := loadedService(t)

	tests := []struct {
		name      string
		sel       facet.Selection
		query     string
		want      []int
		noResults bool
	}{
		{"nothing", nil, "", []int{0, 1, 2}, false},
		{"facet only", facet.Selection{pair(t, "language", "rust")}, "", []int{1, 2}, false},
		{"search only", nil, "dog", []int{0, 2}, false},
		{"both", facet.Selection{pair(t, "language", "rust")}, "dog", []int{2}, false},
		{"short query ignored", facet.Selection{pair(t, "language", "go")}, "zz", []int{0, 2}, false},
		{"empty result", facet.Selection{pair(t, "language", "go")}, "fox", []int{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Filter(tc.sel, tc.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(res.Visible.Indices(), tc.want) {
				t.Errorf("visible = %v, want %v", res.Visible.Indices(), tc.want)
			}
			if res.NoResults != tc.noResults {
				t.Errorf("NoResults = %v", res.NoResults)
			}
			if len(res.Items) != len(tc.want) || res.Total != 3 {
				t.Errorf("items = %d of %d", len(res.Items), res.Total)
			}
		})
	}
}

func TestFilter_UnknownTaxonomy(t *testing.T) {
	svc := loadedService(t)
	_, err := svc.Filter(facet.Selection{pair(t, "license", "mit")}, "")
	if !errors.Is(err, domain.ErrUnknownTaxonomy) || !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected unknown taxonomy invalid request, got %v", err)
	}
}

func TestNewCoordinator_UsesSettings(t *testing.T) {
	svc := loadedService(t).WithFilter(4, 0, mode.Conjunctive)

	var presented []directory.Result
	c, err := svc.NewCoordinator(directory.PresenterFunc(func(r directory.Result) {
		presented = append(presented, r)
	}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Compose() != mode.Conjunctive {
		t.Errorf("compose = %q", c.Compose())
	}
	if len(c.Controls()) != 2 {
		t.Errorf("controls = %d", len(c.Controls()))
	}

	c.Search("dog")
	if c.Last().Visible.Count() != 3 {
		t.Error("query under min length 4 should show all")
	}
	if !c.Search("dogs") {
		t.Error("debounce disabled: second search must be accepted")
	}
	if len(presented) != 2 {
		t.Errorf("presented = %d", len(presented))
	}
}

func TestWithFilter_KeepsDefaultsOnInvalid(t *testing.T) {
	svc := loadedService(t).WithFilter(0, time.Second, "bogus")
	c, err := svc.NewCoordinator(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Compose() != mode.Independent {
		t.Errorf("compose = %q", c.Compose())
	}
}
