package catalog

import (
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/dirmaker/internal/domain"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
)

func mustItem(t *testing.T, name string, cats []string, tx map[string][]string) item.Item {
	t.Helper()
	it, err := item.New("", name, "", "", cats, tx)
	if err != nil {
		t.Fatalf("item.New: %v", err)
	}
	return it
}

func sampleItems(t *testing.T) []item.Item {
	t.Helper()
	return []item.Item{
		mustItem(t, "zeta", []string{"Tools"}, map[string][]string{"language": {"Go"}, "license": {"MIT"}}),
		mustItem(t, "Alpha", []string{"Tools", "Libraries"}, map[string][]string{"language": {"Rust", "Go"}}),
		mustItem(t, "beta", []string{"Libraries"}, map[string][]string{"license": {"Apache 2.0"}}),
	}
}

func names(items []item.Item) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Name()
	}
	return out
}

func TestNew_DiscoversTaxonomies(t *testing.T) {
	c := New(sampleItems(t), nil)
	if !slices.Equal(c.TaxonomyNames(), []string{"language", "license"}) {
		t.Errorf("TaxonomyNames() = %v", c.TaxonomyNames())
	}
	if !c.HasTaxonomy("license") || c.HasTaxonomy("tags") {
		t.Error("HasTaxonomy mismatch")
	}
}

func TestNew_ConfiguredTaxonomies(t *testing.T) {
	c := New(sampleItems(t), []string{"tags", "language"})
	tx := c.Taxonomies()
	if len(tx) != 2 {
		t.Fatalf("expected 2 taxonomies, got %d", len(tx))
	}
	if len(tx["tags"]) != 0 {
		t.Errorf("tags = %v", tx["tags"])
	}
	lang := tx["language"]
	if len(lang) != 2 || lang[0].Name() != "Go" || lang[0].Count() != 2 || lang[1].Count() != 1 {
		t.Errorf("language collation = %+v", lang)
	}
}

func TestCategories(t *testing.T) {
	cats := New(sampleItems(t), nil).Categories()
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if cats[0].Slug() != "libraries" || cats[0].Count() != 2 {
		t.Errorf("cats[0] = %s/%d", cats[0].Slug(), cats[0].Count())
	}
}

func TestByCategory_SortedCaseInsensitive(t *testing.T) {
	got := names(New(sampleItems(t), nil).ByCategory("tools"))
	if !slices.Equal(got, []string{"Alpha", "zeta"}) {
		t.Errorf("ByCategory(tools) = %v", got)
	}
	if len(New(sampleItems(t), nil).ByCategory("missing")) != 0 {
		t.Error("expected no items for unknown category")
	}
}

func TestPaginate(t *testing.T) {
	items := sampleItems(t)

	p, err := Paginate(items, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Total != 2 || p.Current != 2 || len(p.Items) != 1 {
		t.Errorf("page = %+v", p)
	}

	p, err = Paginate(nil, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error for empty first page: %v", err)
	}
	if p.Total != 0 || len(p.Items) != 0 {
		t.Errorf("empty page = %+v", p)
	}

	_, err = Paginate(items, 3, 2)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err = Paginate(items, 0, 2); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for page 0, got %v", err)
	}

	p, _ = Paginate(items, 1, 0)
	if len(p.Items) != 3 {
		t.Errorf("default per-page should fit all items, got %d", len(p.Items))
	}
}
