package dirmaker

import (
	"errors"
	"testing"
	"time"
)

func TestFilter_Interactive(t *testing.T) {
	c := newTestClient(t, WithDebounce(time.Hour))

	var seen []Result
	f, err := c.NewFilter(func(r Result) { seen = append(seen, r) })
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	if got := f.Result(); len(got.Items) != 3 {
		t.Fatalf("initial items = %v", names(got.Items))
	}
	if len(f.Controls()) != 4 {
		t.Errorf("controls = %+v", f.Controls())
	}

	res, err := f.Check("language", "Rust", true)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(res.Items) != 2 || res.Items[0].Name != "Axum" {
		t.Errorf("after check = %v", names(res.Items))
	}

	if !f.Search("chi") {
		t.Fatal("first search should be applied")
	}
	if got := names(f.Result().Items); len(got) != 1 || got[0] != "Chi" {
		t.Errorf("search pass should replace the facet result, got %v", got)
	}
	if f.Search("axum") {
		t.Error("search within the window should be dropped")
	}
	if f.Query() != "axum" {
		t.Errorf("query = %q", f.Query())
	}

	if !f.ToggleAll("license") {
		t.Fatal("toggle should apply")
	}
	if got := names(f.Result().Items); len(got) != 2 {
		t.Errorf("after toggle = %v", got)
	}
	if f.ToggleAll("stars") {
		t.Error("toggle on a taxonomy without inputs should not apply")
	}

	if len(seen) != 3 {
		t.Errorf("expected 3 change notifications, got %d", len(seen))
	}
}

func TestFilter_Conjunctive(t *testing.T) {
	c := newTestClient(t, WithConjunctive(), WithDebounce(0))
	f, err := c.NewFilter(nil)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}

	_, _ = f.Check("language", "go", true)
	f.Search("router")
	if got := names(f.Result().Items); len(got) != 1 || got[0] != "Chi" {
		t.Errorf("items = %v", got)
	}

	f.Search("tokio")
	if !f.Result().NoResults {
		t.Error("expected no results")
	}
}

func TestFilter_CheckUnknown(t *testing.T) {
	c := newTestClient(t)
	f, _ := c.NewFilter(nil)

	if _, err := f.Check("stars", "5", true); !errors.Is(err, ErrUnknownTaxonomy) {
		t.Errorf("expected ErrUnknownTaxonomy, got %v", err)
	}
	if _, err := f.Check("language", "cobol", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
