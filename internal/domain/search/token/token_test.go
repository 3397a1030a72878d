package token

import (
	"slices"
	"testing"

	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello,  World-2!", []string{"hello", "world2"}},
		{"", []string{}},
		{"   \t\n ", []string{}},
		{"!!!", []string{}},
		{"Go\tRust\nC++", []string{"go", "rust", "c"}},
		{"Café au lait", []string{"caf", "au", "lait"}},
		{"ÀB", []string{"b"}},
	}
	for _, tc := range tests {
		got := Tokenize(tc.in)
		if !slices.Equal(got, tc.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMatchAll(t *testing.T) {
	tests := []struct {
		name         string
		query, items string
		want         bool
	}{
		{"all tokens substring", "cat dog", "The dog catalog", true},
		{"one token missing", "cat dog", "The cat fox", false},
		{"substring not prefix", "log", "catalog", true},
		{"no query tokens", "", "anything", true},
		{"no item tokens", "cat", "", false},
		{"case folded", "CAT", "Concatenate", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MatchAll(Tokenize(tc.query), Tokenize(tc.items))
			if got != tc.want {
				t.Errorf("MatchAll(%q, %q) = %v, want %v", tc.query, tc.items, got, tc.want)
			}
		})
	}
}

func searchItems(t *testing.T) []item.Item {
	t.Helper()
	texts := [][2]string{
		{"The dog", "catalog of breeds"},
		{"The cat", "a fox"},
		{"ab", "nothing else"},
	}
	out := make([]item.Item, len(texts))
	for i, tx := range texts {
		it, err := item.New("", tx[0], tx[1], "", nil, nil)
		if err != nil {
			t.Fatalf("item.New: %v", err)
		}
		out[i] = it
	}
	return out
}

func TestVisible(t *testing.T) {
	items := searchItems(t)

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"short query shows all", "ab", []int{0, 1, 2}},
		{"short query ignores content", "zz", []int{0, 1, 2}},
		{"empty query shows all", "", []int{0, 1, 2}},
		{"every token must match", "cat dog", []int{0}},
		{"title and description combined", "dog breeds", []int{0}},
		{"single token", "the", []int{0, 1}},
		{"no match", "zebra", []int{}},
		{"punctuation only matches all", "!!!", []int{0, 1, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Visible(items, tc.query, 0).Indices()
			if !slices.Equal(got, tc.want) {
				t.Errorf("Visible(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestIndex_MinLengthCountsCharacters(t *testing.T) {
	idx := NewIndex(searchItems(t))
	if idx.Len() != 3 {
		t.Fatalf("Len() = %d", idx.Len())
	}
	// two runes, four bytes
	if got := idx.Visible("éé", 3); got.Count() != 3 {
		t.Errorf("expected short multi-byte query to show all, got %d", got.Count())
	}
	if got := idx.Visible("fox", 5); got.Count() != 3 {
		t.Errorf("expected query under custom min length to show all, got %d", got.Count())
	}
	if got := idx.Visible("fox", 3); !slices.Equal(got.Indices(), []int{1}) {
		t.Errorf("Visible(fox) = %v", got.Indices())
	}
}

func TestIndex_Idempotent(t *testing.T) {
	idx := NewIndex(searchItems(t))
	if !idx.Visible("cat", 0).Equal(idx.Visible("cat", 0)) {
		t.Error("identical queries must yield identical sets")
	}
}
