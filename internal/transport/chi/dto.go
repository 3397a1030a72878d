package chi

import (
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/item"
	"github.com/kailas-cloud/dirmaker/internal/domain/catalog/taxonomy"
	catalogc "github.com/kailas-cloud/dirmaker/internal/usecase/catalog"
	"github.com/kailas-cloud/dirmaker/internal/usecase/view"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeViewNotFound     ErrorCode = "view_not_found"
	ErrorCodeUnknownTaxonomy  ErrorCode = "unknown_taxonomy"
	ErrorCodeTooManyViews     ErrorCode = "too_many_views"
	ErrorCodeCatalogNotLoaded ErrorCode = "catalog_not_loaded"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ItemResponse is one directory entry. Attrs carries the delimited taxonomy
// attributes used for client-side matching.
type ItemResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url,omitempty"`
	Categories  []string            `json:"categories,omitempty"`
	Taxonomies  map[string][]string `json:"taxonomies,omitempty"`
	Attrs       map[string]string   `json:"attrs,omitempty"`
}

// ItemListResponse is the body of GET /items.
type ItemListResponse struct {
	Items     []ItemResponse `json:"items"`
	Visible   int            `json:"visible"`
	Total     int            `json:"total"`
	NoResults bool           `json:"no_results"`
}

// TermResponse is one collated taxonomy value.
type TermResponse struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// TaxonomyResponse lists the terms of one facet dimension.
type TaxonomyResponse struct {
	Name  string         `json:"name"`
	Terms []TermResponse `json:"terms"`
}

// TaxonomyListResponse is the body of GET /taxonomies.
type TaxonomyListResponse struct {
	Taxonomies []TaxonomyResponse `json:"taxonomies"`
}

// CategoryListResponse is the body of GET /categories.
type CategoryListResponse struct {
	Categories []TermResponse `json:"categories"`
}

// CategoryPageResponse is the body of GET /categories/{slug}/items.
type CategoryPageResponse struct {
	Category   string         `json:"category"`
	Items      []ItemResponse `json:"items"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// ControlResponse is one facet input of a view.
type ControlResponse struct {
	Taxonomy string `json:"taxonomy"`
	Value    string `json:"value"`
	Checked  bool   `json:"checked"`
}

// ViewResponse is the observable state of a view.
type ViewResponse struct {
	ID        string            `json:"id"`
	Compose   string            `json:"compose"`
	Query     string            `json:"query"`
	Controls  []ControlResponse `json:"controls"`
	Markers   map[string]bool   `json:"markers"`
	Pass      string            `json:"pass"`
	Items     []ItemResponse    `json:"items"`
	Visible   int               `json:"visible"`
	Total     int               `json:"total"`
	NoResults bool              `json:"no_results"`
}

// SearchViewResponse is the body of POST /views/{id}/search.
type SearchViewResponse struct {
	ViewResponse
	Accepted bool `json:"accepted"`
}

// ToggleViewResponse is the body of POST /views/{id}/toggle/{taxonomy}.
type ToggleViewResponse struct {
	ViewResponse
	Applied bool `json:"applied"`
}

// SetFacetRequest is the body of PUT /views/{id}/facets/{taxonomy}/{value}.
type SetFacetRequest struct {
	Checked *bool `json:"checked"`
}

// SearchRequest is the body of POST /views/{id}/search.
type SearchRequest struct {
	Query string `json:"query"`
}

func itemToResponse(it *item.Item) ItemResponse {
	resp := ItemResponse{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		URL:         it.URL(),
		Attrs:       it.Attrs(),
	}
	for _, c := range it.Categories() {
		resp.Categories = append(resp.Categories, c.Name())
	}
	names := it.TaxonomyNames()
	if len(names) > 0 {
		resp.Taxonomies = make(map[string][]string, len(names))
		for _, tx := range names {
			terms, _ := it.Values(tx)
			vals := make([]string, len(terms))
			for i, t := range terms {
				vals[i] = t.Name()
			}
			resp.Taxonomies[tx] = vals
		}
	}
	return resp
}

func itemsToResponse(items []item.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = itemToResponse(&items[i])
	}
	return out
}

func termsToResponse(terms []taxonomy.Term) []TermResponse {
	out := make([]TermResponse, len(terms))
	for i, t := range terms {
		out[i] = TermResponse{Name: t.Name(), Slug: t.Slug(), Count: t.Count()}
	}
	return out
}

func listingToResponse(l catalogc.Listing) ItemListResponse {
	return ItemListResponse{
		Items:     itemsToResponse(l.Items),
		Visible:   l.Visible.Count(),
		Total:     l.Total,
		NoResults: l.NoResults,
	}
}

func viewToResponse(s view.Snapshot) ViewResponse {
	controls := make([]ControlResponse, len(s.Controls))
	for i, c := range s.Controls {
		controls[i] = ControlResponse{Taxonomy: c.Taxonomy, Value: c.Value, Checked: c.Checked}
	}
	return ViewResponse{
		ID:        s.ID,
		Compose:   string(s.Compose),
		Query:     s.Query,
		Controls:  controls,
		Markers:   s.Markers,
		Pass:      string(s.Result.Pass),
		Items:     itemsToResponse(s.Items),
		Visible:   s.Result.Visible.Count(),
		Total:     s.Total,
		NoResults: s.Result.NoResults,
	}
}
