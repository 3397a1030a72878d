package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dirmaker/internal/domain"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/facet"
	logpkg "github.com/kailas-cloud/dirmaker/internal/logger"
	catalogc "github.com/kailas-cloud/dirmaker/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/dirmaker/internal/usecase/health"
	"github.com/kailas-cloud/dirmaker/internal/usecase/view"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the directory HTTP API.
type Server struct {
	catalog       *catalogc.Service
	views         *view.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *catalogc.Service,
	views *view.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		catalog: catalog,
		views:   views,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		unknownTaxonomyHandler,
		sentinelHandler(domain.ErrViewNotFound, http.StatusNotFound, ErrorCodeViewNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrTooManyViews, http.StatusTooManyRequests, ErrorCodeTooManyViews),
		sentinelHandler(domain.ErrCatalogNotLoaded, http.StatusServiceUnavailable, ErrorCodeCatalogNotLoaded),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/items", s.ListItems)
	r.Get("/taxonomies", s.ListTaxonomies)
	r.Get("/categories", s.ListCategories)
	r.Get("/categories/{slug}/items", s.ListCategoryItems)

	r.Route("/views", func(r gochi.Router) {
		r.Post("/", s.CreateView)
		r.Route("/{id}", func(r gochi.Router) {
			r.Get("/", s.GetView)
			r.Delete("/", s.DeleteView)
			r.Put("/facets/{taxonomy}/{value}", s.SetFacet)
			r.Post("/search", s.SearchView)
			r.Post("/toggle/{taxonomy}", s.ToggleView)
		})
	})
}

// ListItems handles GET /items?q=&f=taxonomy:value.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sel, err := selectionFromQuery(q["f"])
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	listing, err := s.catalog.Filter(sel, q.Get("q"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listingToResponse(listing))
}

// ListTaxonomies handles GET /taxonomies.
func (s *Server) ListTaxonomies(w http.ResponseWriter, r *http.Request) {
	names, terms, err := s.catalog.Taxonomies()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := TaxonomyListResponse{Taxonomies: make([]TaxonomyResponse, len(names))}
	for i, name := range names {
		resp.Taxonomies[i] = TaxonomyResponse{Name: name, Terms: termsToResponse(terms[name])}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.Categories()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: termsToResponse(cats)})
}

// ListCategoryItems handles GET /categories/{slug}/items?page=.
func (s *Server) ListCategoryItems(w http.ResponseWriter, r *http.Request) {
	slug := pathParam(r, "slug")

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "page must be an integer")
			return
		}
		page = n
	}

	p, err := s.catalog.CategoryPage(slug, page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CategoryPageResponse{
		Category:   slug,
		Items:      itemsToResponse(p.Items),
		Page:       p.Current,
		TotalPages: p.Total,
	})
}

// CreateView handles POST /views.
func (s *Server) CreateView(w http.ResponseWriter, r *http.Request) {
	snap, err := s.views.Create()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/views/"+snap.ID)
	writeJSON(w, http.StatusCreated, viewToResponse(snap))
}

// GetView handles GET /views/{id}.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	snap, err := s.views.Get(pathParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(snap))
}

// DeleteView handles DELETE /views/{id}.
func (s *Server) DeleteView(w http.ResponseWriter, r *http.Request) {
	if err := s.views.Delete(pathParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetFacet handles PUT /views/{id}/facets/{taxonomy}/{value}.
func (s *Server) SetFacet(w http.ResponseWriter, r *http.Request) {
	var req SetFacetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Checked == nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "checked is required")
		return
	}

	snap, err := s.views.SetChecked(
		pathParam(r, "id"), pathParam(r, "taxonomy"), pathParam(r, "value"), *req.Checked,
	)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(snap))
}

// SearchView handles POST /views/{id}/search.
func (s *Server) SearchView(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	snap, accepted, err := s.views.Search(pathParam(r, "id"), req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchViewResponse{ViewResponse: viewToResponse(snap), Accepted: accepted})
}

// ToggleView handles POST /views/{id}/toggle/{taxonomy}.
func (s *Server) ToggleView(w http.ResponseWriter, r *http.Request) {
	snap, applied, err := s.views.ToggleAll(pathParam(r, "id"), pathParam(r, "taxonomy"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleViewResponse{ViewResponse: viewToResponse(snap), Applied: applied})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// selectionFromQuery parses repeated f=taxonomy:value parameters.
func selectionFromQuery(raw []string) (facet.Selection, error) {
	var sel facet.Selection
	for _, f := range raw {
		tax, value, ok := strings.Cut(f, ":")
		if !ok {
			return nil, errors.New("filter must be taxonomy:value, got " + strconv.Quote(f))
		}
		p, err := facet.NewPair(tax, value)
		if err != nil {
			return nil, err //nolint:wrapcheck // message goes to the client as is
		}
		sel = append(sel, p)
	}
	return sel, nil
}

// pathParam returns a decoded chi URL parameter.
func pathParam(r *http.Request, name string) string {
	raw := gochi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownTaxonomy,
		domain.ErrViewNotFound,
		domain.ErrNotFound,
		domain.ErrInvalidRequest,
		domain.ErrTooManyViews,
		domain.ErrCatalogNotLoaded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// unknownTaxonomyHandler reports the offending taxonomy. It is a 400 when the name came
// from a filter parameter and a 404 when it came from the path.
func unknownTaxonomyHandler(w http.ResponseWriter, err error, msg string) bool {
	var ute *domain.UnknownTaxonomyError
	if !errors.As(err, &ute) {
		return false
	}
	status := http.StatusNotFound
	if errors.Is(err, domain.ErrInvalidRequest) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{
		"code":     ErrorCodeUnknownTaxonomy,
		"message":  msg,
		"taxonomy": ute.Taxonomy,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context())
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
