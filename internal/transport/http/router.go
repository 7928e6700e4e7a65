// Package httpapi is the thin HTTP layer over the orchestrator. Handlers
// parse and serialize; all pipeline behavior lives in the orchestrator.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lexgate/internal/audit"
	"lexgate/internal/cache"
	"lexgate/internal/judgments"
	"lexgate/internal/judgments/providers"
	"lexgate/internal/orchestrator"
	"lexgate/pkg/requestcontext"
)

// Handler serves the public API.
type Handler struct {
	orch  *orchestrator.Orchestrator
	trail *audit.Trail
	store cache.Store
	log   *slog.Logger
}

// NewHandler wires the HTTP layer.
func NewHandler(orch *orchestrator.Orchestrator, trail *audit.Trail, store cache.Store, log *slog.Logger) *Handler {
	return &Handler{orch: orch, trail: trail, store: store, log: log}
}

// NewRouter wires all public endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestMeta)
	r.Get("/v1/search", h.handleSearch)
	r.Get("/v1/judgments/{provider}/{id}", h.handleDetail)
	r.Get("/v1/judgments/{provider}/{id}/links", h.handleLinks)
	r.Get("/v1/health", h.handleHealth)
	r.Get("/v1/audit/recent", h.handleAuditRecent)
	r.Get("/v1/cache/stats", h.handleCacheStats)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := judgments.SearchParams{
		Query:      q.Get("query"),
		CaseNumber: q.Get("caseNumber"),
		DateFrom:   q.Get("dateFrom"),
		DateTo:     q.Get("dateTo"),
		Page:       intQuery(q.Get("page")),
		PageSize:   intQuery(q.Get("pageSize")),
	}
	providerName := q.Get("provider")
	if providerName == "" {
		providerName = providers.NameSAOS
	}

	resp, err := h.orch.Search(r.Context(), requestcontext.CallerID(r.Context()), providerName, params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := judgments.DetailParams{
		ID:       chi.URLParam(r, "id"),
		MaxChars: intQuery(q.Get("maxChars")),
		Offset:   intQuery(q.Get("offset")),
	}

	resp, err := h.orch.GetDetail(r.Context(), requestcontext.CallerID(r.Context()), chi.URLParam(r, "provider"), params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.orch.SourceLinks(r.Context(), requestcontext.CallerID(r.Context()), chi.URLParam(r, "provider"), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.orch.HealthCheck(r.Context(), requestcontext.CallerID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	n := intQuery(r.URL.Query().Get("n"))
	if n <= 0 {
		n = 50
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		writeJSON(w, http.StatusOK, h.trail.ByType(audit.Kind(kind), n))
		return
	}
	writeJSON(w, http.StatusOK, h.trail.Recent(n))
}

func (h *Handler) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// errorBody is the machine-readable failure envelope.
type errorBody struct {
	Error struct {
		Code              string  `json:"code"`
		Message           string  `json:"message"`
		Retryable         bool    `json:"retryable"`
		RetryAfterSeconds float64 `json:"retryAfterSeconds,omitempty"`
	} `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	category := providers.GetCategory(err)

	var body errorBody
	body.Error.Code = string(category)
	body.Error.Message = err.Error()
	body.Error.Retryable = providers.IsRetryable(err)

	status := http.StatusInternalServerError
	switch category {
	case providers.CategoryValidation:
		status = http.StatusBadRequest
	case providers.CategoryNotFound:
		status = http.StatusNotFound
	case providers.CategoryRateLimited:
		status = http.StatusTooManyRequests
	case providers.CategoryTimeout:
		status = http.StatusGatewayTimeout
	case providers.CategoryProvider:
		status = http.StatusBadGateway
	case providers.CategoryDomainRejected:
		status = http.StatusForbidden
	}

	var pe *providers.Error
	if errors.As(err, &pe) && pe.RetryAfter > 0 {
		body.Error.RetryAfterSeconds = pe.RetryAfter.Seconds()
		w.Header().Set("Retry-After", strconv.Itoa(int(pe.RetryAfter.Seconds()+0.999)))
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestMeta stamps each request with a correlation id and the caller
// identity, echoing the id back so clients can quote it when reporting
// problems.
func requestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithCallerID(ctx, callerID(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerID identifies the caller for rate limiting: the X-Caller-ID header
// when present, otherwise the remote address without port.
func callerID(r *http.Request) string {
	if id := r.Header.Get("X-Caller-ID"); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func intQuery(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
