// Package orchestrator runs the request pipeline around every provider
// call: validate, rate-limit, cache lookup, dispatch, cache store, audit,
// error classification. Each request runs its own pipeline instance; the
// cache, limiters, and trail are the only shared state.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"lexgate/internal/audit"
	"lexgate/internal/cache"
	"lexgate/internal/judgments"
	"lexgate/internal/judgments/providers"
	"lexgate/internal/platform/metrics"
	"lexgate/internal/ratelimit"
	"lexgate/pkg/requestcontext"
)

// Canonical operation identifiers, used as cache-key and limiter namespaces.
const (
	OpSearch      = "search"
	OpGetDetail   = "getDetail"
	OpSourceLinks = "getSourceLinks"
	OpHealth      = "healthCheck"
)

// Limiters groups the per-operation-class admission gates. Source-link
// reads are cheap and share the health-class budget.
type Limiters struct {
	Search *ratelimit.Limiter
	Detail *ratelimit.Limiter
	Health *ratelimit.Limiter
}

// TTLs groups the cache lifetime per operation class. Search and health
// results go stale quickly; detail content is effectively immutable.
type TTLs struct {
	Search time.Duration
	Detail time.Duration
	Health time.Duration
}

// Orchestrator composes the shared components into the request pipeline.
type Orchestrator struct {
	registry *providers.Registry
	cache    cache.Store
	trail    *audit.Trail
	metrics  *metrics.Metrics
	log      *slog.Logger
	limiters Limiters
	ttls     TTLs
	tracer   trace.Tracer
}

// New wires an orchestrator. All components are required except metrics and
// log, which default to no-op equivalents only in tests.
func New(registry *providers.Registry, store cache.Store, trail *audit.Trail, m *metrics.Metrics, log *slog.Logger, limiters Limiters, ttls TTLs) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		cache:    store,
		trail:    trail,
		metrics:  m,
		log:      log,
		limiters: limiters,
		ttls:     ttls,
		tracer:   otel.Tracer("lexgate/orchestrator"),
	}
}

// SearchResponse is a search result plus response metadata.
type SearchResponse struct {
	judgments.SearchResult
	Provider string `json:"provider"`
	Cached   bool   `json:"cached"`
}

// DetailResponse is a detail record plus response metadata.
type DetailResponse struct {
	judgments.Detail
	Provider string `json:"provider"`
	Cached   bool   `json:"cached"`
}

// HealthResponse reports every registered provider's health.
type HealthResponse struct {
	Providers map[string]judgments.Health `json:"providers"`
	Cached    bool                        `json:"cached"`
}

// Search runs the full pipeline for the search operation.
func (o *Orchestrator) Search(ctx context.Context, callerID, providerName string, params judgments.SearchParams) (*SearchResponse, error) {
	start := time.Now()

	if err := validateSearch(params); err != nil {
		return nil, o.fail(OpSearch, callerID, providerName, start, err)
	}
	if err := o.admit(o.limiters.Search, OpSearch, callerID, providerName); err != nil {
		return nil, err
	}

	key := searchCacheKey(providerName, params)
	var cached SearchResponse
	if o.cacheGet(ctx, OpSearch, callerID, providerName, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	provider, err := o.resolve(providerName)
	if err != nil {
		return nil, o.fail(OpSearch, callerID, providerName, start, err)
	}

	result, err := o.dispatchSearch(ctx, provider, params)
	if err != nil {
		return nil, o.fail(OpSearch, callerID, providerName, start, err)
	}

	resp := &SearchResponse{SearchResult: *result, Provider: providerName}
	o.cacheSet(ctx, key, resp, o.ttls.Search)
	o.succeed(ctx, audit.KindSearch, OpSearch, callerID, providerName, "", start, map[string]string{
		"query": params.Query,
	})
	return resp, nil
}

// GetDetail runs the full pipeline for the detail-fetch operation.
func (o *Orchestrator) GetDetail(ctx context.Context, callerID, providerName string, params judgments.DetailParams) (*DetailResponse, error) {
	start := time.Now()

	if err := validateDetail(params); err != nil {
		return nil, o.fail(OpGetDetail, callerID, providerName, start, err)
	}
	if err := o.admit(o.limiters.Detail, OpGetDetail, callerID, providerName); err != nil {
		return nil, err
	}

	key := detailCacheKey(providerName, params)
	var cached DetailResponse
	if o.cacheGet(ctx, OpGetDetail, callerID, providerName, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	provider, err := o.resolve(providerName)
	if err != nil {
		return nil, o.fail(OpGetDetail, callerID, providerName, start, err)
	}

	detail, err := o.dispatchDetail(ctx, provider, params)
	if err != nil {
		return nil, o.fail(OpGetDetail, callerID, providerName, start, err)
	}

	resp := &DetailResponse{Detail: *detail, Provider: providerName}
	o.cacheSet(ctx, key, resp, o.ttls.Detail)
	o.succeed(ctx, audit.KindDetailAccess, OpGetDetail, callerID, providerName, params.ID, start, nil)
	return resp, nil
}

// SourceLinks resolves the upstream links for an id. Pure per provider, so
// the pipeline skips the cache and goes straight to the adapter.
func (o *Orchestrator) SourceLinks(ctx context.Context, callerID, providerName, id string) (judgments.SourceLinks, error) {
	start := time.Now()

	if id == "" {
		return nil, o.fail(OpSourceLinks, callerID, providerName, start,
			providers.NewError(providers.CategoryValidation, providerName, "id is required", nil))
	}
	if err := o.admit(o.limiters.Health, OpSourceLinks, callerID, providerName); err != nil {
		return nil, err
	}

	provider, err := o.resolve(providerName)
	if err != nil {
		return nil, o.fail(OpSourceLinks, callerID, providerName, start, err)
	}

	links := provider.SourceLinks(id)
	o.succeed(ctx, audit.KindDetailAccess, OpSourceLinks, callerID, providerName, id, start, nil)
	return links, nil
}

// HealthCheck probes all registered providers concurrently, so the overall
// latency is bounded by the slowest provider, not their sum.
func (o *Orchestrator) HealthCheck(ctx context.Context, callerID string) (*HealthResponse, error) {
	start := time.Now()

	if err := o.admit(o.limiters.Health, OpHealth, callerID, ""); err != nil {
		return nil, err
	}

	key := OpHealth + "|all"
	var cached HealthResponse
	if o.cacheGet(ctx, OpHealth, callerID, "", key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	statuses := make(map[string]judgments.Health)
	var mu sync.Mutex
	var g errgroup.Group
	for _, p := range o.registry.All() {
		g.Go(func() error {
			h := p.Health(ctx)
			mu.Lock()
			statuses[p.ID()] = h
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	resp := &HealthResponse{Providers: statuses}
	o.cacheSet(ctx, key, resp, o.ttls.Health)
	o.succeed(ctx, audit.KindHealthCheck, OpHealth, callerID, "", "", start, nil)
	return resp, nil
}

// --- pipeline steps ---

func (o *Orchestrator) admit(limiter *ratelimit.Limiter, op, callerID, providerName string) error {
	if err := limiter.Check(callerID); err != nil {
		var le *ratelimit.LimitError
		retryAfter := time.Duration(0)
		if errors.As(err, &le) {
			retryAfter = le.RetryAfter
		}
		o.trail.Record(audit.Event{
			Kind:     audit.KindRateLimited,
			CallerID: callerID,
			Provider: providerName,
			Metadata: map[string]string{"operation": op},
		})
		if o.metrics != nil {
			o.metrics.RateLimited.WithLabelValues(op).Inc()
			o.metrics.Requests.WithLabelValues(op, "rate_limited").Inc()
		}
		limited := providers.NewError(providers.CategoryRateLimited, providerName, "rate limit exceeded", err)
		limited.RetryAfter = retryAfter
		return limited
	}
	return nil
}

func (o *Orchestrator) resolve(providerName string) (providers.Provider, error) {
	provider, ok := o.registry.Get(providerName)
	if !ok {
		err := providers.NewError(providers.CategoryValidation, providerName,
			fmt.Sprintf("provider %q unavailable", providerName), providers.ErrProviderNotRegistered)
		err.Retryable = false
		return nil, err
	}
	return provider, nil
}

func (o *Orchestrator) dispatchSearch(ctx context.Context, p providers.Provider, params judgments.SearchParams) (*judgments.SearchResult, error) {
	ctx, span := o.tracer.Start(ctx, "provider.search",
		trace.WithAttributes(attribute.String("provider", p.ID())))
	defer span.End()

	start := time.Now()
	result, err := p.Search(ctx, params)
	o.observeLatency(p.ID(), OpSearch, start)
	return result, err
}

func (o *Orchestrator) dispatchDetail(ctx context.Context, p providers.Provider, params judgments.DetailParams) (*judgments.Detail, error) {
	ctx, span := o.tracer.Start(ctx, "provider.getDetail",
		trace.WithAttributes(attribute.String("provider", p.ID()), attribute.String("id", params.ID)))
	defer span.End()

	start := time.Now()
	detail, err := p.GetDetail(ctx, params)
	o.observeLatency(p.ID(), OpGetDetail, start)
	return detail, err
}

func (o *Orchestrator) observeLatency(provider, op string, start time.Time) {
	if o.metrics != nil {
		o.metrics.ProviderLatencyMS.WithLabelValues(provider, op).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// cacheGet reads a cached response. Backend failures never abort the
// request; they are logged and treated as misses.
func (o *Orchestrator) cacheGet(ctx context.Context, op, callerID, providerName, key string, out any) bool {
	payload, ok, err := o.cache.Get(ctx, key)
	if err != nil {
		o.logWarn("cache get failed", "key", key, "error", err)
		ok = false
	}
	if ok {
		if err := json.Unmarshal(payload, out); err != nil {
			o.logWarn("cache payload corrupt", "key", key, "error", err)
			ok = false
		}
	}

	kind := audit.KindCacheMiss
	if ok {
		kind = audit.KindCacheHit
	}
	o.trail.Record(audit.Event{
		Kind:     kind,
		CallerID: callerID,
		Provider: providerName,
		Success:  true,
		Metadata: map[string]string{"operation": op},
	})
	if o.metrics != nil {
		if ok {
			o.metrics.CacheHits.Inc()
			o.metrics.Requests.WithLabelValues(op, "cache_hit").Inc()
		} else {
			o.metrics.CacheMisses.Inc()
		}
	}
	return ok
}

func (o *Orchestrator) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		o.logWarn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := o.cache.Set(ctx, key, payload, ttl); err != nil {
		o.logWarn("cache set failed", "key", key, "error", err)
	}
}

func (o *Orchestrator) succeed(ctx context.Context, kind audit.Kind, op, callerID, providerName, resource string, start time.Time, metadata map[string]string) {
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadata["operation"] = op
	requestID := requestcontext.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	metadata["requestId"] = requestID
	o.trail.Record(audit.Event{
		Kind:      kind,
		CallerID:  callerID,
		Provider:  providerName,
		Resource:  resource,
		Success:   true,
		LatencyMS: time.Since(start).Milliseconds(),
		Metadata:  metadata,
	})
	if o.metrics != nil {
		o.metrics.Requests.WithLabelValues(op, "ok").Inc()
	}
}

// fail classifies err onto the taxonomy, audits it, and returns the typed
// error for the transport layer to serialize.
func (o *Orchestrator) fail(op, callerID, providerName string, start time.Time, err error) error {
	classified := classify(providerName, err)

	kind := audit.KindError
	if classified.Category == providers.CategoryDomainRejected {
		kind = audit.KindDomainRejected
	}
	o.trail.Record(audit.Event{
		Kind:      kind,
		CallerID:  callerID,
		Provider:  providerName,
		Success:   false,
		LatencyMS: time.Since(start).Milliseconds(),
		Error:     classified.Error(),
		Metadata:  map[string]string{"operation": op},
	})
	if o.metrics != nil {
		o.metrics.Requests.WithLabelValues(op, string(classified.Category)).Inc()
	}
	o.logWarn("request failed", "operation", op, "provider", providerName, "category", string(classified.Category), "error", classified.Error())
	return classified
}

func (o *Orchestrator) logWarn(msg string, args ...any) {
	if o.log != nil {
		o.log.Warn(msg, args...)
	}
}

// classify maps any error onto the taxonomy. Already-typed errors pass
// through; context deadlines become timeouts; everything else is a
// retryable internal error.
func classify(providerName string, err error) *providers.Error {
	var pe *providers.Error
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return providers.NewError(providers.CategoryTimeout, providerName, "deadline exceeded", err)
	}
	return providers.NewError(providers.CategoryInternal, providerName, "unclassified failure", err)
}

// --- validation & cache keys ---

func validateSearch(params judgments.SearchParams) error {
	if params.Page < 0 {
		return providers.NewError(providers.CategoryValidation, "", "page must be >= 0", nil)
	}
	if params.PageSize < 0 || params.PageSize > 100 {
		return providers.NewError(providers.CategoryValidation, "", "pageSize must be in [0, 100]", nil)
	}
	for _, d := range []string{params.DateFrom, params.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return providers.NewError(providers.CategoryValidation, "", fmt.Sprintf("invalid date %q, want YYYY-MM-DD", d), nil)
		}
	}
	return nil
}

func validateDetail(params judgments.DetailParams) error {
	if params.ID == "" {
		return providers.NewError(providers.CategoryValidation, "", "id is required", nil)
	}
	if params.MaxChars < 0 || params.MaxChars > 50000 {
		return providers.NewError(providers.CategoryValidation, "", "maxChars must be in [0, 50000]", nil)
	}
	if params.Offset < 0 {
		return providers.NewError(providers.CategoryValidation, "", "offset must be >= 0", nil)
	}
	return nil
}

// searchCacheKey folds every result-affecting parameter into the key.
func searchCacheKey(providerName string, p judgments.SearchParams) string {
	return fmt.Sprintf("%s|%s|q=%s|cn=%s|from=%s|to=%s|page=%d|size=%d",
		OpSearch, providerName, url.QueryEscape(p.Query), url.QueryEscape(p.CaseNumber),
		p.DateFrom, p.DateTo, p.Page, p.PageSize)
}

func detailCacheKey(providerName string, p judgments.DetailParams) string {
	return fmt.Sprintf("%s|%s|id=%s|max=%d|off=%d",
		OpGetDetail, providerName, url.QueryEscape(p.ID), p.MaxChars, p.Offset)
}
