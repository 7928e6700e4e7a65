// Package audit keeps an append-only, bounded trail of every access, cache
// outcome, rate-limit rejection, and error for observability. Events are
// transport-agnostic so sinks can fan out later.
package audit

import "time"

// Kind tags what an event records.
type Kind string

const (
	KindSearch         Kind = "search"
	KindDetailAccess   Kind = "detail_access"
	KindRateLimited    Kind = "rate_limited"
	KindDomainRejected Kind = "domain_rejected"
	KindCacheHit       Kind = "cache_hit"
	KindCacheMiss      Kind = "cache_miss"
	KindError          Kind = "error"
	KindHealthCheck    Kind = "health_check"
)

// Event is one immutable trail entry.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Kind      Kind              `json:"kind"`
	CallerID  string            `json:"callerId,omitempty"`
	Provider  string            `json:"provider,omitempty"`
	Resource  string            `json:"resource,omitempty"`
	Success   bool              `json:"success"`
	LatencyMS int64             `json:"latencyMs,omitempty"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
