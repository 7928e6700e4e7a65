// Package ratelimit gates admission per caller with a sliding window.
// Each operation class gets its own Limiter instance with an independent
// budget; callers on different keys never contend on one lock.
package ratelimit

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 32

// LimitError is returned when a caller exhausts its window budget.
type LimitError struct {
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter.Round(time.Millisecond))
}

// Limiter admits up to maxRequests per caller within a trailing window.
// Timestamps are pruned lazily on each check and a caller's record is
// dropped entirely once it empties.
type Limiter struct {
	maxRequests int
	window      time.Duration
	shards      [shardCount]shard
	now         func() time.Time
}

type shard struct {
	mu      sync.Mutex
	callers map[string][]time.Time
}

// New creates a limiter with the given per-caller budget.
func New(maxRequests int, window time.Duration) *Limiter {
	l := &Limiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
	for i := range l.shards {
		l.shards[i].callers = make(map[string][]time.Time)
	}
	return l
}

func (l *Limiter) shardFor(callerID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(callerID))
	return &l.shards[h.Sum32()%shardCount]
}

// Check admits or rejects one request. On rejection the returned LimitError
// carries how long the caller must wait for the oldest counted request to
// leave the window.
func (l *Limiter) Check(callerID string) error {
	now := l.now()
	s := l.shardFor(callerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	timestamps := prune(s.callers[callerID], now.Add(-l.window))
	if len(timestamps) >= l.maxRequests {
		s.callers[callerID] = timestamps
		retryAfter := timestamps[0].Add(l.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return &LimitError{RetryAfter: retryAfter}
	}
	s.callers[callerID] = append(timestamps, now)
	return nil
}

// Remaining reports how many requests the caller may still make in the
// current window. Read-only; nothing is recorded.
func (l *Limiter) Remaining(callerID string) int {
	now := l.now()
	s := l.shardFor(callerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	timestamps := l.pruneAndStore(s, callerID, now)
	remaining := l.maxRequests - len(timestamps)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetSeconds reports how long until the caller's window fully resets.
// Zero when the caller has no counted requests.
func (l *Limiter) ResetSeconds(callerID string) float64 {
	now := l.now()
	s := l.shardFor(callerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	timestamps := l.pruneAndStore(s, callerID, now)
	if len(timestamps) == 0 {
		return 0
	}
	reset := timestamps[len(timestamps)-1].Add(l.window).Sub(now).Seconds()
	if reset < 0 {
		return 0
	}
	return reset
}

// Reset clears one caller's record. Administrative override.
func (l *Limiter) Reset(callerID string) {
	s := l.shardFor(callerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.callers, callerID)
}

// Clear clears all callers. Administrative override.
func (l *Limiter) Clear() {
	for i := range l.shards {
		s := &l.shards[i]
		s.mu.Lock()
		s.callers = make(map[string][]time.Time)
		s.mu.Unlock()
	}
}

// pruneAndStore prunes a caller's timestamps and garbage-collects the entry
// once empty. Must be called with the shard lock held.
func (l *Limiter) pruneAndStore(s *shard, callerID string, now time.Time) []time.Time {
	timestamps := prune(s.callers[callerID], now.Add(-l.window))
	if len(timestamps) == 0 {
		delete(s.callers, callerID)
	} else {
		s.callers[callerID] = timestamps
	}
	return timestamps
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(timestamps); i++ {
		if timestamps[i].After(cutoff) {
			break
		}
	}
	return timestamps[i:]
}
