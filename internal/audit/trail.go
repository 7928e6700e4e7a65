package audit

import (
	"sync"
	"time"
)

// DefaultCapacity bounds the trail when no capacity is chosen.
const DefaultCapacity = 1000

// redactedFields are metadata keys whose values carry caller payloads and
// are masked unless the trail was built with IncludeQueryText.
var redactedFields = map[string]struct{}{
	"query":      {},
	"caseNumber": {},
}

const redactedValue = "[redacted]"

// Trail is a fixed-capacity ring buffer of events. Once full, appending
// drops the oldest entry. Queries return copies, never internal state.
type Trail struct {
	mu       sync.Mutex
	events   []Event
	start    int // index of oldest entry
	count    int
	capacity int

	includeQueryText bool
}

// Option configures a Trail.
type Option func(*Trail)

// IncludeQueryText opts in to storing raw query text instead of redacting
// it.
func IncludeQueryText() Option {
	return func(t *Trail) { t.includeQueryText = true }
}

// NewTrail creates a trail holding at most capacity events. capacity <= 0
// selects the default.
func NewTrail(capacity int, opts ...Option) *Trail {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	t := &Trail{
		events:   make([]Event, capacity),
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record appends one event, stamping the time if unset and redacting
// sensitive metadata unless opted in. O(1); the oldest entry is overwritten
// once the buffer is full.
func (t *Trail) Record(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Metadata = t.sanitize(event.Metadata)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count < t.capacity {
		t.events[(t.start+t.count)%t.capacity] = event
		t.count++
		return
	}
	t.events[t.start] = event
	t.start = (t.start + 1) % t.capacity
}

// Recent returns up to n events, newest first.
func (t *Trail) Recent(n int) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n <= 0 || n > t.count {
		n = t.count
	}
	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, t.events[(t.start+t.count-1-i)%t.capacity])
	}
	return out
}

// ByType returns up to n events of one kind, newest first.
func (t *Trail) ByType(kind Kind, n int) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n <= 0 {
		n = t.count
	}
	out := make([]Event, 0, n)
	for i := 0; i < t.count && len(out) < n; i++ {
		event := t.events[(t.start+t.count-1-i)%t.capacity]
		if event.Kind == kind {
			out = append(out, event)
		}
	}
	return out
}

// CountsByType returns how many buffered events each kind has.
func (t *Trail) CountsByType() map[Kind]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	counts := make(map[Kind]int)
	for i := 0; i < t.count; i++ {
		counts[t.events[(t.start+i)%t.capacity].Kind]++
	}
	return counts
}

// Clear drops all buffered events.
func (t *Trail) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start = 0
	t.count = 0
}

func (t *Trail) sanitize(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		if _, sensitive := redactedFields[k]; sensitive && !t.includeQueryText {
			out[k] = redactedValue
			continue
		}
		out[k] = v
	}
	return out
}
