package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultCapacity bounds the in-memory store when no capacity is chosen.
const DefaultCapacity = 1000

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// Memory is the in-process Store. Expiry is checked lazily on read plus a
// periodic sweep; exceeding capacity evicts the oldest-inserted entries
// first (insertion-order FIFO, not LRU).
type Memory struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List // front = oldest inserted
	capacity int
	hits     int64
	misses   int64
}

// NewMemory creates an in-process store. capacity <= 0 selects the default.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false, nil
	}
	entry := elem.Value.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		m.removeLocked(elem)
		m.misses++
		return nil, false, nil
	}
	m.hits++
	return entry.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := &memoryEntry{key: key, value: value, expiresAt: time.Now().Add(ttl)}

	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		// Replacing keeps the key's original insertion position.
		elem.Value = entry
		return nil
	}
	m.entries[key] = m.order.PushBack(entry)

	for len(m.entries) > m.capacity {
		oldest := m.order.Front()
		if oldest == nil {
			break
		}
		m.removeLocked(oldest)
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	m.removeLocked(elem)
	return true, nil
}

func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	if time.Now().After(elem.Value.(*memoryEntry).expiresAt) {
		m.removeLocked(elem)
		return false, nil
	}
	return true, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*list.Element)
	m.order.Init()
	return nil
}

func (m *Memory) Stats(_ context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Hits:    m.hits,
		Misses:  m.misses,
		Size:    len(m.entries),
		HitRate: hitRate(m.hits, m.misses),
	}, nil
}

// Sweep removes all expired entries and returns how many were dropped.
func (m *Memory) Sweep() int {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for elem := m.order.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*memoryEntry).expiresAt) {
			m.removeLocked(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// RunSweeper sweeps at the given interval until ctx is cancelled.
func (m *Memory) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Memory) removeLocked(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	m.order.Remove(elem)
	delete(m.entries, entry.key)
}
