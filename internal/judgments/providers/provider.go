// Package providers defines the interface every upstream judgment source
// implements, the registry that resolves adapters by name, and the
// normalized error taxonomy adapters raise.
package providers

import (
	"context"
	"fmt"
	"sort"

	"lexgate/internal/judgments"
)

// Well-known provider names.
const (
	NameSAOS   = "saos"
	NamePortal = "portal"
)

// Provider is the universal interface all judgment sources implement.
// Heterogeneous upstreams (structured JSON API, HTML portal) are unified
// here; callers depend only on this interface.
type Provider interface {
	// ID returns the stable name of this provider instance.
	ID() string

	// Search returns one page of canonical records matching the filters.
	Search(ctx context.Context, params judgments.SearchParams) (*judgments.SearchResult, error)

	// GetDetail fetches one judgment and returns its metadata plus a bounded
	// window of its normalized text.
	GetDetail(ctx context.Context, params judgments.DetailParams) (*judgments.Detail, error)

	// SourceLinks returns the upstream URLs for an id. Pure and synchronous,
	// no network.
	SourceLinks(id string) judgments.SourceLinks

	// Health probes the upstream and reports availability.
	Health(ctx context.Context) judgments.Health
}

// Registry maintains all registered providers.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider. Registering the same name twice is a wiring bug.
func (r *Registry) Register(p Provider) error {
	id := p.ID()
	if _, exists := r.providers[id]; exists {
		return fmt.Errorf("provider %s already registered", id)
	}
	r.providers[id] = p
	return nil
}

// Get retrieves a provider by name.
func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// Names returns all registered provider names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for id := range r.providers {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}

// All returns all registered providers in name order.
func (r *Registry) All() []Provider {
	names := r.Names()
	result := make([]Provider, 0, len(names))
	for _, id := range names {
		result = append(result, r.providers[id])
	}
	return result
}
