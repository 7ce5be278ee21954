package normalisers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps source types to their normalisers.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[string]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{normalisers: make(map[string]driven.Normaliser)}
}

// Register adds a normaliser under its source type. A later
// registration for the same type replaces the earlier one.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers[n.SourceType()] = n
}

// Get returns the normaliser registered for the source type.
func (r *Registry) Get(sourceType string) (driven.Normaliser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.normalisers[sourceType]
	if !ok {
		return nil, fmt.Errorf("no normaliser for source type %q: %w", sourceType, domain.ErrUnsupportedType)
	}
	return n, nil
}

// SupportedTypes returns all registered source types, sorted.
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.normalisers))
	for t := range r.normalisers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
