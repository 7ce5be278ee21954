package auth

import (
	"fmt"
	"sort"
	"sync"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// Builder creates an auth strategy from static configuration.
type Builder func(cfg domain.AuthConfig) (driven.AuthStrategy, error)

// Registry maintains the known strategy types and their builders.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry with the built-in strategies registered.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	r.Register(StrategyOAuth2, func(cfg domain.AuthConfig) (driven.AuthStrategy, error) {
		return NewOAuth2Strategy(cfg)
	})
	r.Register(StrategyAPIKey, func(cfg domain.AuthConfig) (driven.AuthStrategy, error) {
		return NewAPIKeyStrategy(cfg)
	})
	r.Register(StrategyBasic, func(cfg domain.AuthConfig) (driven.AuthStrategy, error) {
		return NewBasicStrategy(cfg)
	})
	return r
}

// Register adds a strategy builder for the given type.
func (r *Registry) Register(name string, builder Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = builder
}

// Create builds a strategy of the given type.
// Returns domain.ErrUnsupportedType for unknown types.
func (r *Registry) Create(name string, cfg domain.AuthConfig) (driven.AuthStrategy, error) {
	r.mu.RLock()
	builder, ok := r.builders[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("auth strategy %q: %w", name, domain.ErrUnsupportedType)
	}
	return builder(cfg)
}

// SupportedTypes returns all registered strategy types, sorted.
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.builders))
	for name := range r.builders {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}
