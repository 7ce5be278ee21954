package connectors

import (
	"fmt"
	"sort"
	"sync"

	"github.com/strand-media/enricher/internal/connectors/restjson"
	"github.com/strand-media/enricher/internal/connectors/restxml"
	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ConnectorFactory = (*Factory)(nil)

// Factory builds connectors from adapter configuration.
type Factory struct {
	mu       sync.RWMutex
	builders map[string]driven.ConnectorBuilder
}

// NewFactory returns a factory with the built-in adapters registered.
func NewFactory() *Factory {
	f := &Factory{builders: make(map[string]driven.ConnectorBuilder)}
	f.Register(restjson.AdapterName, func(cfg domain.AdapterConfig, strategy driven.AuthStrategy) (driven.Connector, error) {
		return restjson.New(cfg, strategy)
	})
	f.Register(restxml.AdapterName, func(cfg domain.AdapterConfig, strategy driven.AuthStrategy) (driven.Connector, error) {
		return restxml.New(cfg, strategy)
	})
	return f
}

// Register adds a connector builder for the given adapter type.
func (f *Factory) Register(adapterType string, builder driven.ConnectorBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[adapterType] = builder
}

// Create builds a connector of the given adapter type.
// Returns domain.ErrUnsupportedType for unknown types.
func (f *Factory) Create(adapterType string, cfg domain.AdapterConfig,
	strategy driven.AuthStrategy) (driven.Connector, error) {
	f.mu.RLock()
	builder, ok := f.builders[adapterType]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("adapter type %q: %w", adapterType, domain.ErrUnsupportedType)
	}
	return builder(cfg, strategy)
}

// SupportedTypes returns all registered adapter types, sorted.
func (f *Factory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]string, 0, len(f.builders))
	for name := range f.builders {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}
