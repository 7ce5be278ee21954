package driven

import (
	"context"

	"github.com/strand-media/enricher/internal/core/domain"
)

// Connector fetches raw metadata records from one external system.
// Each adapter type (restjson, restxml) implements this interface.
//
// Connectors own transport concerns only: building the request URL,
// merging headers, issuing the call, parsing the body. Auth-header
// construction is always delegated to the injected AuthStrategy, so any
// strategy can pair with any adapter.
type Connector interface {
	// Name returns the adapter type identifier.
	Name() string

	// FullSourceName returns "<adapter>:<auth-strategy>", the attribution
	// string recorded on normalised documents.
	FullSourceName() string

	// FetchMetadata retrieves the raw record for one correlation ID.
	// credentialHeaders come from the secret store and take precedence
	// over configuration-derived headers, so secret API keys never have
	// to live in plain configuration. Transport failures the retry
	// layer should classify are returned as errors; remote rejections
	// land in the FetchResult with their status code.
	FetchMetadata(ctx context.Context, correlationID string, auth domain.AuthResult,
		credentialHeaders map[string]string) (domain.FetchResult, error)
}

// ConnectorBuilder creates a Connector from adapter configuration, paired
// with the auth strategy that will sign its requests.
type ConnectorBuilder func(cfg domain.AdapterConfig, strategy AuthStrategy) (Connector, error)

// ConnectorFactory creates connectors from adapter configuration.
// It maintains a registry of adapter types and their builders.
type ConnectorFactory interface {
	// Create returns a Connector for the given adapter type, paired with
	// the given auth strategy.
	// Returns ErrUnsupportedType if the adapter type is unknown.
	Create(adapterType string, cfg domain.AdapterConfig, strategy AuthStrategy) (Connector, error)

	// Register adds a connector builder for the given type.
	Register(adapterType string, builder ConnectorBuilder)

	// SupportedTypes returns all registered adapter types.
	SupportedTypes() []string
}
