// Package connectors provides the metadata fetch adapters and the factory
// that builds them from configuration. Each adapter implements the
// Connector interface for one external API shape (restjson, restxml) and
// delegates request signing to the injected auth strategy, so any strategy
// can pair with any adapter.
//
// Adapters are registered with the Factory at startup.
package connectors
