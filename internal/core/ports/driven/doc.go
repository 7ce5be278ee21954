// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - AuthStrategy: Obtains and packages access credentials
//   - Connector: Fetches raw metadata records from an external system
//   - ConnectorFactory: Creates connectors from configuration
//   - SecretStore: Retrieves credential blobs by reference
//   - Normaliser: Transforms raw records into the standardised schema
//   - NormaliserRegistry: Selects a normaliser by source type
//   - StatusStore: Persists per-asset enrichment progress
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - ObjectStore: Bulk mapping-configuration documents. Only needed when
//     normaliser configuration is stored out of line.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
