// Package services implements the driving port interfaces.
// Services contain the enrichment pipeline logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no transport or storage dependencies.
package services
