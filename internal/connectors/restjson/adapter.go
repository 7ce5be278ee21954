// Package restjson implements the JSON REST metadata adapter: GET against
// a configured endpoint, JSON object body in, generic record map out.
package restjson

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/strand-media/enricher/internal/connectors/httpapi"
	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// AdapterName is the registry name of this adapter.
const AdapterName = "restjson"

// Ensure Adapter implements the Connector interface.
var _ driven.Connector = (*Adapter)(nil)

// Adapter fetches one record per correlation ID from a JSON REST API.
type Adapter struct {
	client        *httpapi.Client
	strategy      driven.AuthStrategy
	pathTemplate  string
	idParam       string
	configHeaders map[string]string
}

// New builds the adapter from static configuration.
// Options: "path" (template, "{id}" placeholder, default "/{id}"),
// "id_param" (query parameter used when the template has no placeholder,
// default "id"), plus the shared transport options read by
// httpapi.ConfigFromOptions.
func New(cfg domain.AdapterConfig, strategy driven.AuthStrategy) (*Adapter, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("restjson adapter requires an endpoint: %w", domain.ErrInvalidInput)
	}
	clientCfg, err := httpapi.ConfigFromOptions(cfg.Endpoint, cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("restjson adapter: %w", err)
	}
	return &Adapter{
		client:        httpapi.NewClient(clientCfg),
		strategy:      strategy,
		pathTemplate:  cfg.Option("path", "/{id}"),
		idParam:       cfg.Option("id_param", "id"),
		configHeaders: cfg.Headers,
	}, nil
}

// Name returns the adapter type identifier.
func (a *Adapter) Name() string { return AdapterName }

// FullSourceName returns the attribution string.
func (a *Adapter) FullSourceName() string {
	return AdapterName + ":" + a.strategy.Name()
}

// FetchMetadata retrieves and parses one record.
func (a *Adapter) FetchMetadata(ctx context.Context, correlationID string, auth domain.AuthResult,
	credentialHeaders map[string]string) (domain.FetchResult, error) {
	if strings.TrimSpace(correlationID) == "" {
		return domain.FetchResult{Success: false, Error: "correlation ID is empty"}, nil
	}

	path, query := httpapi.Target(a.pathTemplate, a.idParam, correlationID)
	for name, value := range a.strategy.QueryParams(auth) {
		query.Set(name, value)
	}

	resp, err := a.client.Do(ctx, httpapi.Request{
		Path:  path,
		Query: query,
		Headers: []map[string]string{
			{"Accept": "application/json"},
			a.strategy.AuthHeaders(auth),
			a.configHeaders,
			credentialHeaders,
		},
	})
	if err != nil {
		return httpapi.FailureResult(err), err
	}

	var record map[string]any
	if jsonErr := json.Unmarshal(resp.Body, &record); jsonErr != nil {
		return domain.FetchResult{
			Success:    false,
			StatusCode: resp.StatusCode,
			Error:      fmt.Sprintf("response is not a JSON object: %v", jsonErr),
		}, nil
	}
	if record == nil {
		return domain.FetchResult{
			Success:    false,
			StatusCode: resp.StatusCode,
			Error:      "response is not a JSON object: null body",
		}, nil
	}

	return domain.FetchResult{
		Success:    true,
		Record:     record,
		StatusCode: resp.StatusCode,
	}, nil
}
