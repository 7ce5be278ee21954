// Package restxml implements the XML REST metadata adapter. Responses are
// decoded into the same generic record shape the JSON adapter produces, so
// normalisers never see transport-specific structures.
package restxml

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/strand-media/enricher/internal/connectors/httpapi"
	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// AdapterName is the registry name of this adapter.
const AdapterName = "restxml"

// Ensure Adapter implements the Connector interface.
var _ driven.Connector = (*Adapter)(nil)

// Adapter fetches one record per correlation ID from an XML REST API.
type Adapter struct {
	client        *httpapi.Client
	strategy      driven.AuthStrategy
	pathTemplate  string
	idParam       string
	rootElement   string
	configHeaders map[string]string
}

// New builds the adapter from static configuration.
// Options: "path" and "id_param" as in the JSON adapter, "root_element"
// (expected document root; when set, a different root is a terminal
// failure), plus the shared transport options read by
// httpapi.ConfigFromOptions.
func New(cfg domain.AdapterConfig, strategy driven.AuthStrategy) (*Adapter, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("restxml adapter requires an endpoint: %w", domain.ErrInvalidInput)
	}
	clientCfg, err := httpapi.ConfigFromOptions(cfg.Endpoint, cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("restxml adapter: %w", err)
	}
	return &Adapter{
		client:        httpapi.NewClient(clientCfg),
		strategy:      strategy,
		pathTemplate:  cfg.Option("path", "/{id}"),
		idParam:       cfg.Option("id_param", "id"),
		rootElement:   cfg.Option("root_element", ""),
		configHeaders: cfg.Headers,
	}, nil
}

// Name returns the adapter type identifier.
func (a *Adapter) Name() string { return AdapterName }

// FullSourceName returns the attribution string.
func (a *Adapter) FullSourceName() string {
	return AdapterName + ":" + a.strategy.Name()
}

// FetchMetadata retrieves one record and converts it to the generic map
// convention. The document root is unwrapped so the record starts at the
// root's children, matching the shape JSON APIs return directly.
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
			{"Accept": "application/xml"},
			a.strategy.AuthHeaders(auth),
			a.configHeaders,
			credentialHeaders,
		},
	})
	if err != nil {
		return httpapi.FailureResult(err), err
	}

	doc, decodeErr := Decode(resp.Body)
	if decodeErr != nil {
		return domain.FetchResult{
			Success:    false,
			StatusCode: resp.StatusCode,
			Error:      fmt.Sprintf("response is not well-formed XML: %v", decodeErr),
		}, nil
	}

	record, unwrapErr := unwrapRoot(doc, a.rootElement)
	if unwrapErr != nil {
		return domain.FetchResult{
			Success:    false,
			StatusCode: resp.StatusCode,
			Error:      unwrapErr.Error(),
		}, nil
	}

	return domain.FetchResult{
		Success:    true,
		Record:     record,
		StatusCode: resp.StatusCode,
	}, nil
}

// unwrapRoot strips the single document root, optionally checking its
// name, and returns the element map beneath it.
func unwrapRoot(doc map[string]any, want string) (map[string]any, error) {
	for name, value := range doc {
		if want != "" && name != want {
			return nil, fmt.Errorf("root element is <%s>, expected <%s>", name, want)
		}
		record, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("root element <%s> has no child elements", name)
		}
		return record, nil
	}
	return nil, errors.New("document has no root element")
}
