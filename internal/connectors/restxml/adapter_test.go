package restxml

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// stubStrategy implements driven.AuthStrategy for adapter tests.
type stubStrategy struct {
	name    string
	headers map[string]string
	params  map[string]string
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Authenticate(_ context.Context, _ driven.Credentials) (domain.AuthResult, error) {
	return domain.AuthResult{Success: true, AccessToken: "stub"}, nil
}

func (s *stubStrategy) AuthHeaders(_ domain.AuthResult) map[string]string { return s.headers }

func (s *stubStrategy) QueryParams(_ domain.AuthResult) map[string]string { return s.params }

func (s *stubStrategy) SupportsRefresh() bool { return false }

func (s *stubStrategy) IsTokenExpiredError(_ int, _ string) bool { return false }

// TestNew_RequiresEndpoint tests constructor validation
func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(domain.AdapterConfig{}, &stubStrategy{name: "apikey"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAdapter_Name tests the registry identifiers
func TestAdapter_Name(t *testing.T) {
	adapter, err := New(domain.AdapterConfig{Endpoint: "https://api.example.com"},
		&stubStrategy{name: "basic"})
	require.NoError(t, err)

	assert.Equal(t, "restxml", adapter.Name())
	assert.Equal(t, "restxml:basic", adapter.FullSourceName())
}

// TestAdapter_FetchMetadata_Success tests fetch, decode, and root unwrap
func TestAdapter_FetchMetadata_Success(t *testing.T) {
	var gotPath, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`<?xml version="1.0"?>
			<movie>
				<title>Night Train</title>
				<actors>
					<actor order="1">Jane Actor</actor>
					<actor order="2">John Smith</actor>
				</actors>
			</movie>`))
	}))
	defer server.Close()

	adapter, err := New(domain.AdapterConfig{
		Endpoint: server.URL,
		Options:  map[string]string{"path": "/titles/{id}", "root_element": "movie"},
	}, &stubStrategy{name: "apikey"})
	require.NoError(t, err)

	result, err := adapter.FetchMetadata(context.Background(), "tt0111161",
		domain.AuthResult{Success: true}, nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "/titles/tt0111161", gotPath)
	assert.Equal(t, "application/xml", gotAccept)

	assert.Equal(t, "Night Train", result.Record["title"])
	actors := result.Record["actors"].(map[string]any)
	list := actors["actor"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "Jane Actor", list[0].(map[string]any)["#text"])
	assert.Equal(t, "1", list[0].(map[string]any)["@order"])
}

// TestAdapter_FetchMetadata_RootMismatch tests that a wrong root is terminal
func TestAdapter_FetchMetadata_RootMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<error><message>bad request</message></error>`))
	}))
	defer server.Close()

	adapter, err := New(domain.AdapterConfig{
		Endpoint: server.URL,
		Options:  map[string]string{"root_element": "movie"},
	}, &stubStrategy{name: "apikey"})
	require.NoError(t, err)

	result, err := adapter.FetchMetadata(context.Background(), "id-1",
		domain.AuthResult{Success: true}, nil)

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "<error>")
	assert.Contains(t, result.Error, "<movie>")
}

// TestAdapter_FetchMetadata_TextOnlyRoot tests that a childless root is terminal
func TestAdapter_FetchMetadata_TextOnlyRoot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<movie>nothing here</movie>`))
	}))
	defer server.Close()

	adapter, err := New(domain.AdapterConfig{Endpoint: server.URL}, &stubStrategy{name: "apikey"})
	require.NoError(t, err)

	result, err := adapter.FetchMetadata(context.Background(), "id-1",
		domain.AuthResult{Success: true}, nil)

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no child elements")
}

// TestAdapter_FetchMetadata_MalformedXML tests that broken bodies are terminal
func TestAdapter_FetchMetadata_MalformedXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<movie><title>Night`))
	}))
	defer server.Close()

	adapter, err := New(domain.AdapterConfig{Endpoint: server.URL}, &stubStrategy{name: "apikey"})
	require.NoError(t, err)

	result, err := adapter.FetchMetadata(context.Background(), "id-1",
		domain.AuthResult{Success: true}, nil)

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 200, result.StatusCode)
	assert.Contains(t, result.Error, "not well-formed")
}

// TestAdapter_FetchMetadata_HTTPFailure tests that status errors stay retryable
func TestAdapter_FetchMetadata_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer server.Close()

	adapter, err := New(domain.AdapterConfig{Endpoint: server.URL}, &stubStrategy{name: "apikey"})
	require.NoError(t, err)

	result, err := adapter.FetchMetadata(context.Background(), "id-1",
		domain.AuthResult{Success: true}, nil)

	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 502, result.StatusCode)
}
