package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

const defaultVaultTimeout = 10 * time.Second

// Ensure VaultStore implements the SecretStore interface.
var _ driven.SecretStore = (*VaultStore)(nil)

// VaultStore reads secrets from an HTTP key-value store speaking the
// vault KV v2 protocol: GET <addr>/v1/<mount>/data/<ref> with the token
// in X-Vault-Token, credential blob under the data.data envelope.
type VaultStore struct {
	addr       string
	token      string
	mount      string
	httpClient *http.Client
}

// NewVaultStore creates a store against addr using token. An empty mount
// defaults to "secret".
func NewVaultStore(addr, token, mount string) (*VaultStore, error) {
	if strings.TrimSpace(addr) == "" || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("vault store requires addr and token: %w", domain.ErrInvalidInput)
	}
	if mount == "" {
		mount = "secret"
	}
	return &VaultStore{
		addr:       strings.TrimRight(addr, "/"),
		token:      token,
		mount:      strings.Trim(mount, "/"),
		httpClient: &http.Client{Timeout: defaultVaultTimeout},
	}, nil
}

// GetSecret fetches and unwraps one KV v2 entry.
func (s *VaultStore) GetSecret(ctx context.Context, secretRef string) ([]byte, error) {
	if secretRef == "" {
		return nil, fmt.Errorf("secret reference is required: %w", domain.ErrInvalidInput)
	}

	url := fmt.Sprintf("%s/v1/%s/data/%s", s.addr, s.mount, strings.TrimLeft(secretRef, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build vault request: %w", err)
	}
	req.Header.Set("X-Vault-Token", s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read vault response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("secret %q: %w", secretRef, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vault read failed for %q: status %d", secretRef, resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			Data json.RawMessage `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode vault envelope for %q: %w", secretRef, err)
	}
	if len(envelope.Data.Data) == 0 {
		return nil, fmt.Errorf("vault response for %q missing data: %w", secretRef, domain.ErrNotFound)
	}
	return envelope.Data.Data, nil
}
