// Package config loads the pipeline configuration from a TOML file into
// typed structs. Defaults are applied and every section is validated at
// load time, so components downstream never re-check or silently patch
// their settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/normalisers"
	"github.com/strand-media/enricher/internal/normalisers/fieldmap"
	"github.com/strand-media/enricher/internal/retry"
)

// Storage drivers.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Secret store backends.
const (
	SecretsFile   = "file"
	SecretsVault  = "vault"
	SecretsMemory = "memory"
)

// Environment variable defaults for values that never belong in a
// configuration file.
const (
	DefaultVaultTokenEnv   = "ENRICHER_VAULT_TOKEN"
	DefaultObjectSecretEnv = "ENRICHER_OBJECTSTORE_SECRET"
)

// Duration is a time.Duration that decodes from TOML strings such as
// "500ms" or "30s".
type Duration time.Duration

// UnmarshalText parses the duration via time.ParseDuration.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full pipeline configuration.
type Config struct {
	// Source describes the external metadata system to enrich from.
	Source SourceConfig `toml:"source"`

	// Storage selects the enrichment status store backend.
	Storage StorageConfig `toml:"storage"`

	// Secrets selects the secret store backend.
	Secrets SecretsConfig `toml:"secrets"`

	// ObjectStore is the object store connection, required only when the
	// mapping configuration has an object layer.
	ObjectStore ObjectStoreConfig `toml:"objectstore"`

	// Mapping names the layers the normaliser mapping configuration is
	// merged from.
	Mapping Mapping `toml:"mapping"`

	// Retry holds the per-operation retry policies.
	Retry RetryConfig `toml:"retry"`
}

// SourceConfig describes one external metadata system.
type SourceConfig struct {
	// Name is the source type the normaliser registry selects on. Empty
	// runs the placeholder normaliser.
	Name string `toml:"name"`

	// Adapter is the transport adapter type, restjson or restxml.
	Adapter string `toml:"adapter"`

	// AuthStrategy is the authentication strategy type: oauth2, apikey
	// or basic.
	AuthStrategy string `toml:"auth_strategy"`

	// SecretRef names the credential blob in the secret store.
	SecretRef string `toml:"secret_ref"`

	// Transport is the metadata API connection block.
	Transport TransportConfig `toml:"transport"`

	// Auth is the authentication endpoint block.
	Auth AuthConfig `toml:"auth"`
}

// TransportConfig is the metadata API connection block.
type TransportConfig struct {
	// Endpoint is the metadata API base URL.
	Endpoint string `toml:"endpoint"`

	// Headers are static request headers. Credential headers from the
	// secret store override them on conflict.
	Headers map[string]string `toml:"headers"`

	// Options are adapter-specific settings passed through verbatim,
	// for example "path", "id_param", "root_element", "timeout",
	// "rate_limit".
	Options map[string]string `toml:"options"`
}

// AuthConfig is the authentication endpoint block.
type AuthConfig struct {
	// Endpoint is the auth endpoint URL. Required for oauth2, unused by
	// the offline strategies.
	Endpoint string `toml:"endpoint"`

	// Options are strategy-specific settings passed through verbatim,
	// for example "header", "key_placement", "scopes".
	Options map[string]string `toml:"options"`
}

// StorageConfig selects the status store backend.
type StorageConfig struct {
	// Driver is sqlite or memory. Default sqlite.
	Driver string `toml:"driver"`

	// Path is the sqlite data directory. Empty uses ~/.enricher/data.
	Path string `toml:"path"`
}

// SecretsConfig selects the secret store backend.
type SecretsConfig struct {
	// Store is file, vault or memory. Default file.
	Store string `toml:"store"`

	// Dir is the file store directory. Empty uses ~/.enricher/secrets.
	Dir string `toml:"dir"`

	// Vault is the vault-style store connection.
	Vault VaultConfig `toml:"vault"`
}

// VaultConfig is the vault-style secret store connection.
type VaultConfig struct {
	// Address is the server base URL.
	Address string `toml:"address"`

	// TokenEnv names the environment variable holding the access token.
	// Default ENRICHER_VAULT_TOKEN. The token itself never appears in
	// configuration.
	TokenEnv string `toml:"token_env"`

	// Mount is the KV mount path. Default "secret".
	Mount string `toml:"mount"`
}

// ObjectStoreConfig is the object store connection.
type ObjectStoreConfig struct {
	// Endpoint is the server URL, scheme included.
	Endpoint string `toml:"endpoint"`

	// AccessKey is the static access key ID.
	AccessKey string `toml:"access_key"`

	// SecretKeyEnv names the environment variable holding the secret
	// key. Default ENRICHER_OBJECTSTORE_SECRET.
	SecretKeyEnv string `toml:"secret_key_env"`

	// Region is optional.
	Region string `toml:"region"`

	// UseSSL forces TLS even when the endpoint scheme is http.
	UseSSL bool `toml:"use_ssl"`
}

// Configured reports whether an object store connection is set up.
func (c ObjectStoreConfig) Configured() bool { return c.Endpoint != "" }

// Mapping names the layers the mapping configuration merges from.
// Precedence is inline over file over object store.
type Mapping struct {
	// File is a JSON or YAML mapping document on disk.
	File string `toml:"file"`

	// Object locates a mapping document in the object store.
	Object *ObjectRef `toml:"object"`

	// Inline embeds mapping configuration directly.
	Inline *fieldmap.MappingConfig `toml:"inline"`
}

// ObjectRef locates a document in the object store.
type ObjectRef struct {
	Bucket string `toml:"bucket"`
	Key    string `toml:"key"`
}

// Configured reports whether any mapping layer is set.
func (m Mapping) Configured() bool {
	return m.File != "" || m.Object != nil || m.Inline != nil
}

// RetryConfig holds the per-operation retry policies.
type RetryConfig struct {
	// Auth is the policy for authentication attempts.
	Auth RetrySpec `toml:"auth"`

	// Fetch is the policy for metadata fetches.
	Fetch RetrySpec `toml:"fetch"`
}

// RetrySpec is one retry policy.
type RetrySpec struct {
	// MaxRetries is the number of retries after the first attempt.
	// Default 3; an explicit zero disables retries.
	MaxRetries *int `toml:"max_retries"`

	// InitialBackoff is the delay before the first retry. Default 500ms.
	InitialBackoff Duration `toml:"initial_backoff"`

	// Multiplier grows the delay per retry. Default 2.0.
	Multiplier float64 `toml:"multiplier"`

	// MaxBackoff caps the delay. Default 30s.
	MaxBackoff Duration `toml:"max_backoff"`
}

// Config converts the block into the retry executor's configuration.
// Call after Load so defaults are in place.
func (s RetrySpec) Config() retry.Config {
	cfg := retry.Config{
		InitialBackoff: s.InitialBackoff.Std(),
		Multiplier:     s.Multiplier,
		MaxBackoff:     s.MaxBackoff.Std(),
	}
	if s.MaxRetries != nil {
		cfg.MaxRetries = *s.MaxRetries
	}
	return cfg
}

// DefaultPath returns the default configuration file location,
// ~/.enricher/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".enricher", "config.toml"), nil
}

// Load reads, defaults and validates a configuration file. Unknown keys
// are rejected so typos surface immediately.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return &cfg, nil
}

// applyDefaults fills the documented defaults for unset fields.
func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageSQLite
	}
	if c.Secrets.Store == "" {
		c.Secrets.Store = SecretsFile
	}
	if c.Secrets.Vault.TokenEnv == "" {
		c.Secrets.Vault.TokenEnv = DefaultVaultTokenEnv
	}
	if c.Secrets.Vault.Mount == "" {
		c.Secrets.Vault.Mount = "secret"
	}
	if c.ObjectStore.SecretKeyEnv == "" {
		c.ObjectStore.SecretKeyEnv = DefaultObjectSecretEnv
	}
	c.Retry.Auth.applyDefaults()
	c.Retry.Fetch.applyDefaults()
}

func (s *RetrySpec) applyDefaults() {
	def := retry.DefaultConfig()
	if s.MaxRetries == nil {
		retries := def.MaxRetries
		s.MaxRetries = &retries
	}
	if s.InitialBackoff == 0 {
		s.InitialBackoff = Duration(def.InitialBackoff)
	}
	if s.Multiplier == 0 {
		s.Multiplier = def.Multiplier
	}
	if s.MaxBackoff == 0 {
		s.MaxBackoff = Duration(def.MaxBackoff)
	}
}

// Validate reports every configuration problem at once. Adapter,
// strategy and source type names are membership-checked later by the
// factory and registries that own them; validation here covers the
// structural requirements.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Source.Adapter) == "" {
		errs = append(errs, fmt.Errorf("source.adapter is required: %w", domain.ErrInvalidInput))
	}
	if strings.TrimSpace(c.Source.AuthStrategy) == "" {
		errs = append(errs, fmt.Errorf("source.auth_strategy is required: %w", domain.ErrInvalidInput))
	}
	if strings.TrimSpace(c.Source.SecretRef) == "" {
		errs = append(errs, fmt.Errorf("source.secret_ref is required: %w", domain.ErrInvalidInput))
	}
	if err := validateURL("source.transport.endpoint", c.Source.Transport.Endpoint, true); err != nil {
		errs = append(errs, err)
	}
	needsAuthEndpoint := c.Source.AuthStrategy == "oauth2"
	if err := validateURL("source.auth.endpoint", c.Source.Auth.Endpoint, needsAuthEndpoint); err != nil {
		errs = append(errs, err)
	}

	switch c.Storage.Driver {
	case StorageSQLite, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q: %w", c.Storage.Driver, domain.ErrUnsupportedType))
	}

	switch c.Secrets.Store {
	case SecretsFile, SecretsMemory:
	case SecretsVault:
		if err := validateURL("secrets.vault.address", c.Secrets.Vault.Address, true); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("secrets.store %q: %w", c.Secrets.Store, domain.ErrUnsupportedType))
	}

	if c.Mapping.Object != nil {
		if c.Mapping.Object.Bucket == "" || c.Mapping.Object.Key == "" {
			errs = append(errs, fmt.Errorf("mapping.object needs bucket and key: %w", domain.ErrInvalidInput))
		}
		if !c.ObjectStore.Configured() {
			errs = append(errs, fmt.Errorf("mapping.object is set but no object store is configured: %w", domain.ErrMissingConfig))
		}
	}
	if c.ObjectStore.Configured() {
		if err := validateURL("objectstore.endpoint", c.ObjectStore.Endpoint, true); err != nil {
			errs = append(errs, err)
		}
		if c.ObjectStore.AccessKey == "" {
			errs = append(errs, fmt.Errorf("objectstore.access_key is required: %w", domain.ErrInvalidInput))
		}
	}

	if c.Source.Name != "" && !c.Mapping.Configured() {
		errs = append(errs, fmt.Errorf("source.name %q needs a mapping configuration: %w",
			c.Source.Name, domain.ErrMissingConfig))
	}

	if err := c.Retry.Auth.validate("retry.auth"); err != nil {
		errs = append(errs, err)
	}
	if err := c.Retry.Fetch.validate("retry.fetch"); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (s RetrySpec) validate(section string) error {
	var errs []error
	if s.MaxRetries != nil && *s.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s.max_retries must not be negative: %w", section, domain.ErrInvalidInput))
	}
	if s.InitialBackoff < 0 || s.MaxBackoff < 0 {
		errs = append(errs, fmt.Errorf("%s backoffs must not be negative: %w", section, domain.ErrInvalidInput))
	}
	if s.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("%s.multiplier must be at least 1: %w", section, domain.ErrInvalidInput))
	}
	return errors.Join(errs...)
}

// validateURL checks a URL field for presence and an http(s) scheme.
func validateURL(field, value string, required bool) error {
	if strings.TrimSpace(value) == "" {
		if required {
			return fmt.Errorf("%s is required: %w", field, domain.ErrInvalidInput)
		}
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s %q is not a valid http(s) URL: %w", field, value, domain.ErrInvalidInput)
	}
	return nil
}

// AdapterConfig converts the source block into the adapter's static
// configuration.
func (s SourceConfig) AdapterConfig() domain.AdapterConfig {
	return domain.AdapterConfig{
		Endpoint: s.Transport.Endpoint,
		Headers:  s.Transport.Headers,
		Options:  s.Transport.Options,
	}
}

// AuthConfig converts the source block into the strategy's static
// configuration.
func (s SourceConfig) AuthConfig() domain.AuthConfig {
	return domain.AuthConfig{
		Endpoint: s.Auth.Endpoint,
		Options:  s.Auth.Options,
	}
}

// MappingSources converts the mapping block into the loader's layer set.
func (c *Config) MappingSources() normalisers.MappingSources {
	sources := normalisers.MappingSources{
		Inline: c.Mapping.Inline,
		File:   c.Mapping.File,
	}
	if c.Mapping.Object != nil {
		sources.Object = &normalisers.ObjectRef{
			Bucket: c.Mapping.Object.Bucket,
			Key:    c.Mapping.Object.Key,
		}
	}
	return sources
}
