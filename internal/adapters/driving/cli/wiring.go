package cli

import (
	"fmt"
	"os"
	"path/filepath"

	authcache "github.com/strand-media/enricher/internal/adapters/driven/auth"
	"github.com/strand-media/enricher/internal/adapters/driven/objectstore/minio"
	"github.com/strand-media/enricher/internal/adapters/driven/secrets"
	"github.com/strand-media/enricher/internal/adapters/driven/storage/memory"
	"github.com/strand-media/enricher/internal/adapters/driven/storage/sqlite"
	"github.com/strand-media/enricher/internal/auth"
	"github.com/strand-media/enricher/internal/config"
	"github.com/strand-media/enricher/internal/connectors"
	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
	"github.com/strand-media/enricher/internal/core/ports/driving"
	"github.com/strand-media/enricher/internal/core/services"
	"github.com/strand-media/enricher/internal/logger"
	"github.com/strand-media/enricher/internal/normalisers"
	"github.com/strand-media/enricher/internal/normalisers/mec"
)

// components holds everything the pipeline needs except the status
// store, which is enough for configuration validation without touching
// the database.
type components struct {
	cfg         *config.Config
	strategy    driven.AuthStrategy
	connector   driven.Connector
	normaliser  driven.Normaliser
	credentials driven.CredentialProvider
	auth        driven.AuthProvider
	loader      *normalisers.MappingLoader
}

func (c *components) close() {
	if c.loader != nil {
		if err := c.loader.Close(); err != nil {
			logger.Warn("Closing mapping loader: %v", err)
		}
	}
}

// pipeline is the fully wired enrichment service plus the stores the
// commands read directly.
type pipeline struct {
	comps    *components
	enricher driving.Enricher
	statuses driven.StatusStore
	closers  []func() error
}

func (p *pipeline) close() {
	if p.comps != nil {
		p.comps.close()
	}
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil {
			logger.Warn("Closing pipeline: %v", err)
		}
	}
}

// newPipeline builds the pipeline from the configuration file. Tests
// swap it out for a stub.
var newPipeline = buildPipeline

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func buildPipeline() (*pipeline, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	comps, err := buildComponents(cfg)
	if err != nil {
		return nil, err
	}

	statuses, closers, err := buildStatusStore(cfg)
	if err != nil {
		comps.close()
		return nil, err
	}

	svc := services.NewEnrichmentService(
		comps.strategy,
		comps.connector,
		comps.normaliser,
		comps.credentials,
		comps.auth,
		statuses,
		cfg.Source.SecretRef,
		cfg.Retry.Fetch.Config(),
	)

	return &pipeline{
		comps:    comps,
		enricher: svc,
		statuses: statuses,
		closers:  closers,
	}, nil
}

// buildComponents wires the strategy, connector, normaliser and
// credential layers from a loaded configuration.
func buildComponents(cfg *config.Config) (*components, error) {
	secretStore, err := buildSecretStore(cfg)
	if err != nil {
		return nil, err
	}

	strategy, err := auth.NewRegistry().Create(cfg.Source.AuthStrategy, cfg.Source.AuthConfig())
	if err != nil {
		return nil, fmt.Errorf("build auth strategy: %w", err)
	}

	connector, err := connectors.NewFactory().Create(cfg.Source.Adapter, cfg.Source.AdapterConfig(), strategy)
	if err != nil {
		return nil, fmt.Errorf("build connector: %w", err)
	}

	normaliser, loader, err := buildNormaliser(cfg)
	if err != nil {
		return nil, err
	}

	return &components{
		cfg:         cfg,
		strategy:    strategy,
		connector:   connector,
		normaliser:  normaliser,
		credentials: authcache.NewCredentialCache(secretStore),
		auth:        authcache.NewAuthCache(cfg.Retry.Auth.Config()),
		loader:      loader,
	}, nil
}

func buildSecretStore(cfg *config.Config) (driven.SecretStore, error) {
	switch cfg.Secrets.Store {
	case config.SecretsFile:
		dir := cfg.Secrets.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve home directory: %w", err)
			}
			dir = filepath.Join(home, ".enricher", "secrets")
		}
		store, err := secrets.NewFileStore(dir)
		if err != nil {
			return nil, fmt.Errorf("build secret store: %w", err)
		}
		return store, nil
	case config.SecretsVault:
		token := os.Getenv(cfg.Secrets.Vault.TokenEnv)
		if token == "" {
			return nil, fmt.Errorf("vault token environment variable %s is not set: %w",
				cfg.Secrets.Vault.TokenEnv, domain.ErrMissingConfig)
		}
		return secrets.NewVaultStore(cfg.Secrets.Vault.Address, token, cfg.Secrets.Vault.Mount)
	case config.SecretsMemory:
		return secrets.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("secret store %q: %w", cfg.Secrets.Store, domain.ErrUnsupportedType)
	}
}

// buildNormaliser assembles the normaliser selection for the configured
// source. Without a source name the placeholder handles every record;
// with one, a mapping-driven normaliser is registered for it and the
// facade routes by source type.
func buildNormaliser(cfg *config.Config) (driven.Normaliser, *normalisers.MappingLoader, error) {
	registry := normalisers.NewRegistry()
	if cfg.Source.Name == "" {
		return normalisers.NewFacade("", registry), nil, nil
	}

	var store driven.ObjectStore
	if cfg.Mapping.Object != nil {
		secretKey := os.Getenv(cfg.ObjectStore.SecretKeyEnv)
		if secretKey == "" {
			return nil, nil, fmt.Errorf("object store secret environment variable %s is not set: %w",
				cfg.ObjectStore.SecretKeyEnv, domain.ErrMissingConfig)
		}
		s, err := minio.NewStore(minio.Config{
			EndpointURL:     cfg.ObjectStore.Endpoint,
			AccessKeyID:     cfg.ObjectStore.AccessKey,
			SecretAccessKey: secretKey,
			Region:          cfg.ObjectStore.Region,
			UseSSL:          cfg.ObjectStore.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("build object store: %w", err)
		}
		store = s
	}

	loader, err := normalisers.NewMappingLoader(cfg.MappingSources(), store)
	if err != nil {
		return nil, nil, fmt.Errorf("build mapping loader: %w", err)
	}

	normaliser, err := mec.New(cfg.Source.Name, loader)
	if err != nil {
		if closeErr := loader.Close(); closeErr != nil {
			logger.Warn("Closing mapping loader: %v", closeErr)
		}
		return nil, nil, fmt.Errorf("build normaliser: %w", err)
	}
	registry.Register(normaliser)

	return normalisers.NewFacade(cfg.Source.Name, registry), loader, nil
}

func buildStatusStore(cfg *config.Config) (driven.StatusStore, []func() error, error) {
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		store, err := sqlite.NewStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open status store: %w", err)
		}
		return store.StatusStore(), []func() error{store.Close}, nil
	case config.StorageMemory:
		return memory.NewStatusStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("storage driver %q: %w", cfg.Storage.Driver, domain.ErrUnsupportedType)
	}
}
