package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strand-media/enricher/internal/config"
	"github.com/strand-media/enricher/internal/normalisers"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pipeline configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the pipeline configuration",
	Long: `Loads the configuration file, builds the configured auth strategy,
transport adapter and normaliser, and loads the mapping configuration.
Every problem is reported with the field that caused it.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	comps, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer comps.close()

	normaliserName := normalisers.PlaceholderType
	mappingNote := "none"
	if cfg.Source.Name != "" {
		if _, err := comps.loader.Mapping(cmd.Context()); err != nil {
			return fmt.Errorf("mapping configuration: %w", err)
		}
		normaliserName = cfg.Source.Name
		mappingNote = describeMappingLayers(cfg)
	}

	cmd.Printf("Configuration valid: %s\n", path)
	cmd.Printf("  Adapter:    %s (%s)\n", comps.connector.Name(), cfg.Source.Transport.Endpoint)
	cmd.Printf("  Auth:       %s\n", comps.strategy.Name())
	cmd.Printf("  Normaliser: %s (mapping: %s)\n", normaliserName, mappingNote)
	cmd.Printf("  Storage:    %s\n", describeStorage(cfg))
	cmd.Printf("  Secrets:    %s\n", describeSecrets(cfg))
	return nil
}

func describeMappingLayers(cfg *config.Config) string {
	var layers []string
	if cfg.Mapping.Object != nil {
		layers = append(layers, fmt.Sprintf("object %s/%s", cfg.Mapping.Object.Bucket, cfg.Mapping.Object.Key))
	}
	if cfg.Mapping.File != "" {
		layers = append(layers, "file "+cfg.Mapping.File)
	}
	if cfg.Mapping.Inline != nil {
		layers = append(layers, "inline")
	}
	return strings.Join(layers, ", ")
}

func describeStorage(cfg *config.Config) string {
	if cfg.Storage.Driver == config.StorageSQLite {
		path := cfg.Storage.Path
		if path == "" {
			path = "default location"
		}
		return fmt.Sprintf("%s (%s)", cfg.Storage.Driver, path)
	}
	return cfg.Storage.Driver
}

func describeSecrets(cfg *config.Config) string {
	if cfg.Secrets.Store == config.SecretsVault {
		return fmt.Sprintf("vault (%s)", cfg.Secrets.Vault.Address)
	}
	return cfg.Secrets.Store
}
