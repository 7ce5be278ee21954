package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/strand-media/enricher/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status <asset-id>",
	Short: "Show the enrichment status of an asset",
	Long: `Shows the durable enrichment record for an asset: state, attempt count,
the correlation ID the last run resolved and the failure message if the
last run failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	assetID := args[0]

	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx := cmd.Context()
	status, err := p.statuses.Get(ctx, assetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no enrichment recorded for asset %q", assetID)
		}
		return fmt.Errorf("read status: %w", err)
	}

	metadata, err := p.statuses.GetMetadata(ctx, assetID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("read metadata: %w", err)
	}

	if statusJSON {
		out := struct {
			Status   domain.EnrichmentStatus    `json:"status"`
			Metadata *domain.NormalisedMetadata `json:"metadata,omitempty"`
		}{Status: status, Metadata: metadata}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Asset:          %s\n", status.AssetID)
	cmd.Printf("State:          %s\n", status.State)
	cmd.Printf("Attempts:       %d\n", status.AttemptCount)
	if !status.LastAttemptAt.IsZero() {
		cmd.Printf("Last attempt:   %s\n", status.LastAttemptAt.Format(time.RFC3339))
	}
	if status.CorrelationID != "" {
		cmd.Printf("Correlation ID: %s%s\n", status.CorrelationID, provenanceLabel(status.CorrelationProvenance))
	}
	if status.ErrorMessage != "" {
		cmd.Printf("Error:          %s\n", status.ErrorMessage)
	}
	if metadata != nil {
		cmd.Printf("Document:       stored (fetched %s from %s)\n",
			metadata.Attribution.FetchedAt.Format(time.RFC3339), metadata.Attribution.SourceSystem)
	} else {
		cmd.Println("Document:       none")
	}
	return nil
}

func provenanceLabel(p domain.ExistingIDProvenance) string {
	switch p {
	case domain.ProvenanceFromSuccess:
		return " (from successful run)"
	case domain.ProvenanceFromFailure:
		return " (from failed run)"
	default:
		return ""
	}
}
