package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driving"
)

var (
	enrichAsset    string
	enrichFilename string
	enrichOverride string
	enrichTrigger  string
	enrichBatch    string
	enrichWorkers  int
	enrichJSON     bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run metadata enrichment for one or more assets",
	Long: `Runs the enrichment pipeline: resolve the asset's correlation ID,
authenticate against the configured source, fetch the raw record,
normalise it and record the outcome.

A single run takes --asset with optional --filename and --override, or a
full trigger record via --trigger. Batch mode reads newline-delimited
trigger records from --batch and enriches them on a worker pool, writing
one JSON report per line.`,
	Args: cobra.NoArgs,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().StringVar(&enrichAsset, "asset", "", "asset ID to enrich")
	enrichCmd.Flags().StringVar(&enrichFilename, "filename", "", "asset filename, used to derive the correlation ID")
	enrichCmd.Flags().StringVar(&enrichOverride, "override", "", "explicit correlation ID, wins over every other source")
	enrichCmd.Flags().StringVar(&enrichTrigger, "trigger", "", "path to a JSON trigger record")
	enrichCmd.Flags().StringVar(&enrichBatch, "batch", "", "path to newline-delimited JSON trigger records")
	enrichCmd.Flags().IntVar(&enrichWorkers, "workers", 4, "worker count for batch mode")
	enrichCmd.Flags().BoolVar(&enrichJSON, "json", false, "output the run report as JSON")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	if enrichBatch != "" {
		return runEnrichBatch(cmd, p)
	}

	req, err := singleRequest()
	if err != nil {
		return err
	}

	report, runErr := p.enricher.Enrich(cmd.Context(), req)
	if err := printReport(cmd, report); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("enrichment failed: %w", runErr)
	}
	return nil
}

func singleRequest() (domain.EnrichmentRequest, error) {
	if enrichTrigger != "" {
		data, err := os.ReadFile(enrichTrigger)
		if err != nil {
			return domain.EnrichmentRequest{}, fmt.Errorf("read trigger record: %w", err)
		}
		var req domain.EnrichmentRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return domain.EnrichmentRequest{}, fmt.Errorf("parse trigger record: %w", err)
		}
		return req, nil
	}

	if enrichAsset == "" {
		return domain.EnrichmentRequest{}, errors.New("one of --asset, --trigger or --batch is required")
	}
	return domain.EnrichmentRequest{
		AssetID:               enrichAsset,
		Filename:              enrichFilename,
		CorrelationIDOverride: enrichOverride,
	}, nil
}

func printReport(cmd *cobra.Command, report *driving.RunReport) error {
	if enrichJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Asset:          %s\n", report.AssetID)
	cmd.Printf("State:          %s\n", report.State)
	if report.CorrelationID != "" {
		cmd.Printf("Correlation ID: %s (%s)\n", report.CorrelationID, report.CorrelationSource)
	}
	if report.SourceSystem != "" {
		cmd.Printf("Source:         %s\n", report.SourceSystem)
	}
	if report.FetchAttempts > 0 {
		cmd.Printf("Fetch attempts: %d\n", report.FetchAttempts)
	}
	cmd.Printf("Duration:       %s\n", report.Duration().Round(time.Millisecond))
	if report.Error != "" {
		cmd.Printf("Error:          %s\n", report.Error)
	}
	return nil
}

// batchLine is one NDJSON output record of a batch run.
type batchLine struct {
	RunID string `json:"run_id"`
	*driving.RunReport
}

func runEnrichBatch(cmd *cobra.Command, p *pipeline) error {
	requests, err := readTriggerRecords(enrichBatch)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return errors.New("batch file contains no trigger records")
	}

	workers := enrichWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(requests) {
		workers = len(requests)
	}

	ctx := cmd.Context()
	type job struct {
		idx int
		req domain.EnrichmentRequest
	}

	// Results are indexed by input position so output order matches the
	// batch file regardless of which worker finished first.
	results := make([]batchLine, len(requests))
	jobs := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				report, _ := p.enricher.Enrich(ctx, j.req)
				results[j.idx] = batchLine{RunID: uuid.NewString(), RunReport: report}
			}
		}()
	}

feed:
	for i, req := range requests {
		select {
		case jobs <- job{idx: i, req: req}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	failures := 0
	completed := 0
	for _, line := range results {
		if line.RunReport == nil {
			continue
		}
		completed++
		if line.State == domain.StateFailed {
			failures++
		}
		data, err := json.Marshal(line)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		cmd.Println(string(data))
	}

	cmd.PrintErrf("Enriched %d of %d assets, %d failed.\n", completed, len(requests), failures)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d enrichments failed", failures, len(requests))
	}
	return nil
}

func readTriggerRecords(path string) ([]domain.EnrichmentRequest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer file.Close()

	var requests []domain.EnrichmentRequest
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var req domain.EnrichmentRequest
		if err := json.Unmarshal(line, &req); err != nil {
			return nil, fmt.Errorf("parse trigger record on line %d: %w", lineNo, err)
		}
		requests = append(requests, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	return requests, nil
}
