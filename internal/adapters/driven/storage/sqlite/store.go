package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/strand-media/enricher/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// statusColumns lists the enrichment_status columns in scan order.
var statusColumns = []string{
	"asset_id", "state", "attempt_count", "last_attempt_at",
	"error_message", "correlation_id", "correlation_provenance",
}

// Store is the SQLite-backed persistence layer for enrichment state.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.enricher/data/enrichment.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".enricher", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "enrichment.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// StatusStore returns a StatusStore interface backed by this store.
func (s *Store) StatusStore() driven.StatusStore {
	return &statusStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Status Store ====================

// statusStore implements driven.StatusStore.
type statusStore struct {
	store *Store
}

var _ driven.StatusStore = (*statusStore)(nil)

// Get returns the stored status for an asset.
func (s *statusStore) Get(ctx context.Context, assetID string) (domain.EnrichmentStatus, error) {
	query, args, err := sq.Select(statusColumns...).
		From("enrichment_status").
		Where(sq.Eq{"asset_id": assetID}).
		ToSql()
	if err != nil {
		return domain.EnrichmentStatus{}, fmt.Errorf("building status query: %w", err)
	}

	return scanStatus(s.store.db.QueryRowContext(ctx, query, args...))
}

// MarkPending records a run start, creating the status row on first
// contact and incrementing the attempt count on every later run.
func (s *statusStore) MarkPending(ctx context.Context, assetID string, at time.Time) (domain.EnrichmentStatus, error) {
	if assetID == "" {
		return domain.EnrichmentStatus{}, domain.ErrInvalidInput
	}

	query, args, err := sq.Insert("enrichment_status").
		Columns("asset_id", "state", "attempt_count", "last_attempt_at", "error_message").
		Values(assetID, string(domain.StatePending), 1, at.UTC(), "").
		Suffix(`ON CONFLICT(asset_id) DO UPDATE SET
			state = excluded.state,
			attempt_count = attempt_count + 1,
			last_attempt_at = excluded.last_attempt_at,
			error_message = ''`).
		ToSql()
	if err != nil {
		return domain.EnrichmentStatus{}, fmt.Errorf("building pending upsert: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.EnrichmentStatus{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return domain.EnrichmentStatus{}, fmt.Errorf("marking pending: %w", err)
	}

	query, args, err = sq.Select(statusColumns...).
		From("enrichment_status").
		Where(sq.Eq{"asset_id": assetID}).
		ToSql()
	if err != nil {
		return domain.EnrichmentStatus{}, fmt.Errorf("building status query: %w", err)
	}

	status, err := scanStatus(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.EnrichmentStatus{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.EnrichmentStatus{}, fmt.Errorf("committing transaction: %w", err)
	}
	return status, nil
}

// MarkSuccess records a successful run and clears the error message.
func (s *statusStore) MarkSuccess(ctx context.Context, assetID string, at time.Time) error {
	if assetID == "" {
		return domain.ErrInvalidInput
	}

	query, args, err := sq.Insert("enrichment_status").
		Columns("asset_id", "state", "attempt_count", "last_attempt_at", "error_message").
		Values(assetID, string(domain.StateSuccess), 0, at.UTC(), "").
		Suffix(`ON CONFLICT(asset_id) DO UPDATE SET
			state = excluded.state,
			last_attempt_at = excluded.last_attempt_at,
			error_message = ''`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building success upsert: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("marking success: %w", err)
	}
	return nil
}

// MarkFailed records a failed run with the message truncated to the
// persisted limit.
func (s *statusStore) MarkFailed(ctx context.Context, assetID string, at time.Time, errorMessage string) error {
	if assetID == "" {
		return domain.ErrInvalidInput
	}

	query, args, err := sq.Insert("enrichment_status").
		Columns("asset_id", "state", "attempt_count", "last_attempt_at", "error_message").
		Values(assetID, string(domain.StateFailed), 0, at.UTC(), domain.TruncateError(errorMessage)).
		Suffix(`ON CONFLICT(asset_id) DO UPDATE SET
			state = excluded.state,
			last_attempt_at = excluded.last_attempt_at,
			error_message = excluded.error_message`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building failed upsert: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("marking failed: %w", err)
	}
	return nil
}

// SetCorrelationID records the resolved external key and its provenance.
func (s *statusStore) SetCorrelationID(ctx context.Context, assetID string, correlationID string,
	provenance domain.ExistingIDProvenance) error {
	if assetID == "" {
		return domain.ErrInvalidInput
	}

	query, args, err := sq.Insert("enrichment_status").
		Columns("asset_id", "correlation_id", "correlation_provenance").
		Values(assetID, correlationID, int(provenance)).
		Suffix(`ON CONFLICT(asset_id) DO UPDATE SET
			correlation_id = excluded.correlation_id,
			correlation_provenance = excluded.correlation_provenance`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building correlation upsert: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("setting correlation id: %w", err)
	}
	return nil
}

// SetMetadata stores the normalised output document for an asset.
func (s *statusStore) SetMetadata(ctx context.Context, assetID string, metadata *domain.NormalisedMetadata) error {
	if assetID == "" || metadata == nil {
		return domain.ErrInvalidInput
	}

	docJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	query, args, err := sq.Insert("enrichment_metadata").
		Columns("asset_id", "document", "updated_at").
		Values(assetID, string(docJSON), time.Now().UTC()).
		Suffix(`ON CONFLICT(asset_id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building metadata upsert: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}
	return nil
}

// GetMetadata returns the stored normalised document.
func (s *statusStore) GetMetadata(ctx context.Context, assetID string) (*domain.NormalisedMetadata, error) {
	query, args, err := sq.Select("document").
		From("enrichment_metadata").
		Where(sq.Eq{"asset_id": assetID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building metadata query: %w", err)
	}

	var docJSON string
	if err := s.store.db.QueryRowContext(ctx, query, args...).Scan(&docJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning metadata: %w", err)
	}

	var doc domain.NormalisedMetadata
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return &doc, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanStatus scans a single enrichment_status row.
func scanStatus(row rowScanner) (domain.EnrichmentStatus, error) {
	var status domain.EnrichmentStatus
	var state string
	var lastAttempt sql.NullTime
	var provenance int

	if err := row.Scan(&status.AssetID, &state, &status.AttemptCount, &lastAttempt,
		&status.ErrorMessage, &status.CorrelationID, &provenance); err != nil {
		if err == sql.ErrNoRows {
			return domain.EnrichmentStatus{}, domain.ErrNotFound
		}
		return domain.EnrichmentStatus{}, fmt.Errorf("scanning status: %w", err)
	}

	status.State = domain.EnrichmentState(state)
	status.CorrelationProvenance = domain.ExistingIDProvenance(provenance)
	if lastAttempt.Valid {
		status.LastAttemptAt = lastAttempt.Time
	}

	return status, nil
}
