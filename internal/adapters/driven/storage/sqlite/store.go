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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lexwatch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lexwatch/data/lexwatch.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lexwatch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lexwatch.db")

	// WAL mode for better concurrency between the poll loop and queries.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
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
			continue
		}
		if version <= currentVersion {
			continue
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

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or fully replaces a document record.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}

	keywordsJSON, err := json.Marshal(doc.Keywords)
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (origin, name, content_url, category, keywords, text, status, version, fetched_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(origin, name) DO UPDATE SET
			content_url = excluded.content_url,
			category = excluded.category,
			keywords = excluded.keywords,
			text = excluded.text,
			status = excluded.status,
			version = excluded.version,
			fetched_at = excluded.fetched_at,
			updated_at = excluded.updated_at
	`, doc.Identity.Origin, doc.Identity.Name, doc.ContentURL, doc.Category,
		string(keywordsJSON), doc.Text, doc.Status.String(), doc.Version,
		formatNullableTime(doc.FetchedAt), formatNullableTime(doc.UpdatedAt))

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by identity.
func (s *documentStore) GetDocument(ctx context.Context, id domain.Identity) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT origin, name, content_url, category, keywords, text, status, version, fetched_at, updated_at
		FROM documents WHERE origin = ? AND name = ?
	`, id.Origin, id.Name)

	doc, err := scanDocument(row.Scan)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListByOrigin returns documents for one origin, insertion-ordered.
func (s *documentStore) ListByOrigin(ctx context.Context, origin string) ([]domain.Document, error) {
	return s.queryDocuments(ctx, `
		SELECT origin, name, content_url, category, keywords, text, status, version, fetched_at, updated_at
		FROM documents WHERE origin = ? ORDER BY rowid
	`, origin)
}

// ListAll returns every document record, insertion-ordered.
func (s *documentStore) ListAll(ctx context.Context) ([]domain.Document, error) {
	return s.queryDocuments(ctx, `
		SELECT origin, name, content_url, category, keywords, text, status, version, fetched_at, updated_at
		FROM documents ORDER BY rowid
	`)
}

// DeleteByOrigin removes all document records for an origin.
func (s *documentStore) DeleteByOrigin(ctx context.Context, origin string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE origin = ?", origin)
	if err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	return nil
}

// queryDocuments runs a document SELECT and scans all rows.
func (s *documentStore) queryDocuments(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// scanDocument scans one document row via the given Scan function.
func scanDocument(scan func(dest ...any) error) (*domain.Document, error) {
	var doc domain.Document
	var keywordsJSON, status string
	var fetchedAt, updatedAt sql.NullString

	if err := scan(&doc.Identity.Origin, &doc.Identity.Name, &doc.ContentURL,
		&doc.Category, &keywordsJSON, &doc.Text, &status, &doc.Version,
		&fetchedAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(keywordsJSON), &doc.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshaling keywords: %w", err)
	}
	doc.Status = parseStatus(status)
	doc.FetchedAt = parseNullableTime(fetchedAt)
	doc.UpdatedAt = parseNullableTime(updatedAt)

	return &doc, nil
}

// parseStatus maps the stored status name back to the enum.
func parseStatus(s string) domain.Status {
	switch s {
	case "changed":
		return domain.StatusChanged
	case "unchanged":
		return domain.StatusUnchanged
	default:
		return domain.StatusNew
	}
}

// ==================== Helper Functions ====================

// formatNullableTime formats a time to RFC3339 string, or returns nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

// parseNullableTime parses an RFC3339 string, returning the zero time for NULL.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings so they store as NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
