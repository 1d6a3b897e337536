// Package postgres provides a PostgreSQL-backed document store. Each
// collection maps to one row-per-document table slice of a shared
// documents table, with the document body in a JSONB column so filtering
// and sorting run against doc fields without per-entity schemas.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/platinummonkey/warden/pkg/directory"
)

// Config holds PostgreSQL connection configuration
type Config struct {
	URL         string
	MaxConns    int
	MinConns    int
	Timeout     time.Duration
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// DefaultConfig returns a Config with sensible pool defaults for url
func DefaultConfig(url string) Config {
	return Config{
		URL:         url,
		MaxConns:    25,
		MinConns:    5,
		Timeout:     10 * time.Second,
		MaxLifetime: 1 * time.Hour,
		MaxIdleTime: 10 * time.Minute,
	}
}

// Store implements directory.Store on top of a single JSONB documents table
type Store struct {
	db *sql.DB
}

var _ directory.Store = (*Store)(nil)

// NewStore connects to PostgreSQL, verifies the connection, and ensures
// the documents table exists.
func NewStore(config Config) (*Store, error) {
	db, err := sql.Open("postgres", config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(config.MaxConns)
	db.SetMaxIdleConns(config.MinConns)
	db.SetConnMaxLifetime(config.MaxLifetime)
	db.SetConnMaxIdleTime(config.MaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store, err := NewStoreWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStoreWithDB wraps an existing database handle and ensures the
// documents table exists. Connection pooling and ping checks are the
// caller's concern.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT  NOT NULL,
			id         TEXT  NOT NULL,
			doc        JSONB NOT NULL,
			PRIMARY KEY (collection, id)
		);
		CREATE INDEX IF NOT EXISTS documents_created_at_idx
			ON documents (collection, (doc->>'created_at'));
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Insert stores a new document under the given id
func (s *Store) Insert(ctx context.Context, collection, id string, doc directory.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, collection, id, raw); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return nil
}

// FindByID returns the document with the given id
func (s *Store) FindByID(ctx context.Context, collection, id string) (directory.Document, error) {
	query := `SELECT doc FROM documents WHERE collection = $1 AND id = $2`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, directory.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	return decodeDocument(raw)
}

// Find filters, sorts, and pages the collection. The total comes from a
// window count on the same statement, so page and total always agree.
func (s *Store) Find(ctx context.Context, collection string, q directory.Query) ([]directory.Document, int, error) {
	query := `SELECT doc, count(*) OVER () AS total FROM documents WHERE collection = $1`
	args := []interface{}{collection}

	// Filter fields come from the entity registry, but keep them out of the
	// SQL text anyway: ->> takes the field name as a bind parameter.
	for field, value := range q.Filter {
		query += fmt.Sprintf(" AND doc->>$%d::text = $%d", len(args)+1, len(args)+2)
		args = append(args, field, value)
	}

	if q.SortField != "" {
		dir := "ASC"
		if q.SortDesc {
			dir = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY doc->>$%d::text %s, id", len(args)+1, dir)
		args = append(args, q.SortField)
	}

	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, q.Limit)
	}
	if q.Skip > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, q.Skip)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var (
		docs  []directory.Document
		total int
	)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan %s row: %w", collection, err)
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read %s rows: %w", collection, err)
	}

	// The window count vanishes when the page is empty (offset past the
	// end), so fall back to a plain count over the same filter.
	if len(docs) == 0 {
		total, err = s.count(ctx, collection, q.Filter)
		if err != nil {
			return nil, 0, err
		}
	}
	return docs, total, nil
}

func (s *Store) count(ctx context.Context, collection string, filter map[string]string) (int, error) {
	query := `SELECT count(*) FROM documents WHERE collection = $1`
	args := []interface{}{collection}
	for field, value := range filter {
		query += fmt.Sprintf(" AND doc->>$%d::text = $%d", len(args)+1, len(args)+2)
		args = append(args, field, value)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return total, nil
}

// Replace overwrites the document with the given id
func (s *Store) Replace(ctx context.Context, collection, id string, doc directory.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	query := `UPDATE documents SET doc = $3 WHERE collection = $1 AND id = $2`
	res, err := s.db.ExecContext(ctx, query, collection, id, raw)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", collection, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", collection, err)
	}
	if affected == 0 {
		return directory.ErrNotFound
	}
	return nil
}

// Delete removes the document, returning its prior state
func (s *Store) Delete(ctx context.Context, collection, id string) (directory.Document, error) {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2 RETURNING doc`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, directory.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to delete from %s: %w", collection, err)
	}
	return decodeDocument(raw)
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

func decodeDocument(raw []byte) (directory.Document, error) {
	var doc directory.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
