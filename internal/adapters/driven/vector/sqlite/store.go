// Package sqlite provides a persistent vector store backed by SQLite.
// Embeddings are stored as little-endian float32 blobs, metadata as JSON.
// Search is exact: rows are scanned and scored in Go, which is adequate
// for personal-corpus sizes and keeps results identical to the flat index.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/glasswing-labs/ragcore/internal/core/domain"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
	"github.com/glasswing-labs/ragcore/internal/similarity"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS index_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	content     TEXT NOT NULL,
	metadata    TEXT NOT NULL,
	embedding   BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_document ON entries(document_id);
`

// Config holds configuration for the SQLite store.
type Config struct {
	// Dimension is the fixed vector dimension (required).
	Dimension int

	// Path is the database file path (required).
	Path string
}

// Store is a SQLite-backed vector store. Each Add runs in one
// transaction, so readers never observe a partially written batch.
type Store struct {
	db        *sql.DB
	dimension int
	path      string
}

// New opens (or creates) the database at cfg.Path. An existing index
// recorded with a different dimension or metric is rejected with
// domain.ErrInvalidConfiguration.
func New(cfg Config) (*Store, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d",
			domain.ErrInvalidConfiguration, cfg.Dimension)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: database path is required", domain.ErrInvalidConfiguration)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", domain.ErrStoreIO, err)
	}

	// WAL mode for better concurrency between readers and the writer.
	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", domain.ErrStoreIO, err)
	}

	s := &Store{db: db, dimension: cfg.Dimension, path: cfg.Path}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", domain.ErrStoreIO, err)
	}
	if err := s.checkMeta(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// checkMeta records dimension and metric on first open and validates
// them on every subsequent open.
func (s *Store) checkMeta() error {
	storedDim, dimOK, err := s.getMeta("dimension")
	if err != nil {
		return err
	}
	storedMetric, metricOK, err := s.getMeta("metric")
	if err != nil {
		return err
	}

	if !dimOK && !metricOK {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("%w: begin meta transaction: %v", domain.ErrStoreIO, err)
		}
		defer tx.Rollback()
		if _, err := tx.Exec("INSERT INTO index_meta(key, value) VALUES('dimension', ?)",
			fmt.Sprintf("%d", s.dimension)); err != nil {
			return fmt.Errorf("%w: record dimension: %v", domain.ErrStoreIO, err)
		}
		if _, err := tx.Exec("INSERT INTO index_meta(key, value) VALUES('metric', ?)",
			similarity.MetricCosine); err != nil {
			return fmt.Errorf("%w: record metric: %v", domain.ErrStoreIO, err)
		}
		return tx.Commit()
	}

	if storedDim != fmt.Sprintf("%d", s.dimension) {
		return fmt.Errorf("%w: index was created with dimension %s, store expects %d",
			domain.ErrInvalidConfiguration, storedDim, s.dimension)
	}
	if storedMetric != similarity.MetricCosine {
		return fmt.Errorf("%w: index was created with metric %q, store expects %q",
			domain.ErrInvalidConfiguration, storedMetric, similarity.MetricCosine)
	}
	return nil
}

func (s *Store) getMeta(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM index_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: read index meta: %v", domain.ErrStoreIO, err)
	}
	return value, true, nil
}

// Add validates every vector, then inserts the batch in one transaction.
func (s *Store) Add(ctx context.Context, entries []domain.Entry) ([]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	for i := range entries {
		if len(entries[i].Vector) != s.dimension {
			return nil, fmt.Errorf("%w: entry %d has dimension %d, store expects %d",
				domain.ErrDimensionMismatch, i, len(entries[i].Vector), s.dimension)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin transaction: %v", domain.ErrStoreIO, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO entries(id, document_id, content, metadata, embedding) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("%w: prepare insert: %v", domain.ErrStoreIO, err)
	}
	defer stmt.Close()

	ids := make([]string, len(entries))
	for i := range entries {
		id := uuid.New().String()

		meta, err := json.Marshal(entries[i].Metadata)
		if err != nil {
			return nil, fmt.Errorf("%w: encode metadata: %v", domain.ErrStoreIO, err)
		}
		if _, err := stmt.ExecContext(ctx, id, entries[i].DocumentID, entries[i].Text,
			string(meta), encodeVector(entries[i].Vector)); err != nil {
			return nil, fmt.Errorf("%w: insert entry: %v", domain.ErrStoreIO, err)
		}
		ids[i] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit batch: %v", domain.ErrStoreIO, err)
	}
	return ids, nil
}

// Query scans all rows in insertion order (rowid), applies the filter
// and scores with cosine similarity. Ties keep insertion order.
func (s *Store) Query(
	ctx context.Context, vector []float32, topK int, filter domain.Filter,
) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", domain.ErrInvalidArgument, topK)
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has dimension %d, store expects %d",
			domain.ErrDimensionMismatch, len(vector), s.dimension)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, document_id, content, metadata, embedding FROM entries ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("%w: query entries: %v", domain.ErrStoreIO, err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var entry domain.Entry
		var metaJSON string
		var blob []byte
		if err := rows.Scan(&entry.ID, &entry.DocumentID, &entry.Text, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("%w: scan entry: %v", domain.ErrStoreIO, err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &entry.Metadata); err != nil {
			return nil, fmt.Errorf("%w: decode metadata: %v", domain.ErrStoreIO, err)
		}
		if filter != nil && !filter.Matches(entry.Metadata) {
			continue
		}
		entry.Vector = decodeVector(blob)

		results = append(results, domain.SearchResult{
			Entry: entry,
			Score: similarity.Cosine(vector, entry.Vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate entries: %v", domain.ErrStoreIO, err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, nil
}

// Delete removes entries by ID. Unknown IDs are ignored.
func (s *Store) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM entries WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("%w: delete entries: %v", domain.ErrStoreIO, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// DeleteByDocument removes every entry belonging to a document.
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM entries WHERE document_id = ?", documentID)
	if err != nil {
		return 0, fmt.Errorf("%w: delete document entries: %v", domain.ErrStoreIO, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Persist checkpoints the WAL into the main database file. Committed
// transactions are already durable; this compacts the on-disk artifact.
func (s *Store) Persist(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("%w: checkpoint: %v", domain.ErrStoreIO, err)
	}
	return nil
}

// Load re-validates the persisted dimension and metric. Row data lives
// in the database, so there is nothing further to restore.
func (s *Store) Load(_ context.Context) error {
	return s.checkMeta()
}

// Dimension returns the configured vector dimension.
func (s *Store) Dimension() int { return s.dimension }

// Count returns the number of stored entries.
func (s *Store) Count() int {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// encodeVector serialises a vector as little-endian float32 bytes.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

// decodeVector deserialises little-endian float32 bytes.
func decodeVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}
