// Package vectordb provides retrieve.Index implementations: a SQLite-backed
// persistent store and an in-memory twin for tests. Search is brute-force
// cosine distance over all stored chunks, which is fine at knowledge-base
// scale (thousands of chunks, not millions).
package vectordb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path"
	"path/filepath"
	"sort"

	"omnitech/internal/retrieve"

	_ "modernc.org/sqlite"
)

// SqliteIndex implements retrieve.Index with SQLite persistence. Embeddings
// are stored as JSON blobs alongside the chunk text.
type SqliteIndex struct {
	db *sql.DB
}

// Open opens or creates the index database at dbPath, creating the parent
// directory if needed.
func Open(dbPath string) (*SqliteIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	idx := &SqliteIndex{db: db}
	if err := idx.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

func (s *SqliteIndex) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS chunks (
		id         TEXT PRIMARY KEY,
		source     TEXT NOT NULL,
		content    TEXT NOT NULL,
		embedding  BLOB NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SqliteIndex) Close() error {
	return s.db.Close()
}

// Add inserts or replaces chunks in one transaction.
func (s *SqliteIndex) Add(ctx context.Context, chunks []retrieve.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO chunks(id, source, content, embedding) VALUES(?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		blob, err := json.Marshal(c.Embedding)
		if err != nil {
			return fmt.Errorf("encode embedding for %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Source, c.Content, blob); err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// Search returns up to topK matches ordered by ascending cosine distance.
// A non-empty sources list restricts results to chunks whose source
// basename is in the list.
func (s *SqliteIndex) Search(ctx context.Context, embedding []float32, topK int, sources []string) ([]retrieve.Match, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT source, content, embedding FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	allowed := sourceSet(sources)

	var matches []retrieve.Match
	for rows.Next() {
		var source, content string
		var blob []byte
		if err := rows.Scan(&source, &content, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if allowed != nil && !allowed[path.Base(source)] {
			continue
		}
		var vec []float32
		if err := json.Unmarshal(blob, &vec); err != nil {
			continue // corrupted embedding, skip the chunk
		}
		matches = append(matches, retrieve.Match{
			Document: content,
			Metadata: map[string]string{"source": source},
			Distance: cosineDistance(embedding, vec),
			Source:   path.Base(source),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Count returns the number of stored chunks.
func (s *SqliteIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// SourceCounts returns chunk counts keyed by the stored source string.
func (s *SqliteIndex) SourceCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT source, COUNT(*) FROM chunks GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("count by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("scan source count: %w", err)
		}
		counts[source] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate source counts: %w", err)
	}
	return counts, nil
}

func sourceSet(sources []string) map[string]bool {
	if len(sources) == 0 {
		return nil
	}
	set := make(map[string]bool, len(sources))
	for _, s := range sources {
		set[path.Base(s)] = true
	}
	return set
}

// cosineDistance is 1 - cosine similarity, so identical vectors score 0 and
// orthogonal vectors score 1. Mismatched or zero vectors score the maximum.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
