package vector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/dshills/gonotes-mcp/internal/embedder"
	"github.com/dshills/gonotes-mcp/internal/notes"
	"github.com/dshills/gonotes-mcp/pkg/types"
)

// embedBatchSize bounds how many notes are embedded per API call
// during a full rebuild.
const embedBatchSize = 32

// SQLiteIndex implements Index on a SQLite database. Embeddings live
// in a regular table as little-endian float32 blobs; with the
// sqlite_vec build tag, nearest-neighbor distances are computed inside
// SQLite, otherwise by a Go scan over the candidate rows.
type SQLiteIndex struct {
	db     *sql.DB
	emb    embedder.Embedder
	store  *notes.Store
	logger *log.Logger
}

// NewSQLiteIndex opens (or creates) the index database at path.
// Callers that receive an error should degrade to NewNoop rather than
// treat the failure as fatal: a missing semantic index only disables
// semantic search.
func NewSQLiteIndex(path string, emb embedder.Embedder, store *notes.Store, logger *log.Logger) (*SQLiteIndex, error) {
	if emb == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	// WAL for concurrent readers; single writer suits SQLite.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS note_embeddings (
		note_id   TEXT PRIMARY KEY,
		project   TEXT NOT NULL,
		title     TEXT NOT NULL,
		content   TEXT NOT NULL,
		metadata  TEXT NOT NULL DEFAULT '{}',
		embedding BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_note_embeddings_project
		ON note_embeddings(project)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("vector index ready", "path", path, "mode", BuildMode, "provider", emb.Provider())
	return &SQLiteIndex{db: db, emb: emb, store: store, logger: logger}, nil
}

// Close closes the database connection.
func (ix *SQLiteIndex) Close() error {
	return ix.db.Close()
}

// AddOrUpdate embeds content and upserts it under "project/title".
// The stored metadata always includes project and title so searches
// can filter on them.
func (ix *SQLiteIndex) AddOrUpdate(ctx context.Context, project, title, content string, metadata map[string]string) error {
	vec, err := ix.emb.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to embed note: %w", err)
	}

	meta := make(map[string]string, len(metadata)+2)
	for k, v := range metadata {
		meta[k] = v
	}
	meta["project"] = project
	meta["title"] = title
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = ix.db.ExecContext(ctx, `INSERT INTO note_embeddings
		(note_id, project, title, content, metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(note_id) DO UPDATE SET
			content=excluded.content,
			metadata=excluded.metadata,
			embedding=excluded.embedding`,
		NoteID(project, title), project, title, content, string(metaJSON), serializeVector(vec))
	if err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	return nil
}

// Delete removes a note's entry. Deleting an absent key succeeds.
func (ix *SQLiteIndex) Delete(ctx context.Context, project, title string) error {
	_, err := ix.db.ExecContext(ctx,
		`DELETE FROM note_embeddings WHERE note_id = ?`, NoteID(project, title))
	if err != nil {
		return fmt.Errorf("failed to delete embedding: %w", err)
	}
	return nil
}

// Search embeds the query and returns the limit nearest notes,
// optionally restricted to one project. Results are ordered by cosine
// distance ascending.
func (ix *SQLiteIndex) Search(ctx context.Context, query, project string, limit int) ([]types.SemanticResult, error) {
	if limit <= 0 {
		return []types.SemanticResult{}, nil
	}

	queryVec, err := ix.emb.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	if VectorExtensionAvailable {
		return ix.searchSQL(ctx, queryVec, project, limit)
	}
	return ix.searchScan(ctx, queryVec, project, limit)
}

// searchSQL computes distances inside SQLite via vec_distance_cosine.
func (ix *SQLiteIndex) searchSQL(ctx context.Context, queryVec []float32, project string, limit int) ([]types.SemanticResult, error) {
	blob := serializeVector(queryVec)

	sqlQuery := `SELECT note_id, content, metadata,
		vec_distance_cosine(embedding, ?) AS distance
		FROM note_embeddings`
	args := []interface{}{blob}
	if project != "" {
		sqlQuery += ` WHERE project = ?`
		args = append(args, project)
	}
	sqlQuery += ` ORDER BY distance LIMIT ?`
	args = append(args, limit)

	rows, err := ix.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute vector search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectResults(rows)
}

// searchScan is the pure Go fallback: load candidates, rank by cosine
// distance, keep the top results.
func (ix *SQLiteIndex) searchScan(ctx context.Context, queryVec []float32, project string, limit int) ([]types.SemanticResult, error) {
	sqlQuery := `SELECT note_id, content, metadata, embedding FROM note_embeddings`
	var args []interface{}
	if project != "" {
		sqlQuery += ` WHERE project = ?`
		args = append(args, project)
	}

	rows, err := ix.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []types.SemanticResult
	for rows.Next() {
		var id, content, metaJSON string
		var blob []byte
		if err := rows.Scan(&id, &content, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}

		vec := deserializeVector(blob)
		if len(vec) != len(queryVec) {
			// Dimension mismatch from an earlier provider; skip.
			continue
		}

		results = append(results, types.SemanticResult{
			ID:       id,
			Content:  content,
			Metadata: decodeMetadata(metaJSON),
			Distance: cosineDistance(queryVec, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Distance < results[b].Distance })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// RebuildAll clears the index and re-embeds every note's latest
// version from the store.
func (ix *SQLiteIndex) RebuildAll(ctx context.Context) (int, error) {
	if ix.store == nil {
		return 0, fmt.Errorf("no note store attached")
	}

	refs, err := ix.store.AllNotes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate notes: %w", err)
	}

	// Latest version per (project, title).
	type key struct{ project, title string }
	latest := make(map[key]types.NoteRef, len(refs))
	var order []key
	for _, ref := range refs {
		k := key{ref.Project, ref.Title}
		prev, seen := latest[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || ref.Timestamp > prev.Timestamp {
			latest[k] = ref
		}
	}

	if _, err := ix.db.ExecContext(ctx, `DELETE FROM note_embeddings`); err != nil {
		return 0, fmt.Errorf("failed to clear index: %w", err)
	}

	count := 0
	for start := 0; start < len(order); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(order) {
			end = len(order)
		}
		batch := order[start:end]

		texts := make([]string, 0, len(batch))
		kept := make([]key, 0, len(batch))
		for _, k := range batch {
			content, err := ix.store.ReadContent(ctx, latest[k].Path)
			if err != nil {
				// Racing delete; the note is simply not re-indexed.
				ix.logger.Debug("skipping vanished note", "project", k.project, "title", k.title)
				continue
			}
			texts = append(texts, content)
			kept = append(kept, k)
		}
		if len(texts) == 0 {
			continue
		}

		vectors, err := ix.emb.EmbedBatch(ctx, texts)
		if err != nil {
			return count, fmt.Errorf("failed to embed batch: %w", err)
		}

		for i, k := range kept {
			meta, _ := json.Marshal(map[string]string{"project": k.project, "title": k.title})
			_, err := ix.db.ExecContext(ctx, `INSERT INTO note_embeddings
				(note_id, project, title, content, metadata, embedding)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(note_id) DO UPDATE SET
					content=excluded.content,
					metadata=excluded.metadata,
					embedding=excluded.embedding`,
				NoteID(k.project, k.title), k.project, k.title, texts[i], string(meta), serializeVector(vectors[i]))
			if err != nil {
				return count, fmt.Errorf("failed to insert embedding: %w", err)
			}
			count++
		}
	}

	ix.logger.Debug("vector index rebuilt", "notes", count)
	return count, nil
}

// collectResults scans (note_id, content, metadata, distance) rows.
func collectResults(rows *sql.Rows) ([]types.SemanticResult, error) {
	var results []types.SemanticResult
	for rows.Next() {
		var r types.SemanticResult
		var metaJSON string
		if err := rows.Scan(&r.ID, &r.Content, &metaJSON, &r.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Metadata = decodeMetadata(metaJSON)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func decodeMetadata(metaJSON string) map[string]string {
	meta := map[string]string{}
	_ = json.Unmarshal([]byte(metaJSON), &meta)
	return meta
}
