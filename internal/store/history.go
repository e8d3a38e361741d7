package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QueryRecord is one executed search.
type QueryRecord struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Mode        string    `json:"mode"`
	CorpusRoot  string    `json:"corpus_root"`
	ChunkSize   int       `json:"chunk_size"`
	ChunkCount  int       `json:"chunk_count"`
	ResultCount int       `json:"result_count"`
	TopSource   string    `json:"top_source,omitempty"`
	TopScore    float64   `json:"top_score,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// QueryCount is a query string with how often it was run.
type QueryCount struct {
	Query    string    `json:"query"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"last_used"`
}

// HistoryStore records and lists past queries.
type HistoryStore struct {
	db *DB
}

// NewHistoryStore creates a new history store.
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Record inserts rec, filling ID and CreatedAt when unset.
func (h *HistoryStore) Record(rec *QueryRecord) error {
	if rec == nil {
		return fmt.Errorf("query record is nil")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	var topSource any
	if rec.TopSource != "" {
		topSource = rec.TopSource
	}

	_, err := h.db.sqlDB.Exec(`
		INSERT INTO queries (id, query, mode, corpus_root, chunk_size, chunk_count,
			result_count, top_source, top_score, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.Query, rec.Mode, rec.CorpusRoot, rec.ChunkSize, rec.ChunkCount,
		rec.ResultCount, topSource, rec.TopScore, rec.DurationMS, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

// Get returns the record with id, or nil if none exists.
func (h *HistoryStore) Get(id string) (*QueryRecord, error) {
	row := h.db.sqlDB.QueryRow(`
		SELECT id, query, mode, corpus_root, chunk_size, chunk_count,
			result_count, top_source, top_score, duration_ms, created_at
		FROM queries WHERE id = ?
	`, id)
	rec, err := scanQueryRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get query: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (h *HistoryStore) Recent(limit int) ([]*QueryRecord, error) {
	query := `
		SELECT id, query, mode, corpus_root, chunk_size, chunk_count,
			result_count, top_source, top_score, duration_ms, created_at
		FROM queries ORDER BY created_at DESC, rowid DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.sqlDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []*QueryRecord
	for rows.Next() {
		rec, err := scanQueryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return records, nil
}

// Frequent returns the most-run query strings.
func (h *HistoryStore) Frequent(limit int) ([]QueryCount, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := h.db.sqlDB.Query(`
		SELECT query, COUNT(*) AS n, MAX(created_at)
		FROM queries GROUP BY query
		ORDER BY n DESC, MAX(created_at) DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list frequent queries: %w", err)
	}
	defer rows.Close()

	var counts []QueryCount
	for rows.Next() {
		var qc QueryCount
		var lastUsed any
		if err := rows.Scan(&qc.Query, &qc.Count, &lastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan query count: %w", err)
		}
		if qc.LastUsed, err = parseTimeValue(lastUsed); err != nil {
			return nil, fmt.Errorf("failed to parse last_used: %w", err)
		}
		counts = append(counts, qc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate query counts: %w", err)
	}
	return counts, nil
}

func scanQueryRow(scanner rowScanner) (*QueryRecord, error) {
	var rec QueryRecord
	var topSource sql.NullString
	var topScore sql.NullFloat64
	var createdAtValue any

	if err := scanner.Scan(
		&rec.ID, &rec.Query, &rec.Mode, &rec.CorpusRoot, &rec.ChunkSize, &rec.ChunkCount,
		&rec.ResultCount, &topSource, &topScore, &rec.DurationMS, &createdAtValue,
	); err != nil {
		return nil, err
	}
	rec.TopSource = topSource.String
	rec.TopScore = topScore.Float64

	createdAt, err := parseTimeValue(createdAtValue)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	rec.CreatedAt = createdAt
	return &rec, nil
}
