package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/DreamCats/docrank/internal/chunker"
	"github.com/DreamCats/docrank/internal/config"
	"github.com/DreamCats/docrank/internal/loader"
	"github.com/DreamCats/docrank/internal/logging"
	"github.com/DreamCats/docrank/internal/retrieval"
	"github.com/DreamCats/docrank/internal/store"
)

// Engine ties corpus loading, ranking and query history together
type Engine struct {
	cfg     *config.Config
	db      *store.DB
	history *store.HistoryStore
}

// Corpus is a loaded and chunked document set. It lives only in memory.
type Corpus struct {
	Root      string
	Documents []chunker.Document
	Chunks    []chunker.Chunk
	ChunkSize int
	Stats     loader.CorpusStats
	LoadTime  time.Duration
}

// New creates an engine. The history database is opened only when history
// is enabled in cfg.
func New(cfg *config.Config) (*Engine, error) {
	e := &Engine{cfg: cfg}
	if !cfg.HistoryEnabled() {
		return e, nil
	}

	db, err := store.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	e.db = db
	e.history = store.NewHistoryStore(db)
	return e, nil
}

// Close releases the history database
func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// History returns the history store, or nil when history is disabled
func (e *Engine) History() *store.HistoryStore {
	return e.history
}

// DB returns the history database, or nil when history is disabled
func (e *Engine) DB() *store.DB {
	return e.db
}

// LoaderOptions maps the corpus configuration onto loader options
func (e *Engine) LoaderOptions() loader.Options {
	return loader.Options{
		Extensions:   e.cfg.Corpus.Extensions,
		ExcludeDirs:  e.cfg.Corpus.ExcludeDirs,
		Exclude:      e.cfg.Corpus.Exclude,
		UseGitignore: e.cfg.Corpus.UseGitignore,
	}
}

// LoadCorpus reads the configured root and chunks every document at chunkSize.
// A chunkSize of 0 uses the configured size.
func (e *Engine) LoadCorpus(chunkSize int) (*Corpus, error) {
	if chunkSize == 0 {
		chunkSize = e.cfg.Search.ChunkSize
	}
	start := time.Now()

	docs, err := loader.LoadDirectory(e.cfg.Corpus.Root, e.LoaderOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	chunks, err := chunker.ChunkDocuments(docs, chunkSize)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk corpus: %w", err)
	}

	corpus := &Corpus{
		Root:      e.cfg.Corpus.Root,
		Documents: docs,
		Chunks:    chunks,
		ChunkSize: chunkSize,
		Stats:     loader.Stats(docs),
		LoadTime:  time.Since(start),
	}
	logging.LogInfo("Corpus loaded", map[string]interface{}{
		"root":       corpus.Root,
		"files":      corpus.Stats.Files,
		"chunks":     len(chunks),
		"chunk_size": chunkSize,
		"elapsed_ms": corpus.LoadTime.Milliseconds(),
	})
	return corpus, nil
}

// Search ranks the corpus chunks against query and records the query in
// history. A history write failure is logged and does not fail the search.
func (e *Engine) Search(ctx context.Context, corpus *Corpus, query string, opts retrieval.SearchOptions, progress retrieval.Progress) ([]retrieval.ScoredChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	results, err := retrieval.Rank(query, corpus.Chunks, opts, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to rank chunks: %w", err)
	}
	elapsed := time.Since(start)

	logging.LogInfo("Search completed", map[string]interface{}{
		"query":      query,
		"mode":       string(opts.Mode),
		"chunks":     len(corpus.Chunks),
		"results":    len(results),
		"elapsed_ms": elapsed.Milliseconds(),
	})

	if e.history != nil {
		rec := &store.QueryRecord{
			Query:       query,
			Mode:        string(opts.Mode),
			CorpusRoot:  corpus.Root,
			ChunkSize:   corpus.ChunkSize,
			ChunkCount:  len(corpus.Chunks),
			ResultCount: len(results),
			DurationMS:  elapsed.Milliseconds(),
		}
		if len(results) > 0 {
			rec.TopSource = results[0].Chunk.Source
			rec.TopScore = results[0].Score
		}
		if err := e.history.Record(rec); err != nil {
			logging.LogWarn("Failed to record query history", map[string]interface{}{
				"query": query,
				"error": err.Error(),
			})
		}
	}

	return results, nil
}

// Grep returns the lines of each document that contain query, ignoring case
func (e *Engine) Grep(corpus *Corpus, query string) []retrieval.LineMatch {
	return retrieval.SearchLines(query, corpus.Documents)
}

// Match returns the default-size chunks that contain query, ignoring case
func (e *Engine) Match(corpus *Corpus, query string) []chunker.Chunk {
	return retrieval.SearchChunks(query, corpus.Documents)
}
