package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/DreamCats/docrank/cmd/docrank/internal"
	"github.com/DreamCats/docrank/internal/config"
	"github.com/DreamCats/docrank/internal/engine"
	"github.com/DreamCats/docrank/internal/retrieval"
	"github.com/DreamCats/docrank/internal/tui"
)

// corpusSearcher adapts an engine and a loaded corpus to the TUI
type corpusSearcher struct {
	eng    *engine.Engine
	corpus *engine.Corpus
	topK   int
}

func (s *corpusSearcher) Search(query string, mode retrieval.Mode) ([]retrieval.ScoredChunk, error) {
	opts := retrieval.SearchOptions{TopK: s.topK, Mode: mode}
	return s.eng.Search(context.Background(), s.corpus, query, opts, nil)
}

// handleBrowse implements the browse subcommand
func handleBrowse(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	var chunkSize, topK int
	var mode string
	var extensions internal.StringList
	fs.IntVar(&chunkSize, "size", cfg.Search.ChunkSize, "Chunk size in bytes")
	fs.IntVar(&topK, "k", cfg.Search.TopK, "Number of results per query (0 for all)")
	fs.StringVar(&mode, "mode", cfg.Search.Mode, `Initial ranking mode: "tfidf" or "bleve"`)
	fs.Var(&extensions, "ext", "File extension to load (repeatable, overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docrank browse [options]

DESCRIPTION:
    Load the corpus once and search it interactively.
    Keys: enter search, up/down cycle results, pgup/pgdown scroll,
    tab switch ranking mode, esc or ctrl+c quit.

OPTIONS:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	searchMode, err := retrieval.ParseMode(mode)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}
	if chunkSize <= 0 {
		log.Fatalf("Invalid chunk size: %d", chunkSize)
	}

	eng, corpus := openCorpus(cfg, chunkSize, extensions, true)
	defer eng.Close()

	summary := fmt.Sprintf("%s · %d files · %s · %d chunks of %d bytes",
		corpus.Root, corpus.Stats.Files, humanize.Bytes(uint64(corpus.Stats.Bytes)),
		len(corpus.Chunks), corpus.ChunkSize)
	searcher := &corpusSearcher{eng: eng, corpus: corpus, topK: topK}

	p := tea.NewProgram(tui.New(searcher, summary, searchMode), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Browse failed: %v", err)
	}
}
