package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/DreamCats/docrank/cmd/docrank/internal"
	"github.com/DreamCats/docrank/internal/config"
	"github.com/DreamCats/docrank/internal/progress"
	"github.com/DreamCats/docrank/internal/retrieval"
)

// handleSearch implements the search subcommand
func handleSearch(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	var topK, chunkSize int
	var mode string
	var jsonOutput, verbose, noProgress bool
	var extensions internal.StringList

	fs.IntVar(&topK, "k", cfg.Search.TopK, "Number of results to return (0 for all)")
	fs.StringVar(&mode, "mode", cfg.Search.Mode, `Ranking mode: "tfidf" or "bleve"`)
	fs.IntVar(&chunkSize, "size", cfg.Search.ChunkSize, "Chunk size in bytes")
	fs.BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	fs.BoolVar(&verbose, "v", false, "Verbose output (show full chunk text)")
	fs.BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	fs.Var(&extensions, "ext", "File extension to load (repeatable, overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docrank search [options] "<query>"

DESCRIPTION:
    Split every file under the corpus root into chunks and rank the chunks
    by TF-IDF relevance to the query. Query words are matched as
    case-insensitive substrings of the chunk words.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Top 10 chunks for a query
    docrank search "quick fox"

    # Top 3 with 200-byte chunks
    docrank search -k 3 -size 200 "quick fox"

    # Markdown and text files, JSON output
    docrank search -ext .md -ext .txt -json "install"

    # bleve BM25 baseline (in-memory index per query)
    docrank search -mode bleve "quick fox"
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: search query is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	query := strings.Join(fs.Args(), " ")

	searchMode, err := retrieval.ParseMode(mode)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}
	if chunkSize <= 0 {
		log.Fatalf("Invalid chunk size: %d", chunkSize)
	}
	if topK < 0 {
		log.Fatalf("Invalid result count: %d", topK)
	}

	showProgress := !noProgress && progress.DefaultEnabled()
	eng, corpus := openCorpus(cfg, chunkSize, extensions, showProgress)
	defer eng.Close()

	opts := retrieval.SearchOptions{TopK: topK, Mode: searchMode}
	bar := progress.NewBar(showProgress, len(corpus.Chunks), "Scoring")
	results, err := eng.Search(context.Background(), corpus, query, opts, bar)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	if jsonOutput {
		if err := outputSearchJSON(os.Stdout, results, query, searchMode); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}
	outputSearchText(os.Stdout, results, query, len(corpus.Chunks), verbose)
}

// outputSearchText writes search results as human-readable text
func outputSearchText(w io.Writer, results []retrieval.ScoredChunk, query string, chunkCount int, verbose bool) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}

	fmt.Fprintf(w, "Found %d result(s) for: %s %s\n\n", len(results), query,
		dimColor.Sprintf("(%d chunks scored)", chunkCount))

	terms := strings.Fields(query)
	for i, result := range results {
		fmt.Fprintf(w, "%d. %s  %s\n", i+1,
			sourceColor.Sprintf("%s#%d", result.Chunk.Source, result.Chunk.Index),
			scoreColor.Sprintf("%.4f", result.Score))
		text := snippet(result.Chunk.Text, 160)
		if verbose {
			text = result.Chunk.Text
		}
		fmt.Fprintf(w, "   %s\n\n", highlight(text, terms))
	}
}

type searchResultJSON struct {
	Source string  `json:"source"`
	Index  int     `json:"index"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

// outputSearchJSON writes search results as JSON
func outputSearchJSON(w io.Writer, results []retrieval.ScoredChunk, query string, mode retrieval.Mode) error {
	items := make([]searchResultJSON, len(results))
	for i, r := range results {
		items[i] = searchResultJSON{
			Source: r.Chunk.Source,
			Index:  r.Chunk.Index,
			Score:  r.Score,
			Text:   r.Chunk.Text,
		}
	}
	return writeJSON(w, map[string]interface{}{
		"query":   query,
		"mode":    mode,
		"count":   len(results),
		"results": items,
	})
}
