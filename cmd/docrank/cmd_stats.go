package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/DreamCats/docrank/cmd/docrank/internal"
	"github.com/DreamCats/docrank/internal/config"
	"github.com/DreamCats/docrank/internal/engine"
	"github.com/DreamCats/docrank/internal/store"
)

type corpusStats struct {
	Root       string           `json:"root"`
	Files      int              `json:"files"`
	Bytes      int64            `json:"bytes"`
	Chunks     int              `json:"chunks"`
	ChunkSize  int              `json:"chunk_size"`
	LoadTimeMS int64            `json:"load_time_ms"`
	History    *store.DBStats   `json:"history,omitempty"`
	Largest    []documentLength `json:"largest,omitempty"`
}

type documentLength struct {
	Source string `json:"source"`
	Bytes  int    `json:"bytes"`
}

// handleStats implements the stats subcommand
func handleStats(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	var chunkSize int
	var jsonOutput bool
	var extensions internal.StringList
	fs.IntVar(&chunkSize, "size", cfg.Search.ChunkSize, "Chunk size in bytes")
	fs.BoolVar(&jsonOutput, "json", false, "Output as JSON")
	fs.Var(&extensions, "ext", "File extension to load (repeatable, overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docrank stats [options]

DESCRIPTION:
    Show statistics about the corpus and the query history.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    docrank stats
    docrank stats -size 200 -json
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	if chunkSize <= 0 {
		log.Fatalf("Invalid chunk size: %d", chunkSize)
	}

	eng, corpus := openCorpus(cfg, chunkSize, extensions, false)
	defer eng.Close()

	stats := collectStats(eng, corpus, 5)
	if jsonOutput {
		if err := writeJSON(os.Stdout, stats); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}
	outputStatsText(os.Stdout, stats)
}

func collectStats(eng *engine.Engine, corpus *engine.Corpus, largest int) corpusStats {
	stats := corpusStats{
		Root:       corpus.Root,
		Files:      corpus.Stats.Files,
		Bytes:      corpus.Stats.Bytes,
		Chunks:     len(corpus.Chunks),
		ChunkSize:  corpus.ChunkSize,
		LoadTimeMS: corpus.LoadTime.Milliseconds(),
	}
	if db := eng.DB(); db != nil {
		if dbStats, err := db.Stats(); err == nil {
			stats.History = dbStats
		}
	}

	for _, doc := range corpus.Documents {
		stats.Largest = append(stats.Largest, documentLength{Source: doc.ID, Bytes: len(doc.Content)})
	}
	sortLargest(stats.Largest)
	if len(stats.Largest) > largest {
		stats.Largest = stats.Largest[:largest]
	}
	return stats
}

// sortLargest orders by size descending, then source ascending
func sortLargest(docs []documentLength) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Bytes != docs[j].Bytes {
			return docs[i].Bytes > docs[j].Bytes
		}
		return docs[i].Source < docs[j].Source
	})
}

func outputStatsText(w io.Writer, stats corpusStats) {
	fmt.Fprintln(w, "📊 Corpus Statistics")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Root:       %s\n", stats.Root)
	fmt.Fprintf(w, "Files:      %s\n", humanize.Comma(int64(stats.Files)))
	fmt.Fprintf(w, "Size:       %s\n", humanize.Bytes(uint64(stats.Bytes)))
	fmt.Fprintf(w, "Chunks:     %s (%s each)\n", humanize.Comma(int64(stats.Chunks)), humanize.Bytes(uint64(stats.ChunkSize)))
	fmt.Fprintf(w, "Load time:  %s\n", time.Duration(stats.LoadTimeMS)*time.Millisecond)

	if len(stats.Largest) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Largest files:")
		for _, d := range stats.Largest {
			fmt.Fprintf(w, "  %-10s %s\n", humanize.Bytes(uint64(d.Bytes)), sourceColor.Sprint(d.Source))
		}
	}

	if stats.History != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "History:    %s queries (%s distinct), %s on disk\n",
			humanize.Comma(stats.History.QueryCount),
			humanize.Comma(stats.History.DistinctQueries),
			humanize.Bytes(uint64(stats.History.SizeBytes)))
	}
}
