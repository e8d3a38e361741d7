package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/DreamCats/docrank/cmd/docrank/internal"
	"github.com/DreamCats/docrank/internal/chunker"
	"github.com/DreamCats/docrank/internal/config"
	"github.com/DreamCats/docrank/internal/retrieval"
)

// handleGrep implements the grep subcommand
func handleGrep(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("grep", flag.ExitOnError)

	var lines, jsonOutput bool
	var extensions internal.StringList
	fs.BoolVar(&lines, "lines", false, "Report matching lines instead of chunks")
	fs.BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	fs.Var(&extensions, "ext", "File extension to load (repeatable, overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docrank grep [options] "<query>"

DESCRIPTION:
    Case-insensitive literal search. By default every %d-byte chunk that
    contains the query is printed; with -lines, every matching line is
    printed grouped by file.

OPTIONS:
`, chunker.DefaultChunkSize)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    docrank grep "white whale"
    docrank grep -lines -json "captain"
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: grep query is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	query := strings.Join(fs.Args(), " ")

	eng, corpus := openCorpus(cfg, chunker.DefaultChunkSize, extensions, false)
	defer eng.Close()

	var err error
	if lines {
		matches := eng.Grep(corpus, query)
		if jsonOutput {
			err = writeJSON(os.Stdout, map[string]interface{}{
				"query":   query,
				"count":   len(matches),
				"results": matches,
			})
		} else {
			outputLineMatches(os.Stdout, matches, query)
		}
	} else {
		chunks := eng.Match(corpus, query)
		if jsonOutput {
			err = writeJSON(os.Stdout, map[string]interface{}{
				"query":   query,
				"count":   len(chunks),
				"results": chunks,
			})
		} else {
			outputChunkMatches(os.Stdout, chunks, query)
		}
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// outputLineMatches writes matching lines grouped by source
func outputLineMatches(w io.Writer, matches []retrieval.LineMatch, query string) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches found")
		return
	}
	terms := []string{query}
	for _, m := range matches {
		fmt.Fprintln(w, sourceColor.Sprint(m.Source))
		for _, line := range m.Lines {
			fmt.Fprintf(w, "  %s\n", highlight(line, terms))
		}
		fmt.Fprintln(w)
	}
}

// outputChunkMatches writes matching chunks with their source
func outputChunkMatches(w io.Writer, chunks []chunker.Chunk, query string) {
	if len(chunks) == 0 {
		fmt.Fprintln(w, "No matches found")
		return
	}
	terms := []string{query}
	fmt.Fprintf(w, "Found %d chunk(s) containing: %s\n\n", len(chunks), query)
	for _, c := range chunks {
		fmt.Fprintf(w, "%s\n   %s\n\n",
			sourceColor.Sprintf("%s#%d", c.Source, c.Index),
			highlight(snippet(c.Text, 200), terms))
	}
}
