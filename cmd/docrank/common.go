package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/DreamCats/docrank/internal/config"
	"github.com/DreamCats/docrank/internal/engine"
	"github.com/DreamCats/docrank/internal/progress"
)

var (
	sourceColor = color.New(color.FgCyan)
	scoreColor  = color.New(color.FgGreen)
	matchColor  = color.New(color.FgYellow, color.Bold)
	dimColor    = color.New(color.Faint)
)

// openCorpus creates an engine and loads the configured corpus. The caller
// closes the engine.
func openCorpus(cfg *config.Config, chunkSize int, extensions []string, showProgress bool) (*engine.Engine, *engine.Corpus) {
	if len(extensions) > 0 {
		cfg.Corpus.Extensions = extensions
	}

	eng, err := engine.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	stop := progress.StartSpinner(showProgress, "Loading "+cfg.Corpus.Root)
	corpus, err := eng.LoadCorpus(chunkSize)
	stop()
	if err != nil {
		eng.Close()
		log.Fatalf("Failed to load corpus: %v", err)
	}
	return eng, corpus
}

// writeJSON writes v as indented JSON followed by a newline
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// snippet flattens whitespace in text and truncates it to at most limit runes
func snippet(text string, limit int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(flat) <= limit {
		return flat
	}
	runes := []rune(flat)
	return string(runes[:limit]) + "..."
}

// highlight colors case-insensitive occurrences of the query terms
func highlight(text string, terms []string) string {
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		best := 0
		for _, term := range terms {
			t := strings.ToLower(term)
			if t != "" && len(t) > best && strings.HasPrefix(lower[i:], t) {
				best = len(t)
			}
		}
		if best > 0 {
			b.WriteString(matchColor.Sprint(text[i : i+best]))
			i += best
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String()
}
