package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/DreamCats/docrank/internal/config"
	"github.com/DreamCats/docrank/internal/store"
)

// handleHistory implements the history subcommand
func handleHistory(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	var limit int
	var frequent, clearHistory, jsonOutput bool
	fs.IntVar(&limit, "n", 20, "Number of entries to show (0 for all)")
	fs.BoolVar(&frequent, "frequent", false, "Show the most frequent queries instead")
	fs.BoolVar(&clearHistory, "clear", false, "Delete all recorded queries")
	fs.BoolVar(&jsonOutput, "json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docrank history [options]

DESCRIPTION:
    Show queries recorded by "docrank search". Only query metadata is stored;
    documents and chunks are never persisted.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    docrank history -n 5
    docrank history -frequent
    docrank history -clear
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	if !cfg.HistoryEnabled() {
		fmt.Fprintln(os.Stderr, "Query history is disabled (history.enabled: false)")
		return
	}

	db, err := store.Open(cfg.History.Path)
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer db.Close()
	hs := store.NewHistoryStore(db)

	switch {
	case clearHistory:
		if err := db.Clear(); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println("History cleared")
	case frequent:
		counts, err := hs.Frequent(limit)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if jsonOutput {
			err = writeJSON(os.Stdout, counts)
		} else {
			outputFrequentText(os.Stdout, counts, time.Now())
		}
		if err != nil {
			log.Fatalf("%v", err)
		}
	default:
		records, err := hs.Recent(limit)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if jsonOutput {
			err = writeJSON(os.Stdout, records)
		} else {
			outputHistoryText(os.Stdout, records, time.Now())
		}
		if err != nil {
			log.Fatalf("%v", err)
		}
	}
}

func outputHistoryText(w io.Writer, records []*store.QueryRecord, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No queries recorded")
		return
	}
	for _, r := range records {
		fmt.Fprintf(w, "%-16s %s  %s\n",
			dimColor.Sprint(humanize.RelTime(r.CreatedAt, now, "ago", "from now")),
			r.Query,
			dimColor.Sprintf("[%s, %d/%d chunks]", r.Mode, r.ResultCount, r.ChunkCount))
		if r.TopSource != "" {
			fmt.Fprintf(w, "%-16s   top: %s %s\n", "",
				sourceColor.Sprint(r.TopSource), scoreColor.Sprintf("%.4f", r.TopScore))
		}
	}
}

func outputFrequentText(w io.Writer, counts []store.QueryCount, now time.Time) {
	if len(counts) == 0 {
		fmt.Fprintln(w, "No queries recorded")
		return
	}
	for _, c := range counts {
		fmt.Fprintf(w, "%5dx  %s  %s\n", c.Count, c.Query,
			dimColor.Sprintf("(last %s)", humanize.RelTime(c.LastUsed, now, "ago", "from now")))
	}
}
