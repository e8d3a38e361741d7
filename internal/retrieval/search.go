package retrieval

import (
	"fmt"
	"strings"

	"github.com/DreamCats/docrank/internal/chunker"
)

// Mode selects the ranking function used by Rank.
type Mode string

const (
	ModeTFIDF Mode = "tfidf"
	ModeBleve Mode = "bleve"
)

// ParseMode parses a mode name. An empty value selects ModeTFIDF.
func ParseMode(value string) (Mode, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", string(ModeTFIDF):
		return ModeTFIDF, nil
	case string(ModeBleve):
		return ModeBleve, nil
	default:
		return "", fmt.Errorf("unknown search mode: %s", value)
	}
}

// SearchOptions configures Rank.
type SearchOptions struct {
	TopK int  // Number of results to return; 0 means all
	Mode Mode // Ranking function
}

// DefaultSearchOptions returns default search options
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		TopK: 10,
		Mode: ModeTFIDF,
	}
}

// Rank scores chunks against query with the configured mode and truncates the
// result to opts.TopK. Progress is only reported by the TF-IDF mode.
func Rank(query string, chunks []chunker.Chunk, opts SearchOptions, progress Progress) ([]ScoredChunk, error) {
	switch opts.Mode {
	case ModeTFIDF, "":
		return TopK(ScoreChunks(query, chunks, progress), opts.TopK), nil
	case ModeBleve:
		results, err := BleveRank(query, chunks, opts.TopK)
		if err != nil {
			return nil, err
		}
		if progress != nil {
			progress.Advance(len(chunks))
			progress.Complete("bleve complete")
		}
		return results, nil
	default:
		return nil, fmt.Errorf("unknown search mode: %s", opts.Mode)
	}
}
