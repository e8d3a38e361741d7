package retrieval

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/DreamCats/docrank/internal/chunker"
)

// ScoredChunk pairs a chunk with its relevance to a query.
type ScoredChunk struct {
	Chunk chunker.Chunk `json:"chunk"`
	Score float64       `json:"score"`
}

// TermFrequency returns the fraction of words in text that contain term,
// ignoring case. Trailing punctuation is trimmed from each word first.
// The result is in [0, 1]; it is 0 when term or text is empty.
func TermFrequency(term, text string) float64 {
	if term == "" || text == "" {
		return 0
	}
	needle := strings.ToLower(term)
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	count := 0
	for _, w := range words {
		if strings.Contains(trimTrailingPunct(w), needle) {
			count++
		}
	}
	return float64(count) / float64(len(words))
}

// InverseDocumentFrequency returns ln(n/m), where n is the number of chunks
// and m the number of chunks containing term. A term found nowhere gets ln(n),
// the same weight as a term found in exactly one chunk.
func InverseDocumentFrequency(term string, chunks []chunker.Chunk) float64 {
	n := len(chunks)
	if n == 0 {
		return 0
	}
	needle := strings.ToLower(term)

	m := 0
	for _, c := range chunks {
		if strings.Contains(strings.ToLower(c.Text), needle) {
			m++
		}
	}
	if m == 0 {
		return math.Log(float64(n))
	}
	return math.Log(float64(n) / float64(m))
}

// Score is the TF-IDF weight of a single term for chunk within chunks.
func Score(term string, chunk chunker.Chunk, chunks []chunker.Chunk) float64 {
	return TermFrequency(term, chunk.Text) * InverseDocumentFrequency(term, chunks)
}

// ScoreChunks ranks chunks against a whitespace-separated query.
//
// Each chunk scores the sum of tf*idf over the query terms; a term repeated in
// the query counts once per occurrence. Chunks scoring zero are dropped and the
// rest are sorted by descending score, equal scores keeping corpus order.
// progress is advanced once per chunk and completed once; nil is allowed.
func ScoreChunks(query string, chunks []chunker.Chunk, progress Progress) []ScoredChunk {
	if progress == nil {
		progress = NopProgress{}
	}
	terms := strings.Fields(query)

	// idf only depends on the corpus, so it is computed once per distinct term.
	idfs := make(map[string]float64, len(terms))
	for _, term := range terms {
		if _, ok := idfs[term]; ok {
			continue
		}
		idfs[term] = InverseDocumentFrequency(term, chunks)
	}

	var scored []ScoredChunk
	for _, c := range chunks {
		var score float64
		for _, term := range terms {
			score += TermFrequency(term, c.Text) * idfs[term]
		}
		progress.Advance(1)
		if score > 0 {
			scored = append(scored, ScoredChunk{Chunk: c, Score: score})
		}
	}
	progress.Complete("TF-IDF complete")

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// TopK returns at most k results. k <= 0 returns results unchanged.
func TopK(results []ScoredChunk, k int) []ScoredChunk {
	if k <= 0 || k >= len(results) {
		return results
	}
	return results[:k]
}

func trimTrailingPunct(word string) string {
	return strings.TrimRightFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
