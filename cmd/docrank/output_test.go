package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DreamCats/docrank/internal/chunker"
	"github.com/DreamCats/docrank/internal/retrieval"
	"github.com/DreamCats/docrank/internal/store"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n  b\tc\n", 10))
	assert.Equal(t, "héll...", snippet("héllo world", 4))
	assert.Equal(t, "short", snippet("short", 0))
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, "The Fox", highlight("The Fox", []string{"fox"}))

	color.NoColor = false
	defer func() { color.NoColor = true }()
	out := highlight("The Fox", []string{"fox"})
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "Fox")
	assert.True(t, strings.HasPrefix(out, "The "))
}

func sampleResults() []retrieval.ScoredChunk {
	return []retrieval.ScoredChunk{
		{Chunk: chunker.Chunk{Text: "the quick\nbrown fox", Source: "docs/a.txt", Index: 0}, Score: 0.5},
		{Chunk: chunker.Chunk{Text: "a fox again", Source: "docs/b.txt", Index: 2}, Score: 0.125},
	}
}

func TestOutputSearchText(t *testing.T) {
	var buf bytes.Buffer
	outputSearchText(&buf, nil, "fox", 3, false)
	assert.Equal(t, "No results found\n", buf.String())

	buf.Reset()
	outputSearchText(&buf, sampleResults(), "fox", 3, false)
	out := buf.String()
	assert.Contains(t, out, "Found 2 result(s) for: fox (3 chunks scored)")
	assert.Contains(t, out, "1. docs/a.txt#0  0.5000")
	assert.Contains(t, out, "   the quick brown fox")
	assert.Contains(t, out, "2. docs/b.txt#2  0.1250")

	buf.Reset()
	outputSearchText(&buf, sampleResults()[:1], "fox", 3, true)
	assert.Contains(t, buf.String(), "the quick\nbrown fox")
}

func TestOutputSearchJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, outputSearchJSON(&buf, sampleResults(), "fox", retrieval.ModeTFIDF))

	var decoded struct {
		Query   string             `json:"query"`
		Mode    string             `json:"mode"`
		Count   int                `json:"count"`
		Results []searchResultJSON `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "fox", decoded.Query)
	assert.Equal(t, "tfidf", decoded.Mode)
	assert.Equal(t, 2, decoded.Count)
	assert.Equal(t, "docs/b.txt", decoded.Results[1].Source)
	assert.Equal(t, 2, decoded.Results[1].Index)
}

func TestOutputLineMatches(t *testing.T) {
	var buf bytes.Buffer
	outputLineMatches(&buf, []retrieval.LineMatch{
		{Source: "docs/a.txt", Lines: []string{"Call me Ishmael.", "ishmael again"}},
	}, "ishmael")
	assert.Equal(t, "docs/a.txt\n  Call me Ishmael.\n  ishmael again\n\n", buf.String())

	buf.Reset()
	outputLineMatches(&buf, nil, "x")
	assert.Equal(t, "No matches found\n", buf.String())
}

func TestOutputChunkMatches(t *testing.T) {
	var buf bytes.Buffer
	outputChunkMatches(&buf, []chunker.Chunk{{Text: "white whale", Source: "moby.txt", Index: 4}}, "whale")
	assert.Contains(t, buf.String(), "Found 1 chunk(s) containing: whale")
	assert.Contains(t, buf.String(), "moby.txt#4\n   white whale\n")
}

func TestSortLargest(t *testing.T) {
	docs := []documentLength{{"b", 10}, {"a", 10}, {"c", 30}, {"d", 1}}
	sortLargest(docs)
	assert.Equal(t, []documentLength{{"c", 30}, {"a", 10}, {"b", 10}, {"d", 1}}, docs)
}

func TestOutputStatsText(t *testing.T) {
	var buf bytes.Buffer
	outputStatsText(&buf, corpusStats{
		Root:       "/data/books",
		Files:      1234,
		Bytes:      2_500_000,
		Chunks:     5000,
		ChunkSize:  500,
		LoadTimeMS: 42,
		History:    &store.DBStats{QueryCount: 3, DistinctQueries: 2, SizeBytes: 4096},
		Largest:    []documentLength{{Source: "books/moby.txt", Bytes: 1_200_000}},
	})
	out := buf.String()
	assert.Contains(t, out, "Files:      1,234")
	assert.Contains(t, out, "Size:       2.5 MB")
	assert.Contains(t, out, "Chunks:     5,000 (500 B each)")
	assert.Contains(t, out, "Load time:  42ms")
	assert.Contains(t, out, "books/moby.txt")
	assert.Contains(t, out, "History:    3 queries (2 distinct), 4.1 kB on disk")
}

func TestOutputHistoryText(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	outputHistoryText(&buf, []*store.QueryRecord{
		{Query: "fox", Mode: "tfidf", ResultCount: 2, ChunkCount: 9, TopSource: "a.txt", TopScore: 0.25, CreatedAt: now.Add(-2 * time.Hour)},
		{Query: "none", Mode: "bleve", ChunkCount: 9, CreatedAt: now.Add(-time.Minute)},
	}, now)
	out := buf.String()
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "fox  [tfidf, 2/9 chunks]")
	assert.Contains(t, out, "top: a.txt 0.2500")
	assert.Contains(t, out, "none  [bleve, 0/9 chunks]")

	buf.Reset()
	outputHistoryText(&buf, nil, now)
	assert.Equal(t, "No queries recorded\n", buf.String())
}

func TestOutputFrequentText(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	outputFrequentText(&buf, []store.QueryCount{{Query: "fox", Count: 3, LastUsed: now.Add(-time.Hour)}}, now)
	assert.Equal(t, "    3x  fox  (last 1 hour ago)\n", buf.String())
}
