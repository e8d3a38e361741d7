package chunker

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// DefaultChunkSize is the chunk size used by literal chunk search.
const DefaultChunkSize = 500

// ErrInvalidChunkSize is returned when a chunk size is zero or negative.
var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// Document is one loaded source: an identifier and its full text.
// Identifiers are opaque and need not be unique.
type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Chunk is a contiguous segment of a single document.
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Index  int    `json:"index"`
}

// ChunkText splits text into segments of size bytes tagged with source.
//
// A cut that would land inside a multi-byte UTF-8 sequence is moved forward
// to the next rune start, so every chunk except the last holds between size
// and size+utf8.UTFMax-1 bytes. Joining the chunks in Index order yields text.
func ChunkText(text string, size int, source string) ([]Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
	}

	var chunks []Chunk
	pos := 0
	index := 0
	for pos < len(text) {
		end := pos + size
		if end > len(text) {
			end = len(text)
		}
		for end < len(text) && !utf8.RuneStart(text[end]) {
			end++
		}

		chunks = append(chunks, Chunk{
			Text:   text[pos:end],
			Source: source,
			Index:  index,
		})
		pos = end
		index++
	}
	return chunks, nil
}

// ChunkDocuments chunks every document in order and returns the combined slice.
func ChunkDocuments(docs []Document, size int) ([]Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
	}
	var all []Chunk
	for _, doc := range docs {
		chunks, err := ChunkText(doc.Content, size, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", doc.ID, err)
		}
		all = append(all, chunks...)
	}
	return all, nil
}
