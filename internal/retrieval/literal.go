package retrieval

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/DreamCats/docrank/internal/chunker"
)

// LineMatch holds the matching lines of one document, in file order.
type LineMatch struct {
	Source string   `json:"source"`
	Lines  []string `json:"lines"`
}

// SearchChunks chunks docs at chunker.DefaultChunkSize and returns every chunk
// whose text contains query, ignoring case. Chunk order is preserved.
func SearchChunks(query string, docs []chunker.Document) []chunker.Chunk {
	needle := strings.ToLower(query)

	var matches []chunker.Chunk
	for _, doc := range docs {
		// DefaultChunkSize is positive, so ChunkText cannot fail here.
		chunks, _ := chunker.ChunkText(doc.Content, chunker.DefaultChunkSize, doc.ID)
		for _, c := range chunks {
			if strings.Contains(strings.ToLower(c.Text), needle) {
				matches = append(matches, c)
			}
		}
	}
	return matches
}

// SearchLines returns, per document, the lines that contain query ignoring case.
// Documents without a matching line are left out.
func SearchLines(query string, docs []chunker.Document) []LineMatch {
	needle := strings.ToLower(query)

	var results []LineMatch
	for _, doc := range docs {
		var lines []string
		for _, line := range splitLines(doc.Content) {
			if strings.Contains(strings.ToLower(line), needle) {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			results = append(results, LineMatch{Source: doc.ID, Lines: lines})
		}
	}
	return results
}

// splitLines splits on "\n" and drops a trailing "\r" from each terminated
// line. A final line terminator does not produce an extra empty line. An
// unterminated final line is kept as is, including a lone trailing "\r".
func splitLines(content string) []string {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	scanner.Split(scanTerminatedLines)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func scanTerminatedLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) > 0 && bytes.IndexByte(data, '\n') < 0 {
		return len(data), data, nil
	}
	return bufio.ScanLines(data, atEOF)
}
