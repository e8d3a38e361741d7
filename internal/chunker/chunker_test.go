package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinChunks(chunks []Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Text)
	}
	return b.String()
}

func TestChunkText_Basic(t *testing.T) {
	chunks, err := ChunkText("The quick brown fox jumps over the lazy dog.", 20, "test.txt")
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	assert.Equal(t, "The quick brown fox ", chunks[0].Text)
	assert.Equal(t, "jumps over the lazy ", chunks[1].Text)
	assert.Equal(t, "dog.", chunks[2].Text)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, "test.txt", c.Source)
	}
}

func TestChunkText_Empty(t *testing.T) {
	chunks, err := ChunkText("", 10, "empty.txt")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkText_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -500} {
		chunks, err := ChunkText("some text", size, "x")
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
		assert.Nil(t, chunks)
	}
}

func TestChunkText_RoundTrip(t *testing.T) {
	texts := []string{
		"a",
		"hello world",
		"héllo wörld, ça va?",
		"日本語のテキストを分割します",
		"emoji 🙂🙃 mixed with ascii and ünïcödé",
		strings.Repeat("abc\n", 100),
	}
	for _, text := range texts {
		for size := 1; size <= 12; size++ {
			chunks, err := ChunkText(text, size, "doc")
			require.NoError(t, err)
			assert.Equal(t, text, joinChunks(chunks), "size %d", size)
		}
	}
}

func TestChunkText_BoundarySafety(t *testing.T) {
	text := "aé日🙂b日本語🙂🙂é"
	for size := 1; size <= 8; size++ {
		chunks, err := ChunkText(text, size, "doc")
		require.NoError(t, err)
		for i, c := range chunks {
			assert.True(t, utf8.ValidString(c.Text), "size %d chunk %d: %q", size, i, c.Text)
			if i < len(chunks)-1 {
				assert.GreaterOrEqual(t, len(c.Text), size)
				assert.LessOrEqual(t, len(c.Text), size+utf8.UTFMax-1)
			}
		}
	}
}

func TestChunkText_MultiByteAdvance(t *testing.T) {
	// "é" is two bytes; a cut at byte 1 must move to byte 2.
	chunks, err := ChunkText("éa", 1, "doc")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "é", chunks[0].Text)
	assert.Equal(t, "a", chunks[1].Text)
}

func TestChunkText_CountMonotonic(t *testing.T) {
	text := "Zwölf Boxkämpfer jagen Viktor quer über den großen Sylter Deich 🙂"
	prev := 0
	for size := len(text) + 1; size >= 1; size-- {
		chunks, err := ChunkText(text, size, "doc")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(chunks), prev, "size %d", size)
		prev = len(chunks)
	}
}

func TestChunkText_InvalidUTF8(t *testing.T) {
	text := "ab\x80\x80\x80cd"
	chunks, err := ChunkText(text, 2, "bin")
	require.NoError(t, err)
	assert.Equal(t, text, joinChunks(chunks))
}

func TestChunkDocuments(t *testing.T) {
	docs := []Document{
		{ID: "a.txt", Content: "abcdef"},
		{ID: "b.txt", Content: ""},
		{ID: "a.txt", Content: "xyz"},
	}
	chunks, err := ChunkDocuments(docs, 4)
	require.NoError(t, err)

	want := []Chunk{
		{Text: "abcd", Source: "a.txt", Index: 0},
		{Text: "ef", Source: "a.txt", Index: 1},
		{Text: "xyz", Source: "a.txt", Index: 0},
	}
	assert.Equal(t, want, chunks)

	_, err = ChunkDocuments(docs, 0)
	assert.ErrorIs(t, err, ErrInvalidChunkSize)
}
