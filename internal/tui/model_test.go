package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DreamCats/docrank/internal/chunker"
	"github.com/DreamCats/docrank/internal/retrieval"
)

type fakeSearcher struct {
	results []retrieval.ScoredChunk
	err     error
	modes   []retrieval.Mode
}

func (f *fakeSearcher) Search(query string, mode retrieval.Mode) ([]retrieval.ScoredChunk, error) {
	f.modes = append(f.modes, mode)
	return f.results, f.err
}

func brackets(s string) string { return "[" + s + "]" }

func TestHighlightTerms(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		terms []string
		want  string
	}{
		{"single", "The quick fox", []string{"fox"}, "The quick [fox]"},
		{"case insensitive", "Fox and FOX", []string{"fox"}, "[Fox] and [FOX]"},
		{"substring", "foxes", []string{"fox"}, "[fox]es"},
		{"overlap merged", "brown", []string{"bro", "own"}, "[brown]"},
		{"no terms", "plain", nil, "plain"},
		{"empty term", "plain", []string{""}, "plain"},
		{"multibyte", "Ünïcode text", []string{"ünï"}, "[Ünï]code text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HighlightTerms(tt.text, tt.terms, brackets))
		})
	}
}

func resize(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestModel_EnterRunsQuery(t *testing.T) {
	s := &fakeSearcher{results: []retrieval.ScoredChunk{
		{Chunk: chunker.Chunk{Text: "a fox", Source: "a.txt"}, Score: 0.5},
		{Chunk: chunker.Chunk{Text: "b fox", Source: "b.txt"}, Score: 0.2},
	}}
	m := resize(New(s, "2 files", ""))
	assert.Contains(t, m.View(), "docrank")

	m.input.SetValue("fox")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	require.Len(t, m.results, 2)
	assert.Equal(t, "fox", m.lastQuery)
	assert.Equal(t, []retrieval.Mode{retrieval.ModeTFIDF}, s.modes)
	assert.Contains(t, m.renderCurrentResult(), "a.txt")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)
}

func TestModel_RenderCurrentResult(t *testing.T) {
	s := &fakeSearcher{results: []retrieval.ScoredChunk{
		{Chunk: chunker.Chunk{Text: "The brown Fox jumps", Source: "docs/a.txt", Index: 3}, Score: 0.25},
	}}
	m := resize(New(s, "", ""))
	assert.Equal(t, "No results yet.", m.renderCurrentResult())

	m.input.SetValue("fox brown")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	out := m.renderCurrentResult()
	assert.Contains(t, out, "Result 1/1  docs/a.txt#3  score=0.2500")
	assert.Contains(t, out, "Fox")
	assert.Contains(t, out, "jumps")
	assert.Contains(t, m.View(), "docs/a.txt")
}

func TestModel_TabSwitchesMode(t *testing.T) {
	s := &fakeSearcher{}
	m := resize(New(s, "", retrieval.ModeTFIDF))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, retrieval.ModeBleve, m.mode)
	assert.Empty(t, s.modes)

	m.input.SetValue("dog")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, []retrieval.Mode{retrieval.ModeBleve, retrieval.ModeTFIDF}, s.modes)
	assert.Equal(t, "No matching chunks.", m.renderCurrentResult())
}

func TestModel_SearchError(t *testing.T) {
	s := &fakeSearcher{err: errors.New("boom")}
	m := resize(New(s, "", ""))
	m.input.SetValue("x")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Equal(t, "Error: boom", m.status)
	assert.Nil(t, m.results)
}

func TestModel_Quit(t *testing.T) {
	m := New(&fakeSearcher{}, "", "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
