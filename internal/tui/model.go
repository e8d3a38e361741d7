package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DreamCats/docrank/internal/retrieval"
)

// Searcher is the TUI-facing subset of the search engine.
type Searcher interface {
	Search(query string, mode retrieval.Mode) ([]retrieval.ScoredChunk, error)
}

// Model is the Bubble Tea model for the browse view.
type Model struct {
	searcher  Searcher
	input     textinput.Model
	viewport  viewport.Model
	results   []retrieval.ScoredChunk
	summary   string
	status    string
	mode      retrieval.Mode
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a browse model over searcher. summary is shown under the title.
func New(searcher Searcher, summary string, mode retrieval.Mode) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	if mode == "" {
		mode = retrieval.ModeTFIDF
	}
	return Model{
		searcher: searcher,
		input:    ti,
		viewport: viewport.New(0, 0),
		summary:  summary,
		mode:     mode,
		status:   "Corpus loaded. Type to search, tab switches ranking mode.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // title, summary, status, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				m.runQuery(q)
				return m, nil
			}
		case "tab":
			if m.mode == retrieval.ModeTFIDF {
				m.mode = retrieval.ModeBleve
			} else {
				m.mode = retrieval.ModeTFIDF
			}
			if m.lastQuery != "" {
				m.runQuery(m.lastQuery)
			} else {
				m.status = fmt.Sprintf("Mode: %s", m.mode)
			}
			return m, nil
		case "down", "ctrl+n":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				m.viewport.GotoTop()
				return m, nil
			}
		case "up", "ctrl+p":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				m.viewport.GotoTop()
				return m, nil
			}
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) runQuery(q string) {
	res, err := m.searcher.Search(q, m.mode)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else {
		m.status = fmt.Sprintf("%d result(s) for %q [%s]", len(res), q, m.mode)
		m.results = res
		m.cursor = 0
		m.lastQuery = q
	}
	m.viewport.SetContent(m.renderCurrentResult())
	m.viewport.GotoTop()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("docrank")
	summary := summaryStyle.Render(m.summary)
	results := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		if m.lastQuery != "" {
			return "No matching chunks."
		}
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  %s#%d  score=%.4f",
		m.cursor+1, len(m.results), r.Chunk.Source, r.Chunk.Index, r.Score)
	body := HighlightTerms(r.Chunk.Text, strings.Fields(m.lastQuery), func(s string) string {
		return highlightStyle.Render(s)
	})
	return sourceStyle.Render(title) + "\n\n" + body
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// HighlightTerms wraps every case-insensitive occurrence of any term in text
// with render. Overlapping occurrences are merged. Text whose lowercase form
// changes byte length is returned unchanged.
func HighlightTerms(text string, terms []string, render func(string) string) string {
	lower := strings.ToLower(text)
	if len(lower) != len(text) || len(terms) == 0 {
		return text
	}

	marked := make([]bool, len(text))
	for _, term := range terms {
		needle := strings.ToLower(term)
		if needle == "" {
			continue
		}
		for from := 0; from < len(lower); {
			i := strings.Index(lower[from:], needle)
			if i < 0 {
				break
			}
			start := from + i
			for j := start; j < start+len(needle); j++ {
				marked[j] = true
			}
			from = start + len(needle)
		}
	}

	var b strings.Builder
	for i := 0; i < len(text); {
		j := i
		for j < len(text) && marked[j] == marked[i] {
			j++
		}
		if marked[i] {
			b.WriteString(render(text[i:j]))
		} else {
			b.WriteString(text[i:j])
		}
		i = j
	}
	return b.String()
}
