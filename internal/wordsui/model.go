// Package wordsui provides the interactive word availability browser.
package wordsui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/zodis/internal/stats"
	"github.com/verte-zerg/zodis/internal/wordlist"
)

// Settings is the part of the settings provider the browser edits.
type Settings interface {
	AvailableWords() []string
	IsAvailable(word string) bool
	ToggleWordAvailability(ctx context.Context, word string) (bool, error)
	AddAvailableWord(ctx context.Context, word string) (bool, error)
}

// Ledger reports which words were already practiced.
type Ledger interface {
	IsUsedIn(ctx context.Context, level int, word string) bool
}

// Rows lists the words of level: the built-in list plus enabled words
// whose length fits the level, sorted alphabetically.
func Rows(ctx context.Context, catalog *wordlist.Catalog, settings Settings, ledger Ledger, level int) []stats.WordRow {
	seen := map[string]struct{}{}
	words := []string{}
	for _, w := range catalog.Level(level) {
		if _, ok := seen[w]; !ok {
			seen[w] = struct{}{}
			words = append(words, w)
		}
	}
	for _, w := range catalog.Filter(level, settings.AvailableWords()) {
		if _, ok := seen[w]; !ok {
			seen[w] = struct{}{}
			words = append(words, w)
		}
	}
	sort.Strings(words)

	rows := make([]stats.WordRow, 0, len(words))
	for _, w := range words {
		rows = append(rows, stats.WordRow{
			Word:      w,
			Level:     level,
			Available: settings.IsAvailable(w),
			Used:      ledger.IsUsedIn(ctx, level, w),
		})
	}
	return rows
}

// Model implements the Bubble Tea word browser.
type Model struct {
	catalog  *wordlist.Catalog
	settings Settings
	ledger   Ledger
	logger   *log.Logger

	level  int
	rows   []stats.WordRow
	table  table.Model
	input  textinput.Model
	adding bool
	status string

	width  int
	height int
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
)

// NewModel constructs a browser starting at level.
func NewModel(catalog *wordlist.Catalog, settings Settings, ledger Ledger, level int, logger *log.Logger) *Model {
	if !wordlist.ValidLevel(level) {
		level = wordlist.MinLevel
	}
	input := textinput.New()
	input.Prompt = "Add word: "
	input.CharLimit = 32
	m := &Model{
		catalog:  catalog,
		settings: settings,
		ledger:   ledger,
		logger:   logger,
		level:    level,
		input:    input,
		table:    newTable(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(1, msg.Height-4))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.adding {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.setLevel(m.level - 1)
			return m, nil
		case "right", "l":
			m.setLevel(m.level + 1)
			return m, nil
		case " ", "enter":
			m.toggleSelected()
			return m, nil
		case "a":
			m.adding = true
			m.input.SetValue("")
			return m, m.input.Focus()
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	header := titleStyle.Render(fmt.Sprintf("Level %d", m.level)) + "  " + m.summary()
	lines := []string{header, m.table.View()}
	if m.adding {
		lines = append(lines, m.input.View())
	} else {
		lines = append(lines, helpStyle.Render("space toggle · a add word · ←/→ level · q quit"))
	}
	if m.status != "" {
		lines = append(lines, statusStyle.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) summary() string {
	available, used := 0, 0
	for _, r := range m.rows {
		if r.Available {
			available++
		}
		if r.Used {
			used++
		}
	}
	return helpStyle.Render(fmt.Sprintf("%d words · %d enabled · %d used", len(m.rows), available, used))
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.adding = false
		m.input.Blur()
		m.addWord(m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) addWord(raw string) {
	word := wordlist.Normalize(raw)
	if word == "" {
		return
	}
	added, err := m.settings.AddAvailableWord(context.Background(), word)
	if err != nil {
		m.logger.Error("failed to add word", "word", word, "err", err)
		m.status = fmt.Sprintf("Failed to add %q", word)
		return
	}
	switch {
	case !added:
		m.status = fmt.Sprintf("%q is already enabled", word)
	case !m.catalog.Eligible(m.level, word):
		m.status = fmt.Sprintf("Added %q; it does not fit level %d", word, m.level)
	default:
		m.status = fmt.Sprintf("Added %q", word)
	}
	m.refresh()
}

func (m *Model) toggleSelected() {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return
	}
	word := m.rows[idx].Word
	enabled, err := m.settings.ToggleWordAvailability(context.Background(), word)
	if err != nil {
		m.logger.Error("failed to toggle word", "word", word, "err", err)
		m.status = fmt.Sprintf("Failed to update %q", word)
		return
	}
	if enabled {
		m.status = fmt.Sprintf("Enabled %q", word)
	} else {
		m.status = fmt.Sprintf("Disabled %q", word)
	}
	m.refresh()
}

func (m *Model) setLevel(level int) {
	if !wordlist.ValidLevel(level) {
		return
	}
	m.level = level
	m.status = ""
	m.refresh()
	m.table.GotoTop()
}

func (m *Model) refresh() {
	m.rows = Rows(context.Background(), m.catalog, m.settings, m.ledger, m.level)
	tableRows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		tableRows = append(tableRows, table.Row{
			r.Word,
			fmt.Sprintf("%d", len([]rune(r.Word))),
			mark(r.Available),
			mark(r.Used),
		})
	}
	cursor := m.table.Cursor()
	m.table.SetRows(tableRows)
	if cursor >= len(tableRows) {
		cursor = len(tableRows) - 1
	}
	m.table.SetCursor(max(0, cursor))
}

func mark(v bool) string {
	if v {
		return "✓"
	}
	return ""
}

func newTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Word", Width: 14},
			{Title: "Letters", Width: 7},
			{Title: "Enabled", Width: 7},
			{Title: "Used", Width: 4},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}
