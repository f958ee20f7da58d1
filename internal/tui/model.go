// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/zodis/internal/model"
	"github.com/verte-zerg/zodis/internal/session"
	statsPkg "github.com/verte-zerg/zodis/internal/stats"
)

// Sessions is the part of the session manager the practice screen drives.
type Sessions interface {
	CurrentWord() (string, bool)
	CompleteCurrentWord(ctx context.Context) error
	SkipCurrentWord(ctx context.Context) (string, bool, error)
	StartNewSession(ctx context.Context) (session.Draw, error)
	IsSessionComplete() bool
	Status() session.Status
}

// AudioSource fetches word audio, usually the audio cache.
type AudioSource interface {
	FetchAudio(ctx context.Context, word string) ([]byte, error)
	PreFetchWordAudio(ctx context.Context, words []string) int
}

// Results stores finished practice sessions.
type Results interface {
	InsertResult(ctx context.Context, r model.PracticeResult) (int64, error)
	ListResults(ctx context.Context, level, last int) ([]model.ResultAggregate, error)
}

// Options configures the practice screen.
type Options struct {
	Audio  bool
	Player Player
	Logger *log.Logger
}

type prefetchDoneMsg struct {
	fetched int
}

type playedMsg struct {
	word string
	err  error
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	sessions     Sessions
	audio        AudioSource
	results      Results
	player       Player
	logger       *log.Logger
	audioEnabled bool
	now          func() time.Time

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	// pending counts audio commands still running.
	pending int

	width  int
	height int

	target []rune
	input  []rune

	started   bool
	startedAt time.Time
	correct   int
	incorrect int
	finished  bool
	notice    string

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM       float64
	allAcc       float64
	allCorrect   int
	allIncorrect int
	allDuration  int64
}

var (
	correctStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	doneStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF5F"))
	stripCurrentStyle = currentWordStyle.Bold(true)
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Italic(true)
)

// NewModel constructs the practice TUI model.
func NewModel(sessions Sessions, audio AudioSource, results Results, opts Options) *Model {
	if opts.Player == nil {
		opts.Player = CommandPlayer{Command: DefaultPlayerCommand}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	m := &Model{
		sessions:     sessions,
		audio:        audio,
		results:      results,
		player:       opts.Player,
		logger:       opts.Logger,
		audioEnabled: opts.Audio && audio != nil,
		now:          time.Now,
		keys:         defaultKeyMap(),
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if sessions.IsSessionComplete() {
		m.finished = true
	} else {
		m.loadCurrentWord()
	}
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if !m.audioEnabled || m.finished {
		return nil
	}
	return m.track(m.prefetchCmd(m.sessions.Status().Words))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case prefetchDoneMsg:
		m.pending--
		m.logger.Debug("session audio prefetched", "fetched", msg.fetched)
		return m, m.track(m.playCmd(string(m.target)))
	case playedMsg:
		m.pending--
		if msg.err != nil {
			m.logger.Warn("audio playback failed", "word", msg.word, "err", msg.err)
			m.notice = fmt.Sprintf("Audio unavailable for %q", msg.word)
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.NewSession):
		return m.newSession()
	case key.Matches(msg, m.keys.Skip):
		return m.skipWord()
	case key.Matches(msg, m.keys.Replay):
		return m.track(m.playCmd(string(m.target)))
	}
	if m.finished {
		if msg.Type == tea.KeyEnter {
			return m.newSession()
		}
		return nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.handleBackspace()
		return nil
	case tea.KeySpace:
		return m.handleRunes([]rune{' '})
	case tea.KeyRunes:
		return m.handleRunes(msg.Runes)
	default:
		return nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	helpLine := m.help.View(m.keys)
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpRow := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine)
	return body + "\n" + footerLine + "\n" + helpRow
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderContent() string {
	var lines []string
	switch {
	case m.finished:
		lines = append(lines, stripCurrentStyle.Render("Session complete"))
		if m.hasLast {
			lines = append(lines, fmt.Sprintf("%.1f WPM · %.1f%% accuracy", m.lastWPM, m.lastAcc*100))
		}
		lines = append(lines, "", pendingStyle.Render("Press enter or ctrl+n for a new session"))
	case len(m.target) == 0:
		lines = append(lines, pendingStyle.Render("No words to practice. Enable some with: zodis settings enable WORD"))
	default:
		status := m.sessions.Status()
		strip := wrapStyledRunes(buildStripRunes(status.Words, status.Progress, status.Current), m.contentWidth())
		lines = append(lines, strip, "", renderStyledRunes(buildWordRunes(m.target, m.input)))
	}
	if m.notice != "" {
		lines = append(lines, "", noticeStyle.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) handleBackspace() {
	if len(m.input) == 0 {
		return
	}
	m.input = m.input[:len(m.input)-1]
}

func (m *Model) handleRunes(runes []rune) tea.Cmd {
	for _, r := range runes {
		if len(m.input) >= len(m.target) {
			break
		}
		if !m.started {
			m.started = true
			m.startedAt = m.now()
		}
		if runesEqual(r, m.target[len(m.input)]) {
			m.correct++
		} else {
			m.incorrect++
		}
		m.input = append(m.input, r)
	}
	if len(m.target) > 0 && m.inputMatches() {
		return m.completeWord()
	}
	return nil
}

func (m *Model) inputMatches() bool {
	if len(m.input) != len(m.target) {
		return false
	}
	for i, r := range m.target {
		if !runesEqual(m.input[i], r) {
			return false
		}
	}
	return true
}

func runesEqual(a, b rune) bool {
	return unicode.ToLower(a) == unicode.ToLower(b)
}

func (m *Model) completeWord() tea.Cmd {
	if err := m.sessions.CompleteCurrentWord(context.Background()); err != nil {
		m.logger.Error("failed to complete word", "err", err)
		m.notice = "Failed to save progress"
		return nil
	}
	m.notice = ""
	if m.sessions.IsSessionComplete() {
		m.finishSession()
		return nil
	}
	m.loadCurrentWord()
	return m.track(m.playCmd(string(m.target)))
}

func (m *Model) skipWord() tea.Cmd {
	if m.finished || len(m.target) == 0 {
		return nil
	}
	word, ok, err := m.sessions.SkipCurrentWord(context.Background())
	if err != nil {
		m.logger.Error("failed to skip word", "err", err)
		m.notice = "Failed to skip word"
		return nil
	}
	if !ok {
		m.notice = "No other word to skip to"
		return nil
	}
	m.notice = ""
	m.target = []rune(word)
	m.input = nil
	return m.track(m.playCmd(word))
}

func (m *Model) newSession() tea.Cmd {
	draw, err := m.sessions.StartNewSession(context.Background())
	if err != nil {
		m.logger.Error("failed to start session", "err", err)
		m.notice = "Failed to start a new session"
		return nil
	}
	m.resetProgress()
	m.finished = false
	m.loadCurrentWord()
	m.notice = drawNotice(draw)
	m.logger.Info("session started", "level", draw.Level, "words", len(draw.Session.Words), "source", draw.Source, "ledger_reset", draw.LedgerReset)
	if !m.audioEnabled {
		return nil
	}
	return m.track(m.prefetchCmd(draw.Session.Words))
}

func drawNotice(draw session.Draw) string {
	var parts []string
	if draw.LedgerReset {
		parts = append(parts, "All words of this level were used, starting over")
	}
	if draw.Source == session.PoolCatalogFallback {
		parts = append(parts, "No enabled words fit this level, using the built-in list")
	}
	return strings.Join(parts, ". ")
}

func (m *Model) loadCurrentWord() {
	word, ok := m.sessions.CurrentWord()
	if !ok {
		m.target = nil
	} else {
		m.target = []rune(word)
	}
	m.input = nil
}

func (m *Model) resetProgress() {
	m.input = nil
	m.started = false
	m.startedAt = time.Time{}
	m.correct = 0
	m.incorrect = 0
}

func (m *Model) finishSession() {
	m.finished = true
	m.input = nil
	if !m.started {
		return
	}
	endedAt := m.now()
	result := model.PracticeResult{
		StartedAt:  m.startedAt,
		EndedAt:    endedAt,
		Level:      m.sessions.Status().Level,
		Words:      m.sessions.Status().Total,
		Correct:    m.correct,
		Incorrect:  m.incorrect,
		DurationMs: endedAt.Sub(m.startedAt).Milliseconds(),
	}
	if _, err := m.results.InsertResult(context.Background(), result); err != nil {
		m.logger.Error("failed to save result", "err", err)
	}
	wpm, _, acc := statsPkg.SessionMetrics(result.Correct, result.Incorrect, result.DurationMs)
	m.lastWPM = wpm
	m.lastAcc = acc
	m.hasLast = true
	m.allCorrect += result.Correct
	m.allIncorrect += result.Incorrect
	m.allDuration += result.DurationMs
	m.recomputeAllTime()
	m.resetProgress()
}

func (m *Model) loadFooterStats() {
	results, err := m.results.ListResults(context.Background(), 0, 0)
	if err != nil {
		m.logger.Warn("failed to load practice results", "err", err)
		return
	}
	if len(results) == 0 {
		return
	}
	last := results[len(results)-1]
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(last.Correct, last.Incorrect, last.DurationMs)
	m.hasLast = true
	for _, r := range results {
		m.allCorrect += r.Correct
		m.allIncorrect += r.Incorrect
		m.allDuration += r.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	wpm, _, acc := statsPkg.SessionMetrics(m.allCorrect, m.allIncorrect, m.allDuration)
	m.allWPM = wpm
	m.allAcc = acc
}

func (m *Model) renderFooter() string {
	status := m.sessions.Status()
	segments := []string{}
	if status.Total > 0 {
		segments = append(segments, fmt.Sprintf("Word %d/%d", min(status.Current+1, status.Total), status.Total))
	}
	segments = append(segments, fmt.Sprintf("Level %d", status.Level))
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	if m.pending > 0 {
		segments = append(segments, m.spinner.View()+" audio")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// track registers cmd as a pending audio operation and starts the spinner
// when nothing else was running.
func (m *Model) track(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	m.pending++
	if m.pending == 1 {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

func (m *Model) prefetchCmd(words []string) tea.Cmd {
	if len(words) == 0 {
		return nil
	}
	audio := m.audio
	words = append([]string(nil), words...)
	return func() tea.Msg {
		return prefetchDoneMsg{fetched: audio.PreFetchWordAudio(context.Background(), words)}
	}
}

func (m *Model) playCmd(word string) tea.Cmd {
	if !m.audioEnabled || word == "" {
		return nil
	}
	audio, player := m.audio, m.player
	return func() tea.Msg {
		ctx := context.Background()
		payload, err := audio.FetchAudio(ctx, word)
		if err == nil {
			err = player.Play(ctx, payload)
		}
		return playedMsg{word: word, err: err}
	}
}
