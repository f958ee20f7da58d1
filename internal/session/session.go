// Package session selects practice words and tracks session progress.
//
// A Manager owns the current session and the per-level ledger of words that
// were already drawn, so consecutive sessions avoid repeating words until the
// level's pool runs out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/zodis/internal/generator"
	"github.com/verte-zerg/zodis/internal/model"
	"github.com/verte-zerg/zodis/internal/wordlist"
)

const (
	sessionKey      = "session"
	usedWordsPrefix = "used_words:"
)

var (
	// ErrEmptyWord is returned when replacing the current word with a blank one.
	ErrEmptyWord = errors.New("word must not be empty")
	// ErrDuplicateWord is returned when a replacement already appears elsewhere in the session.
	ErrDuplicateWord = errors.New("word already in session")
	// ErrEmptySession is returned when an operation needs a current word.
	ErrEmptySession = errors.New("session has no words")
)

// KV is the string key-value persistence the manager writes through.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Settings is the read-only view of user preferences the manager needs.
type Settings interface {
	WordsPerSession() int
	AvailableWords() []string
	SelectedLevel() int
}

// PoolSource tells where the words of a draw came from.
type PoolSource int

const (
	// PoolAvailable means the user's enabled words had eligible entries for the level.
	PoolAvailable PoolSource = iota
	// PoolCatalogFallback means no enabled word was eligible and the level's
	// built-in list was used instead.
	PoolCatalogFallback
)

func (s PoolSource) String() string {
	switch s {
	case PoolAvailable:
		return "available"
	case PoolCatalogFallback:
		return "catalog-fallback"
	default:
		return "unknown"
	}
}

// Draw is the result of creating a session.
type Draw struct {
	Session     model.Session
	Level       int
	Source      PoolSource
	LedgerReset bool
	PoolSize    int
}

// Status summarizes progress for display.
type Status struct {
	Level     int
	Total     int
	Completed int
	Current   int
	Words     []string
	Progress  []bool
}

// Manager owns the current session and the used-words ledger.
// It is not safe for concurrent use; callers serialize mutating calls.
type Manager struct {
	kv       KV
	settings Settings
	catalog  *wordlist.Catalog
	gen      *generator.Generator
	logger   *log.Logger

	session model.Session
	// ledgers caches loaded per-level ledgers.
	ledgers map[int]map[string]struct{}
}

// Open loads the persisted session, creating a new one when none is stored,
// the stored state is unreadable, or it was drawn for another level.
func Open(ctx context.Context, kv KV, settings Settings, catalog *wordlist.Catalog, gen *generator.Generator, logger *log.Logger) (*Manager, error) {
	m := &Manager{
		kv:       kv,
		settings: settings,
		catalog:  catalog,
		gen:      gen,
		logger:   logger,
		ledgers:  map[int]map[string]struct{}{},
	}
	if s, ok := m.loadSession(ctx); ok {
		level := settings.SelectedLevel()
		if s.Level == level {
			m.session = s
			return m, nil
		}
		logger.Info("stored session belongs to another level, starting a new one", "stored", s.Level, "selected", level)
	}
	if _, err := m.CreateSession(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) loadSession(ctx context.Context) (model.Session, bool) {
	raw, ok, err := m.kv.Get(ctx, sessionKey)
	if err != nil {
		m.logger.Warn("failed to read session", "err", err)
		return model.Session{}, false
	}
	if !ok {
		return model.Session{}, false
	}
	var s model.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		m.logger.Warn("malformed session, starting a new one", "err", err)
		return model.Session{}, false
	}
	if !s.Valid() || len(s.Words) == 0 {
		m.logger.Warn("stored session is inconsistent, starting a new one", "words", len(s.Words), "completed", len(s.Completed))
		return model.Session{}, false
	}
	return s, true
}

// CreateSession draws a fresh session for the selected level and makes it current.
func (m *Manager) CreateSession(ctx context.Context) (Draw, error) {
	level := m.settings.SelectedLevel()
	pool, source := m.pool(level)
	if source == PoolCatalogFallback {
		m.logger.Info("no enabled words fit the level, using the built-in list", "level", level)
	}

	count := m.settings.WordsPerSession()
	current := m.ledger(ctx, level)
	unused, reset := unusedWords(pool, current, count)
	ledger := map[string]struct{}{}
	if reset {
		m.logger.Info("used words exhausted, clearing ledger", "level", level, "pool", len(pool), "requested", count)
	} else {
		ledger = copyLedger(current)
	}

	words := m.gen.Draw(unused, count)
	for _, w := range words {
		ledger[w] = struct{}{}
	}
	if err := m.saveLedger(ctx, level, ledger); err != nil {
		return Draw{}, err
	}
	m.ledgers[level] = ledger

	s := model.Session{
		Level:        level,
		Words:        words,
		CurrentIndex: 0,
		Completed:    make([]bool, len(words)),
	}
	if err := m.saveSession(ctx, s); err != nil {
		return Draw{}, err
	}
	m.session = s
	return Draw{
		Session:     s.Clone(),
		Level:       level,
		Source:      source,
		LedgerReset: reset,
		PoolSize:    len(pool),
	}, nil
}

// StartNewSession replaces the current session. The exhaustion check runs
// before the draw so the ledger reset happens as part of this call.
func (m *Manager) StartNewSession(ctx context.Context) (Draw, error) {
	level := m.settings.SelectedLevel()
	pool, _ := m.pool(level)
	if len(pool)-m.usedIn(ctx, level, pool) < m.settings.WordsPerSession() {
		if err := m.resetLedger(ctx, level); err != nil {
			return Draw{}, err
		}
		d, err := m.CreateSession(ctx)
		if err != nil {
			return Draw{}, err
		}
		d.LedgerReset = true
		return d, nil
	}
	return m.CreateSession(ctx)
}

// pool returns the eligible enabled words for level, or the level's
// built-in list when none qualify.
func (m *Manager) pool(level int) ([]string, PoolSource) {
	pool := m.catalog.Filter(level, m.settings.AvailableWords())
	if len(pool) > 0 {
		return pool, PoolAvailable
	}
	return m.catalog.Level(level), PoolCatalogFallback
}

// unusedWords removes ledger entries from pool. When fewer than want remain,
// it reports a reset and returns the whole pool.
func unusedWords(pool []string, ledger map[string]struct{}, want int) ([]string, bool) {
	unused := make([]string, 0, len(pool))
	for _, w := range pool {
		if _, ok := ledger[w]; !ok {
			unused = append(unused, w)
		}
	}
	if len(unused) < want {
		return pool, true
	}
	return unused, false
}

func (m *Manager) usedIn(ctx context.Context, level int, pool []string) int {
	ledger := m.ledger(ctx, level)
	n := 0
	for _, w := range pool {
		if _, ok := ledger[w]; ok {
			n++
		}
	}
	return n
}

// Session returns a copy of the current session.
func (m *Manager) Session() model.Session {
	return m.session.Clone()
}

// CurrentWord returns the word at the current index.
func (m *Manager) CurrentWord() (string, bool) {
	if len(m.session.Words) == 0 {
		return "", false
	}
	return m.session.Words[m.session.CurrentIndex], true
}

// NextWord returns the word after the current one. It reports false at the
// last word; there is no wrap-around.
func (m *Manager) NextWord() (string, bool) {
	next := m.session.CurrentIndex + 1
	if next >= len(m.session.Words) {
		return "", false
	}
	return m.session.Words[next], true
}

// IsCurrentWord reports whether word, case-folded, is the current word.
func (m *Manager) IsCurrentWord(word string) bool {
	current, ok := m.CurrentWord()
	return ok && current == wordlist.Normalize(word)
}

// CompleteCurrentWord marks the current word done and advances, saturating at the last index.
func (m *Manager) CompleteCurrentWord(ctx context.Context) error {
	word, ok := m.CurrentWord()
	if !ok {
		return ErrEmptySession
	}
	next := m.session.Clone()
	next.Completed[next.CurrentIndex] = true
	if next.CurrentIndex < len(next.Words)-1 {
		next.CurrentIndex++
	}
	if err := m.recordUsed(ctx, m.session.Level, word); err != nil {
		return err
	}
	if err := m.saveSession(ctx, next); err != nil {
		return err
	}
	m.session = next
	return nil
}

// ReplaceCurrentWord substitutes the current word and clears its completed flag.
// Replacing a word with itself is a no-op.
func (m *Manager) ReplaceCurrentWord(ctx context.Context, word string) error {
	word = wordlist.Normalize(word)
	if word == "" {
		return ErrEmptyWord
	}
	current, ok := m.CurrentWord()
	if !ok {
		return ErrEmptySession
	}
	if current == word {
		return nil
	}
	for i, w := range m.session.Words {
		if i != m.session.CurrentIndex && w == word {
			return fmt.Errorf("%w: %q", ErrDuplicateWord, word)
		}
	}
	next := m.session.Clone()
	next.Words[next.CurrentIndex] = word
	next.Completed[next.CurrentIndex] = false
	if err := m.recordUsed(ctx, m.session.Level, word); err != nil {
		return err
	}
	if err := m.saveSession(ctx, next); err != nil {
		return err
	}
	m.session = next
	return nil
}

// SkipCurrentWord replaces the current word with an unused word from the
// session level's pool that is not already in the session. It reports false when no
// such word exists.
func (m *Manager) SkipCurrentWord(ctx context.Context) (string, bool, error) {
	if _, ok := m.CurrentWord(); !ok {
		return "", false, ErrEmptySession
	}
	level := m.session.Level
	pool, _ := m.pool(level)
	ledger := m.ledger(ctx, level)
	inSession := make(map[string]struct{}, len(m.session.Words))
	for _, w := range m.session.Words {
		inSession[w] = struct{}{}
	}
	var fresh, reusable []string
	for _, w := range pool {
		if _, ok := inSession[w]; ok {
			continue
		}
		if _, ok := ledger[w]; ok {
			reusable = append(reusable, w)
			continue
		}
		fresh = append(fresh, w)
	}
	if len(fresh) == 0 {
		fresh = reusable
	}
	word, ok := m.gen.Pick(fresh)
	if !ok {
		return "", false, nil
	}
	if err := m.ReplaceCurrentWord(ctx, word); err != nil {
		return "", false, err
	}
	return word, true, nil
}

// IsSessionComplete reports whether every word is completed. An empty session is never complete.
func (m *Manager) IsSessionComplete() bool {
	if len(m.session.Completed) == 0 {
		return false
	}
	for _, done := range m.session.Completed {
		if !done {
			return false
		}
	}
	return true
}

// Status summarizes the current session.
func (m *Manager) Status() Status {
	s := m.session.Clone()
	completed := 0
	for _, done := range s.Completed {
		if done {
			completed++
		}
	}
	return Status{
		Level:     s.Level,
		Total:     len(s.Words),
		Completed: completed,
		Current:   s.CurrentIndex,
		Words:     s.Words,
		Progress:  s.Completed,
	}
}

// ResetUsedWords clears the ledger of the selected level.
func (m *Manager) ResetUsedWords(ctx context.Context) error {
	return m.resetLedger(ctx, m.settings.SelectedLevel())
}

// UsedWordsCount returns the ledger size of the selected level.
func (m *Manager) UsedWordsCount(ctx context.Context) int {
	return len(m.ledger(ctx, m.settings.SelectedLevel()))
}

// IsUsed reports whether word is recorded in the selected level's ledger.
func (m *Manager) IsUsed(ctx context.Context, word string) bool {
	return m.IsUsedIn(ctx, m.settings.SelectedLevel(), word)
}

// IsUsedIn reports whether word is recorded in the ledger of level.
func (m *Manager) IsUsedIn(ctx context.Context, level int, word string) bool {
	_, ok := m.ledger(ctx, level)[wordlist.Normalize(word)]
	return ok
}

func (m *Manager) recordUsed(ctx context.Context, level int, word string) error {
	current := m.ledger(ctx, level)
	if _, ok := current[word]; ok {
		return nil
	}
	ledger := copyLedger(current)
	ledger[word] = struct{}{}
	if err := m.saveLedger(ctx, level, ledger); err != nil {
		return err
	}
	m.ledgers[level] = ledger
	return nil
}

func (m *Manager) resetLedger(ctx context.Context, level int) error {
	if err := m.kv.Delete(ctx, ledgerKey(level)); err != nil {
		return fmt.Errorf("failed to reset used words: %w", err)
	}
	m.ledgers[level] = map[string]struct{}{}
	return nil
}

func copyLedger(ledger map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(ledger)+1)
	for w := range ledger {
		out[w] = struct{}{}
	}
	return out
}

// ledger returns the level's ledger, loading it on first use. Unreadable
// state is logged and treated as empty.
func (m *Manager) ledger(ctx context.Context, level int) map[string]struct{} {
	if l, ok := m.ledgers[level]; ok {
		return l
	}
	l := map[string]struct{}{}
	m.ledgers[level] = l

	raw, ok, err := m.kv.Get(ctx, ledgerKey(level))
	if err != nil {
		m.logger.Warn("failed to read used words", "level", level, "err", err)
		return l
	}
	if !ok {
		return l
	}
	var words []string
	if err := json.Unmarshal([]byte(raw), &words); err != nil {
		m.logger.Warn("malformed used words, starting empty", "level", level, "err", err)
		return l
	}
	for _, w := range words {
		if w = wordlist.Normalize(w); w != "" {
			l[w] = struct{}{}
		}
	}
	return l
}

// saveLedger persists ledger for level. Callers commit it to m.ledgers
// only after it was written.
func (m *Manager) saveLedger(ctx context.Context, level int, ledger map[string]struct{}) error {
	words := make([]string, 0, len(ledger))
	for w := range ledger {
		words = append(words, w)
	}
	sort.Strings(words)
	data, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("failed to encode used words: %w", err)
	}
	if err := m.kv.Set(ctx, ledgerKey(level), string(data)); err != nil {
		return fmt.Errorf("failed to save used words: %w", err)
	}
	return nil
}

func (m *Manager) saveSession(ctx context.Context, s model.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.kv.Set(ctx, sessionKey, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func ledgerKey(level int) string {
	return usedWordsPrefix + strconv.Itoa(level)
}
