// Package settings owns the user's practice preferences and persists them.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/zodis/internal/model"
	"github.com/verte-zerg/zodis/internal/wordlist"
)

const (
	storageKey = "settings"

	// DefaultWordsPerSession is the session length used until the user picks one.
	DefaultWordsPerSession = 12
	// DefaultLevel is the tier used until the user picks one.
	DefaultLevel = 1
)

var (
	// ErrInvalidWordCount is returned for a non-positive session length.
	ErrInvalidWordCount = errors.New("words per session must be > 0")
	// ErrInvalidLevel is returned for a level outside the catalog tiers.
	ErrInvalidLevel = fmt.Errorf("level must be between %d and %d", wordlist.MinLevel, wordlist.MaxLevel)
	// ErrEmptyWord is returned when a blank word is added or toggled.
	ErrEmptyWord = errors.New("word must not be empty")
)

// KV is the string key-value persistence the provider writes through.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Provider holds the current settings. It is not safe for concurrent mutation.
type Provider struct {
	kv      KV
	catalog *wordlist.Catalog
	logger  *log.Logger
	current model.Settings
}

// Load reads persisted settings. Absent or unreadable state falls back to defaults.
func Load(ctx context.Context, kv KV, catalog *wordlist.Catalog, logger *log.Logger) *Provider {
	p := &Provider{kv: kv, catalog: catalog, logger: logger}
	p.current = p.defaults()

	raw, ok, err := kv.Get(ctx, storageKey)
	if err != nil {
		logger.Warn("failed to read settings, using defaults", "err", err)
		return p
	}
	if !ok {
		return p
	}
	var stored model.Settings
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.Warn("malformed settings, using defaults", "err", err)
		return p
	}
	if stored.WordsPerSession > 0 {
		p.current.WordsPerSession = stored.WordsPerSession
	} else {
		logger.Warn("ignoring stored words per session", "value", stored.WordsPerSession)
	}
	if wordlist.ValidLevel(stored.SelectedLevel) {
		p.current.SelectedLevel = stored.SelectedLevel
	} else {
		logger.Warn("ignoring stored level", "value", stored.SelectedLevel)
	}
	if stored.AvailableWords != nil {
		p.current.AvailableWords = normalizeWords(stored.AvailableWords)
	}
	return p
}

func (p *Provider) defaults() model.Settings {
	return model.Settings{
		WordsPerSession: DefaultWordsPerSession,
		AvailableWords:  p.catalog.All(),
		SelectedLevel:   DefaultLevel,
	}
}

// Settings returns a copy of the current settings.
func (p *Provider) Settings() model.Settings {
	out := p.current
	out.AvailableWords = make([]string, len(p.current.AvailableWords))
	copy(out.AvailableWords, p.current.AvailableWords)
	return out
}

// WordsPerSession returns the requested session length.
func (p *Provider) WordsPerSession() int {
	return p.current.WordsPerSession
}

// AvailableWords returns the user-enabled words.
func (p *Provider) AvailableWords() []string {
	return append([]string(nil), p.current.AvailableWords...)
}

// SelectedLevel returns the active tier.
func (p *Provider) SelectedLevel() int {
	return p.current.SelectedLevel
}

// IsAvailable reports whether word is enabled.
func (p *Provider) IsAvailable(word string) bool {
	word = wordlist.Normalize(word)
	for _, w := range p.current.AvailableWords {
		if w == word {
			return true
		}
	}
	return false
}

// SetWordsPerSession updates the session length.
func (p *Provider) SetWordsPerSession(ctx context.Context, count int) error {
	if count <= 0 {
		return ErrInvalidWordCount
	}
	next := p.Settings()
	next.WordsPerSession = count
	return p.save(ctx, next)
}

// SetSelectedLevel updates the active tier.
func (p *Provider) SetSelectedLevel(ctx context.Context, level int) error {
	if !wordlist.ValidLevel(level) {
		return ErrInvalidLevel
	}
	next := p.Settings()
	next.SelectedLevel = level
	return p.save(ctx, next)
}

// SetAvailableWords replaces the enabled word set.
func (p *Provider) SetAvailableWords(ctx context.Context, words []string) error {
	next := p.Settings()
	next.AvailableWords = normalizeWords(words)
	return p.save(ctx, next)
}

// AddAvailableWord enables word. It reports whether the set changed.
func (p *Provider) AddAvailableWord(ctx context.Context, word string) (bool, error) {
	word = wordlist.Normalize(word)
	if word == "" {
		return false, ErrEmptyWord
	}
	if p.IsAvailable(word) {
		return false, nil
	}
	next := p.Settings()
	next.AvailableWords = append(next.AvailableWords, word)
	return true, p.save(ctx, next)
}

// RemoveAvailableWord disables word. It reports whether the set changed.
func (p *Provider) RemoveAvailableWord(ctx context.Context, word string) (bool, error) {
	word = wordlist.Normalize(word)
	if !p.IsAvailable(word) {
		return false, nil
	}
	next := p.Settings()
	kept := next.AvailableWords[:0]
	for _, w := range next.AvailableWords {
		if w != word {
			kept = append(kept, w)
		}
	}
	next.AvailableWords = kept
	return true, p.save(ctx, next)
}

// ToggleWordAvailability flips word and returns whether it is now enabled.
func (p *Provider) ToggleWordAvailability(ctx context.Context, word string) (bool, error) {
	if p.IsAvailable(word) {
		_, err := p.RemoveAvailableWord(ctx, word)
		return false, err
	}
	_, err := p.AddAvailableWord(ctx, word)
	return err == nil, err
}

// ResetToDefaults restores and persists the default settings.
func (p *Provider) ResetToDefaults(ctx context.Context) error {
	return p.save(ctx, p.defaults())
}

func (p *Provider) save(ctx context.Context, next model.Settings) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := p.kv.Set(ctx, storageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	p.current = next
	return nil
}

func normalizeWords(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = wordlist.Normalize(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
