// Package audiocache maps practice words to synthesized speech, fetching
// misses from the synthesis service and keeping every payload forever.
package audiocache

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/zodis/internal/model"
	"github.com/verte-zerg/zodis/internal/tts"
	"github.com/verte-zerg/zodis/internal/wordlist"
)

// Storage is the persistence port for audio payloads.
// InsertAudio must keep the existing entry when the word is already present.
type Storage interface {
	HasAudio(ctx context.Context, word string) (bool, error)
	GetAudio(ctx context.Context, word string) (model.AudioEntry, bool, error)
	InsertAudio(ctx context.Context, entry model.AudioEntry) (bool, error)
	AudioStats(ctx context.Context) (model.AudioStats, error)
}

// Cache serves audio from storage and synthesizes misses.
type Cache struct {
	storage Storage
	synth   tts.Synthesizer
	logger  *log.Logger
	now     func() time.Time
}

// New returns a Cache over storage using synth for misses.
func New(storage Storage, synth tts.Synthesizer, logger *log.Logger) *Cache {
	return &Cache{
		storage: storage,
		synth:   synth,
		logger:  logger,
		now:     time.Now,
	}
}

// HasAudio reports whether word is cached. Storage errors count as a miss.
func (c *Cache) HasAudio(ctx context.Context, word string) bool {
	key := wordlist.Normalize(word)
	if key == "" {
		return false
	}
	ok, err := c.storage.HasAudio(ctx, key)
	if err != nil {
		c.logger.Warn("audio lookup failed", "word", key, "err", err)
		return false
	}
	return ok
}

// GetAudio returns the cached payload for word.
func (c *Cache) GetAudio(ctx context.Context, word string) ([]byte, bool) {
	key := wordlist.Normalize(word)
	if key == "" {
		return nil, false
	}
	entry, ok, err := c.storage.GetAudio(ctx, key)
	if err != nil {
		c.logger.Warn("audio read failed", "word", key, "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return entry.Audio, true
}

// StoreAudio saves payload for word unless an entry already exists.
func (c *Cache) StoreAudio(ctx context.Context, word string, payload []byte) {
	key := wordlist.Normalize(word)
	if key == "" || len(payload) == 0 {
		return
	}
	inserted, err := c.storage.InsertAudio(ctx, model.AudioEntry{
		Word:      key,
		Audio:     payload,
		CreatedAt: c.now().UTC(),
	})
	if err != nil {
		c.logger.Warn("audio write failed", "word", key, "err", err)
		return
	}
	if !inserted {
		c.logger.Debug("audio already cached", "word", key)
	}
}

// FetchAudio returns the cached payload for word, synthesizing and storing it
// on a miss. Synthesis errors are returned without retry.
func (c *Cache) FetchAudio(ctx context.Context, word string) ([]byte, error) {
	key := wordlist.Normalize(word)
	if key == "" {
		return nil, fmt.Errorf("failed to fetch audio: empty word")
	}
	if payload, ok := c.GetAudio(ctx, key); ok {
		return payload, nil
	}
	payload, err := c.synth.Synthesize(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio for %q: %w", key, err)
	}
	c.StoreAudio(ctx, key, payload)
	return payload, nil
}

// PreFetchWordAudio synthesizes every uncached word concurrently and returns
// how many were fetched. Duplicates in words are requested once. Individual
// failures are logged and never abort the batch.
func (c *Cache) PreFetchWordAudio(ctx context.Context, words []string) int {
	missing := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		key := wordlist.Normalize(w)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if c.HasAudio(ctx, key) {
			continue
		}
		missing = append(missing, key)
	}
	if len(missing) == 0 {
		return 0
	}

	fetched := make([]bool, len(missing))
	var g errgroup.Group
	for i, word := range missing {
		g.Go(func() error {
			payload, err := c.synth.Synthesize(ctx, word)
			if err != nil {
				c.logger.Warn("prefetch failed", "word", word, "err", err)
				return nil
			}
			c.StoreAudio(ctx, word, payload)
			fetched[i] = true
			return nil
		})
	}
	_ = g.Wait()

	count := 0
	for _, ok := range fetched {
		if ok {
			count++
		}
	}
	c.logger.Debug("prefetch finished", "requested", len(missing), "fetched", count)
	return count
}

// Stats summarizes the stored audio.
func (c *Cache) Stats(ctx context.Context) (model.AudioStats, error) {
	stats, err := c.storage.AudioStats(ctx)
	if err != nil {
		return model.AudioStats{}, fmt.Errorf("failed to read audio stats: %w", err)
	}
	return stats, nil
}
