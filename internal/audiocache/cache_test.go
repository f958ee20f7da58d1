package audiocache

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/zodis/internal/store/storetest"
	"github.com/verte-zerg/zodis/internal/tts/mock"
)

func newTestCache(t *testing.T) (*Cache, *storetest.AudioStore, *mock.Synthesizer) {
	t.Helper()
	storage := storetest.NewAudioStore()
	synth := mock.New()
	c := New(storage, synth, log.New(io.Discard))
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c, storage, synth
}

func TestStoreAudioFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)
	c.StoreAudio(ctx, "mama", []byte("p1"))
	c.StoreAudio(ctx, "MAMA", []byte("p2"))
	got, ok := c.GetAudio(ctx, "Mama")
	if !ok || string(got) != "p1" {
		t.Fatalf("expected first payload, got %q ok=%v", got, ok)
	}
}

func TestHasAudioIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)
	if c.HasAudio(ctx, "sala") {
		t.Fatalf("expected miss on empty cache")
	}
	c.StoreAudio(ctx, "Sala", []byte("x"))
	if !c.HasAudio(ctx, "SALA") {
		t.Fatalf("expected hit after store")
	}
}

func TestFetchAudioMissThenHit(t *testing.T) {
	ctx := context.Background()
	c, storage, synth := newTestCache(t)
	synth.SetAudio("namas", []byte("namas-mp3"))

	got, err := c.FetchAudio(ctx, "Namas")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(got) != "namas-mp3" {
		t.Fatalf("unexpected payload %q", got)
	}
	if storage.Len() != 1 {
		t.Fatalf("expected payload to be stored")
	}

	if _, err := c.FetchAudio(ctx, "namas"); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if synth.CallCount() != 1 {
		t.Fatalf("expected a single synthesis call, got %d", synth.CallCount())
	}
}

func TestFetchAudioPropagatesSynthesisError(t *testing.T) {
	ctx := context.Background()
	c, storage, synth := newTestCache(t)
	boom := errors.New("service down")
	synth.FailOn("gera", boom)

	if _, err := c.FetchAudio(ctx, "gera"); !errors.Is(err, boom) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
	if storage.Len() != 0 {
		t.Fatalf("failed fetch must not store anything")
	}
}

func TestFetchAudioEmptyWord(t *testing.T) {
	c, _, synth := newTestCache(t)
	if _, err := c.FetchAudio(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty word")
	}
	if synth.CallCount() != 0 {
		t.Fatalf("empty word must not reach the synthesizer")
	}
}

func TestStorageErrorIsAMiss(t *testing.T) {
	ctx := context.Background()
	c, storage, _ := newTestCache(t)
	c.StoreAudio(ctx, "mama", []byte("x"))
	storage.Err = errors.New("locked")

	if c.HasAudio(ctx, "mama") {
		t.Fatalf("expected miss on storage error")
	}
	if _, ok := c.GetAudio(ctx, "mama"); ok {
		t.Fatalf("expected miss on storage error")
	}
	got, err := c.FetchAudio(ctx, "mama")
	if err != nil {
		t.Fatalf("fetch should still synthesize: %v", err)
	}
	if string(got) != "audio:mama" {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestPreFetchDeduplicates(t *testing.T) {
	ctx := context.Background()
	c, storage, synth := newTestCache(t)

	n := c.PreFetchWordAudio(ctx, []string{"a", "b", "A"})
	if n != 2 {
		t.Fatalf("expected 2 fetched, got %d", n)
	}
	calls := synth.Calls()
	sort.Strings(calls)
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("unexpected calls: %v", calls)
	}
	if storage.Len() != 2 {
		t.Fatalf("expected both words stored, got %d", storage.Len())
	}
}

func TestPreFetchSkipsCachedWords(t *testing.T) {
	ctx := context.Background()
	c, _, synth := newTestCache(t)
	c.StoreAudio(ctx, "mama", []byte("x"))

	n := c.PreFetchWordAudio(ctx, []string{"mama", "sala"})
	if n != 1 {
		t.Fatalf("expected 1 fetched, got %d", n)
	}
	calls := synth.Calls()
	if len(calls) != 1 || calls[0] != "sala" {
		t.Fatalf("unexpected calls: %v", calls)
	}
}

func TestPreFetchSwallowsFailures(t *testing.T) {
	ctx := context.Background()
	c, _, synth := newTestCache(t)
	synth.FailOn("b", errors.New("nope"))
	synth.SetDelay(5 * time.Millisecond)

	n := c.PreFetchWordAudio(ctx, []string{"a", "b", "c"})
	if n != 2 {
		t.Fatalf("expected 2 fetched, got %d", n)
	}
	if !c.HasAudio(ctx, "a") || !c.HasAudio(ctx, "c") {
		t.Fatalf("successful words should be cached")
	}
	if c.HasAudio(ctx, "b") {
		t.Fatalf("failed word must not be cached")
	}
}

func TestPreFetchEmptyInput(t *testing.T) {
	c, _, synth := newTestCache(t)
	if n := c.PreFetchWordAudio(context.Background(), nil); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
	if synth.CallCount() != 0 {
		t.Fatalf("expected no calls")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	c, storage, _ := newTestCache(t)
	c.StoreAudio(ctx, "mama", []byte("abc"))
	c.StoreAudio(ctx, "sala", []byte("de"))

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Entries != 2 || stats.TotalBytes != 5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	storage.Err = errors.New("locked")
	if _, err := c.Stats(ctx); err == nil {
		t.Fatalf("expected error")
	}
}
