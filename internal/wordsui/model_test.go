package wordsui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/zodis/internal/settings"
	"github.com/verte-zerg/zodis/internal/store/storetest"
	"github.com/verte-zerg/zodis/internal/wordlist"
)

type fakeLedger map[string]bool

func (f fakeLedger) IsUsedIn(_ context.Context, _ int, word string) bool {
	return f[word]
}

func newTestModel(t *testing.T, available []string, used fakeLedger) (*Model, *settings.Provider) {
	t.Helper()
	ctx := context.Background()
	catalog := wordlist.NewCatalog(map[int][]string{1: {"mama", "sala"}, 2: {"namas"}})
	p := settings.Load(ctx, storetest.NewKV(), catalog, log.New(io.Discard))
	if err := p.SetAvailableWords(ctx, available); err != nil {
		t.Fatalf("set available: %v", err)
	}
	return NewModel(catalog, p, used, 1, log.New(io.Discard)), p
}

func TestRowsMergeCatalogAndEnabledWords(t *testing.T) {
	m, _ := newTestModel(t, []string{"mama", "lova", "automobilis"}, fakeLedger{"sala": true})
	if len(m.rows) != 3 {
		t.Fatalf("expected 3 rows, got %+v", m.rows)
	}
	want := []struct {
		word      string
		available bool
		used      bool
	}{
		{"lova", true, false},
		{"mama", true, false},
		{"sala", false, true},
	}
	for i, w := range want {
		r := m.rows[i]
		if r.Word != w.word || r.Available != w.available || r.Used != w.used || r.Level != 1 {
			t.Fatalf("row %d: got %+v want %+v", i, r, w)
		}
	}
}

func TestToggleSelectedWord(t *testing.T) {
	m, p := newTestModel(t, []string{"mama"}, fakeLedger{})
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if p.IsAvailable("mama") {
		t.Fatalf("expected mama disabled after toggle")
	}
	if m.rows[0].Available {
		t.Fatalf("expected rows refreshed after toggle")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !p.IsAvailable("sala") {
		t.Fatalf("expected sala enabled after toggle")
	}
}

func TestLevelSwitchingStaysInRange(t *testing.T) {
	m, _ := newTestModel(t, nil, fakeLedger{})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.level != 1 {
		t.Fatalf("expected level to stay at 1, got %d", m.level)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.level != 2 || len(m.rows) != 1 || m.rows[0].Word != "namas" {
		t.Fatalf("unexpected level 2 state: level=%d rows=%+v", m.level, m.rows)
	}
}

func TestAddWord(t *testing.T) {
	m, p := newTestModel(t, nil, fakeLedger{})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if !m.adding {
		t.Fatalf("expected add mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Kava")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.adding {
		t.Fatalf("expected add mode to close")
	}
	if !p.IsAvailable("kava") {
		t.Fatalf("expected kava enabled")
	}
	found := false
	for _, r := range m.rows {
		if r.Word == "kava" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected kava listed at level 1")
	}
}
