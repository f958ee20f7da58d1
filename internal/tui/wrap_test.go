package tui

import (
	"strings"
	"testing"
)

func TestBuildWordRunesCursor(t *testing.T) {
	runes := buildWordRunes([]rune("ab"), []rune("a"))
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildWordRunesMistype(t *testing.T) {
	runes := buildWordRunes([]rune("ab"), []rune("ax"))
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for mistyped rune")
	}
}

func TestBuildWordRunesIgnoresCase(t *testing.T) {
	runes := buildWordRunes([]rune("ža"), []rune("Ž"))
	if runes[0].s != correctStyle.Render("ž") {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestBuildStripRunes(t *testing.T) {
	runes := buildStripRunes([]string{"ab", "cd", "ef"}, []bool{true, false, false}, 1)
	if len(runes) != 8 {
		t.Fatalf("expected 8 runes, got %d", len(runes))
	}
	if runes[0].s != doneStyle.Render("a") {
		t.Fatalf("expected done style for completed word")
	}
	if !runes[2].isSpace {
		t.Fatalf("expected separator space")
	}
	if runes[3].s != stripCurrentStyle.Render("c") {
		t.Fatalf("expected current style for current word")
	}
	if runes[6].s != pendingStyle.Render("e") {
		t.Fatalf("expected pending style for upcoming word")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := buildStripRunes([]string{"mama", "sala", "gera"}, nil, -1)
	out := wrapStyledRunes(runes, 9)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != renderStyledRunes(runes[:4]) {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[1] != renderStyledRunes(runes[5:]) {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestWrapStyledRunesHardBreak(t *testing.T) {
	runes := buildStripRunes([]string{"abcdef"}, nil, -1)
	out := wrapStyledRunes(runes, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != renderStyledRunes(runes[4:]) {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}
