package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLettersOnly(t *testing.T) {
	if !LettersOnly("žiema") {
		t.Fatalf("expected žiema to pass letters filter")
	}
	for _, word := range []string{"", "co-op", "a1", "two words"} {
		if LettersOnly(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestLoadWordsNormalizesAndFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.txt")
	if err := os.WriteFile(path, []byte("  Saule \n\nco-op\nKATE\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	words, err := LoadWords(path, LettersOnly)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if len(words) != 2 || words[0] != "saule" || words[1] != "kate" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	if _, err := LoadWords(path, nil); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
