// Package wordlist provides the tiered practice word catalog.
package wordlist

import (
	"strings"
	"unicode/utf8"
)

// MinLevel and MaxLevel bound the difficulty tiers.
const (
	MinLevel = 1
	MaxLevel = 4
)

// LengthRange is the inclusive rune length window of a tier.
type LengthRange struct {
	Min int
	Max int
}

// Contains reports whether n falls inside the range.
func (r LengthRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

var levelRanges = map[int]LengthRange{
	1: {Min: 2, Max: 4},
	2: {Min: 4, Max: 7},
	3: {Min: 5, Max: 8},
	4: {Min: 7, Max: 11},
}

// Catalog holds the static per-tier word lists. Words are stored lowercased.
type Catalog struct {
	levels map[int][]string
	index  map[int]map[string]struct{}
}

// NewCatalog builds a catalog from per-level word lists.
func NewCatalog(levels map[int][]string) *Catalog {
	c := &Catalog{
		levels: make(map[int][]string, len(levels)),
		index:  make(map[int]map[string]struct{}, len(levels)),
	}
	for level, words := range levels {
		for _, w := range words {
			c.add(level, w)
		}
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return NewCatalog(map[int][]string{
		1: level1Words,
		2: level2Words,
		3: level3Words,
		4: level4Words,
	})
}

func (c *Catalog) add(level int, word string) {
	word = Normalize(word)
	if word == "" {
		return
	}
	idx, ok := c.index[level]
	if !ok {
		idx = map[string]struct{}{}
		c.index[level] = idx
	}
	if _, ok := idx[word]; ok {
		return
	}
	idx[word] = struct{}{}
	c.levels[level] = append(c.levels[level], word)
}

// Merge adds extra words to every tier whose length range contains them.
// It returns the number of tier placements made.
func (c *Catalog) Merge(words []string) int {
	added := 0
	for _, w := range words {
		w = Normalize(w)
		n := utf8.RuneCountInString(w)
		for level := MinLevel; level <= MaxLevel; level++ {
			if !levelRanges[level].Contains(n) || c.Contains(level, w) {
				continue
			}
			c.add(level, w)
			added++
		}
	}
	return added
}

// ValidLevel reports whether level names a tier.
func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

// Range returns the length range of a tier.
func Range(level int) (LengthRange, bool) {
	r, ok := levelRanges[level]
	return r, ok
}

// Level returns a copy of the ordered word list for a tier.
func (c *Catalog) Level(level int) []string {
	return append([]string(nil), c.levels[level]...)
}

// Contains reports whether word belongs to the tier's list.
func (c *Catalog) Contains(level int, word string) bool {
	_, ok := c.index[level][Normalize(word)]
	return ok
}

// All returns every catalog word once, ordered by tier then list position.
func (c *Catalog) All() []string {
	seen := map[string]struct{}{}
	var out []string
	for level := MinLevel; level <= MaxLevel; level++ {
		for _, w := range c.levels[level] {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}

// Eligible reports whether word can be practiced at level: it is part of the
// tier's list or its length fits the tier's range.
func (c *Catalog) Eligible(level int, word string) bool {
	word = Normalize(word)
	if word == "" {
		return false
	}
	if c.Contains(level, word) {
		return true
	}
	r, ok := levelRanges[level]
	if !ok {
		return false
	}
	return r.Contains(utf8.RuneCountInString(word))
}

// Filter returns the eligible words for level, normalized, deduplicated and in input order.
func (c *Catalog) Filter(level int, words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = Normalize(w)
		if _, ok := seen[w]; ok {
			continue
		}
		if !c.Eligible(level, w) {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Normalize case-folds and trims a word.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
