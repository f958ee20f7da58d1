package wordlist

import "unicode"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// LettersOnly keeps words made solely of letters, so typing targets never
// contain digits, punctuation or spaces.
func LettersOnly(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
