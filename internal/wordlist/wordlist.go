package wordlist

import (
	"bufio"
	"fmt"
	"os"
)

// LoadWords reads one word per line from the provided file path. Lines are
// normalized; blank lines and words rejected by keep are skipped.
func LoadWords(path string, keep FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := Normalize(scanner.Text())
		if line == "" {
			continue
		}
		if keep != nil && !keep(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
