// Package model defines shared data structures.
package model

import "time"

// Session is one bounded practice run.
type Session struct {
	Level        int      `json:"level"`
	Words        []string `json:"words"`
	CurrentIndex int      `json:"currentIndex"`
	Completed    []bool   `json:"completed"`
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := Session{Level: s.Level, CurrentIndex: s.CurrentIndex}
	if s.Words != nil {
		out.Words = append([]string(nil), s.Words...)
	}
	if s.Completed != nil {
		out.Completed = append([]bool(nil), s.Completed...)
	}
	return out
}

// Valid reports whether the session satisfies its structural invariants.
func (s Session) Valid() bool {
	if len(s.Completed) != len(s.Words) {
		return false
	}
	if len(s.Words) == 0 {
		return s.CurrentIndex == 0
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Words) {
		return false
	}
	seen := make(map[string]struct{}, len(s.Words))
	for _, w := range s.Words {
		if w == "" {
			return false
		}
		if _, ok := seen[w]; ok {
			return false
		}
		seen[w] = struct{}{}
	}
	return true
}

// Settings defines user practice preferences.
type Settings struct {
	WordsPerSession int      `json:"wordsPerSession"`
	AvailableWords  []string `json:"availableWords"`
	SelectedLevel   int      `json:"selectedLevel"`
}

// AudioEntry is a cached pronunciation for a word.
type AudioEntry struct {
	Word      string
	Audio     []byte
	CreatedAt time.Time
}

// AudioStats summarizes the audio cache contents.
type AudioStats struct {
	Entries    int
	TotalBytes int64
	Oldest     time.Time
	Newest     time.Time
}

// PracticeResult captures a finished practice session.
type PracticeResult struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Level      int
	Words      int
	Correct    int
	Incorrect  int
	DurationMs int64
}

// ResultAggregate summarizes a stored practice result for reporting.
type ResultAggregate struct {
	ID         int64
	EndedAt    time.Time
	Level      int
	Words      int
	Correct    int
	Incorrect  int
	DurationMs int64
}
