// Package stats contains practice history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/zodis/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM, CPM, and accuracy for a session.
func SessionMetrics(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	if durationMs <= 0 {
		return 0, 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(correct) / 5.0) / minutes
	cpm = float64(correct) / minutes
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints overall and per-level averages for practice results.
func RenderSummary(w io.Writer, results []model.ResultAggregate) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No practice sessions found.")
		return err
	}
	var totalWPM, totalAcc, bestWPM float64
	words := 0
	for _, r := range results {
		wpm, _, acc := SessionMetrics(r.Correct, r.Incorrect, r.DurationMs)
		totalWPM += wpm
		totalAcc += acc
		bestWPM = math.Max(bestWPM, wpm)
		words += r.Words
	}
	count := float64(len(results))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(results)),
		fmt.Sprintf("Words typed: %d", words),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return renderLevelTable(w, results)
}

func renderLevelTable(w io.Writer, results []model.ResultAggregate) error {
	type levelRow struct {
		sessions int
		words    int
		wpm      float64
		acc      float64
	}
	byLevel := map[int]*levelRow{}
	for _, r := range results {
		row, ok := byLevel[r.Level]
		if !ok {
			row = &levelRow{}
			byLevel[r.Level] = row
		}
		wpm, _, acc := SessionMetrics(r.Correct, r.Incorrect, r.DurationMs)
		row.sessions++
		row.words += r.Words
		row.wpm += wpm
		row.acc += acc
	}
	levels := make([]int, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	tbl := newTextTable(
		column{title: "Level"},
		column{title: "Sessions", numeric: true},
		column{title: "Words", numeric: true},
		column{title: "Avg WPM", numeric: true},
		column{title: "Avg Accuracy", numeric: true},
	)
	for _, level := range levels {
		row := byLevel[level]
		n := float64(row.sessions)
		tbl.add(
			fmt.Sprintf("%d", level),
			fmt.Sprintf("%d", row.sessions),
			fmt.Sprintf("%d", row.words),
			fmt.Sprintf("%.2f", row.wpm/n),
			fmt.Sprintf("%.2f%%", row.acc/n*100),
		)
	}
	return tbl.write(w)
}

// RenderCurves prints WPM and accuracy sparklines, smoothed over window
// sessions and trimmed to the last width points when width is positive.
func RenderCurves(w io.Writer, results []model.ResultAggregate, window, width int) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		wpm, _, acc := SessionMetrics(r.Correct, r.Incorrect, r.DurationMs)
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	const labelWidth = len("Accuracy ")
	if width > labelWidth {
		limit := width - labelWidth
		if len(wpms) > limit {
			wpms = wpms[len(wpms)-limit:]
			accs = accs[len(accs)-limit:]
		}
	}
	lines := []string{
		"Learning Curves",
		"WPM      " + Sparkline(wpms),
		"Accuracy " + Sparkline(accs),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WordRow is one line of the word catalog listing.
type WordRow struct {
	Word      string
	Level     int
	Available bool
	Used      bool
}

// RenderWordTable prints catalog words with their availability and ledger state.
func RenderWordTable(w io.Writer, rows []WordRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No words found.")
		return err
	}
	tbl := newTextTable(
		column{title: "Word"},
		column{title: "Letters", numeric: true},
		column{title: "Level", numeric: true},
		column{title: "Available"},
		column{title: "Used"},
	)
	for _, r := range rows {
		tbl.add(
			r.Word,
			fmt.Sprintf("%d", len([]rune(r.Word))),
			fmt.Sprintf("%d", r.Level),
			yesNo(r.Available),
			yesNo(r.Used),
		)
	}
	return tbl.write(w)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
