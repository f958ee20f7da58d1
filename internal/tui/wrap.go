package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func newStyledRune(r rune, style lipgloss.Style) styledRune {
	return styledRune{
		s:       style.Render(string(r)),
		width:   runewidth.RuneWidth(r),
		isSpace: r == ' ',
	}
}

// buildWordRunes styles the word being typed: typed runes by correctness,
// the rest pending, with the cursor underlined.
func buildWordRunes(target, input []rune) []styledRune {
	out := make([]styledRune, 0, len(target))
	for i, r := range target {
		style := currentWordStyle
		if i < len(input) {
			if runesEqual(input[i], r) {
				style = correctStyle
			} else {
				style = incorrectStyle
			}
		}
		if i == len(input) {
			style = style.Underline(true)
		}
		out = append(out, newStyledRune(r, style))
	}
	return out
}

// buildStripRunes styles the whole session: completed words, the current
// word and the words still to come, separated by spaces.
func buildStripRunes(words []string, completed []bool, current int) []styledRune {
	out := []styledRune{}
	for i, word := range words {
		if i > 0 {
			out = append(out, newStyledRune(' ', pendingStyle))
		}
		style := pendingStyle
		switch {
		case i == current:
			style = stripCurrentStyle
		case i < len(completed) && completed[i]:
			style = doneStyle
		}
		for _, r := range word {
			out = append(out, newStyledRune(r, style))
		}
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
			} else {
				out.WriteString(renderStyledRunes(line))
				line = line[:0]
			}
			out.WriteRune('\n')
			lineWidth, lastSpaceIdx = measureLine(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

// measureLine returns the display width of line and the index of its last space.
func measureLine(line []styledRune) (int, int) {
	width := 0
	lastSpace := -1
	for i, item := range line {
		width += item.width
		if item.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
