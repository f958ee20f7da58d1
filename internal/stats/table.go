package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one table column. Numeric columns align right.
type column struct {
	title   string
	numeric bool
}

// textTable lays out rows in columns sized by terminal cell width, so
// Lithuanian letters such as "ž" count as one cell.
type textTable struct {
	columns []column
	rows    [][]string
}

func newTextTable(columns ...column) *textTable {
	return &textTable{columns: columns}
}

func (t *textTable) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *textTable) widths() []int {
	n := len(t.columns)
	for _, row := range t.rows {
		n = max(n, len(row))
	}
	widths := make([]int, n)
	for i, c := range t.columns {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

// lines renders the header (when columns have titles) and rows with a
// single space between columns and no trailing padding.
func (t *textTable) lines() []string {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.rows)+1)
	if len(t.columns) > 0 {
		titles := make([]string, len(t.columns))
		for i, c := range t.columns {
			titles[i] = c.title
		}
		out = append(out, t.line(titles, widths))
	}
	for _, row := range t.rows {
		out = append(out, t.line(row, widths))
	}
	return out
}

func (t *textTable) line(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i < len(t.columns) && t.columns[i].numeric {
			parts[i] = runewidth.FillLeft(cell, width)
		} else {
			parts[i] = runewidth.FillRight(cell, width)
		}
	}
	return strings.TrimRight(strings.Join(parts, " "), " ")
}

// write prints the table followed by a blank line.
func (t *textTable) write(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
