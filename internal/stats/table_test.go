package stats

import (
	"bytes"
	"testing"
)

func TestTextTableAlignsByCellWidth(t *testing.T) {
	tbl := newTextTable(column{title: "Word"}, column{title: "Letters", numeric: true}, column{title: "Used"})
	tbl.add("žuvis", "5", "yes")
	tbl.add("čia", "3", "no")

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Word  Letters Used" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "žuvis       5 yes" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "čia         3 no" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTableRaggedRows(t *testing.T) {
	tbl := newTextTable()
	tbl.add("a")
	tbl.add("bb", "c")
	lines := tbl.lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "a" || lines[1] != "bb c" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestTextTableWriteEndsWithBlankLine(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTextTable(column{title: "Level", numeric: true})
	tbl.add("12")
	if err := tbl.write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "Level\n   12\n\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestTextTableEmpty(t *testing.T) {
	if lines := newTextTable().lines(); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}
