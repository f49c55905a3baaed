package commands

import (
	"strings"
	"testing"

	"github.com/uhppoted/briefing-sync/workbook"
)

func TestSnapshotToTSV(t *testing.T) {
	expected := `Question	Answer	Points
What is 2+2?	4	1.5
Is the sky blue?	true	
`

	var f strings.Builder
	s := workbook.NewSnapshot("Quiz", [][]any{
		[]any{"Question", "Answer", "Points"},
		[]any{"What is 2+2?", 4.0, 1.5},
		[]any{"Is the sky blue?", true},
	})

	if err := snapshotToTSV(&f, &s); err != nil {
		t.Fatalf("Unexpected error returned from snapshotToTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestSnapshotToTSVWithNulls(t *testing.T) {
	expected := "A\t\tC\n\t\t\nx\t\t\n"

	var f strings.Builder
	s := workbook.NewSnapshot("Sheet1", [][]any{
		[]any{"A", nil, "C"},
		[]any{nil},
		[]any{"x"},
	})

	if err := snapshotToTSV(&f, &s); err != nil {
		t.Fatalf("Unexpected error returned from snapshotToTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %q\n   got:      %q\n", expected, f.String())
	}
}

func TestSnapshotToTSVWithEmbeddedTabs(t *testing.T) {
	expected := "line 1 line 2\tx y\n"

	var f strings.Builder
	s := workbook.NewSnapshot("Sheet1", [][]any{
		[]any{"line 1\nline 2", "x\ty"},
	})

	if err := snapshotToTSV(&f, &s); err != nil {
		t.Fatalf("Unexpected error returned from snapshotToTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %q\n   got:      %q\n", expected, f.String())
	}
}

func TestSnapshotToTSVWithEmptySheet(t *testing.T) {
	var f strings.Builder

	s := workbook.NewSnapshot("Empty", [][]any{})

	if err := snapshotToTSV(&f, &s); err == nil {
		t.Fatalf("Expected error return for empty sheet, got %v", err)
	}
}
