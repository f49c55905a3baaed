package commands

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/uhppoted/briefing-sync/workbook"
)

type stub struct {
	sheets []string
	values map[string][][]any
}

func (s stub) Sheets(ctx context.Context) ([]string, error) {
	return s.sheets, nil
}

func (s stub) Values(ctx context.Context, sheet, area string) ([][]any, error) {
	if v, ok := s.values[sheet]; ok {
		return v, nil
	}

	return nil, fmt.Errorf("no such sheet '%s'", sheet)
}

var briefing = stub{
	sheets: []string{"Questions", "Notes", "Blank"},
	values: map[string][][]any{
		"Questions": {
			{"Question", "Answer", "Points"},
			{"What is 2+2?", 4.0, 1.5},
			{"Is the sky blue?", true},
			{"", nil, 0.0},
		},
		"Notes": {
			{"Read the briefing before the session"},
		},
		"Blank": {
			{"", nil},
		},
	},
}

func TestTranscode(t *testing.T) {
	r := newRun("1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms")

	if err := r.transcode(context.Background(), briefing, workbook.DefaultRange); err != nil {
		t.Fatalf("Unexpected error transcoding workbook (%v)", err)
	}

	if len(r.document.Fields) != 2 {
		t.Fatalf("Incorrect number of fields - expected:%v, got:%v", 2, len(r.document.Fields))
	}

	questions := r.document.Fields["Questions"].MapValue
	if questions == nil {
		t.Fatalf("Expected 'Questions' mapValue, got %+v", r.document.Fields["Questions"])
	}

	if rows := questions.Fields["rowCount"].IntegerValue; rows != 3 {
		t.Errorf("Incorrect 'Questions' rowCount - expected:%v, got:%v", 3, rows)
	}

	if cols := questions.Fields["colCount"].IntegerValue; cols != 3 {
		t.Errorf("Incorrect 'Questions' colCount - expected:%v, got:%v", 3, cols)
	}

	if _, ok := r.document.Fields["Blank"]; ok {
		t.Errorf("Expected empty sheet to be omitted")
	}
}

func TestTranscodeWithReadError(t *testing.T) {
	r := newRun("1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms")
	reader := stub{
		sheets: []string{"Questions", "Missing"},
		values: briefing.values,
	}

	if err := r.transcode(context.Background(), reader, workbook.DefaultRange); err == nil {
		t.Fatalf("Expected error transcoding workbook with unreadable sheet")
	}

	if r.document != nil {
		t.Errorf("Expected no document after failed transcode")
	}
}

func TestCheckReport(t *testing.T) {
	var out strings.Builder

	r := newRun("1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms")
	if err := r.transcode(context.Background(), briefing, workbook.DefaultRange); err != nil {
		t.Fatalf("Unexpected error transcoding workbook (%v)", err)
	}

	cmd := Check{out: &out}
	if err := cmd.report(r); err != nil {
		t.Fatalf("Unexpected error reporting check (%v)", err)
	}

	expected := []string{
		"Found 2 sheets",
		`  Sheet "Questions": 3 rows, 3 cols`,
		`  Sheet "Notes": 1 rows, 1 cols`,
		"Data structure is valid for Firestore",
		"Document size: ",
		`"hasData": true`,
		`"rowCount": 3`,
	}

	for _, s := range expected {
		if !strings.Contains(out.String(), s) {
			t.Errorf("Missing %q in report\n%s", s, out.String())
		}
	}
}

func TestUpsertWithoutDocument(t *testing.T) {
	r := newRun("1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms")

	if _, err := r.upsert(context.Background(), nil); err == nil {
		t.Errorf("Expected error upserting run without a document")
	}
}

func TestPreview(t *testing.T) {
	r := newRun("1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms")
	if err := r.transcode(context.Background(), briefing, workbook.DefaultRange); err != nil {
		t.Fatalf("Unexpected error transcoding workbook (%v)", err)
	}

	if p := preview(r.document, 32); len(p) != 35 || !strings.HasSuffix(p, "...") {
		t.Errorf("Incorrect preview - expected 32 characters and '...', got %q", p)
	}
}
