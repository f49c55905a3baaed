package source

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"
)

type files struct {
	existing map[string][]string
	trashed  []string
	calls    []string
	broken   string
}

func (f *files) FindByName(ctx context.Context, name string) ([]string, error) {
	f.calls = append(f.calls, "find")
	return f.existing[name], nil
}

func (f *files) Trash(ctx context.Context, id string) error {
	f.calls = append(f.calls, "trash")
	if id == f.broken {
		return fmt.Errorf("permission denied")
	}

	f.trashed = append(f.trashed, id)
	return nil
}

func (f *files) Convert(ctx context.Context, source, name string) (string, error) {
	f.calls = append(f.calls, "convert")
	return "new-" + source, nil
}

func TestAcquire(t *testing.T) {
	f := files{
		existing: map[string][]string{
			"CPY_BRIEFING_SHEET": {"old-1", "old-2"},
			"other":              {"other-1"},
		},
	}

	id, err := Acquire(context.Background(), &f, "xlsx-1", "CPY_BRIEFING_SHEET", zaptest.NewLogger(t).Sugar())
	if err != nil {
		t.Fatalf("Unexpected error acquiring spreadsheet (%v)", err)
	}

	if id != "new-xlsx-1" {
		t.Errorf("Incorrect spreadsheet ID - expected:%v, got:%v", "new-xlsx-1", id)
	}

	if !reflect.DeepEqual(f.trashed, []string{"old-1", "old-2"}) {
		t.Errorf("Incorrect trashed files - expected:%v, got:%v", []string{"old-1", "old-2"}, f.trashed)
	}

	if !reflect.DeepEqual(f.calls, []string{"find", "trash", "trash", "convert"}) {
		t.Errorf("Incorrect call sequence - got:%v", f.calls)
	}
}

func TestAcquireWithNoExistingCopies(t *testing.T) {
	f := files{}

	if _, err := Acquire(context.Background(), &f, "xlsx-1", "CPY_BRIEFING_SHEET", zaptest.NewLogger(t).Sugar()); err != nil {
		t.Fatalf("Unexpected error acquiring spreadsheet (%v)", err)
	}

	if len(f.trashed) != 0 {
		t.Errorf("Expected no trashed files, got %v", f.trashed)
	}
}

func TestAcquireWithTrashError(t *testing.T) {
	f := files{
		existing: map[string][]string{
			"CPY_BRIEFING_SHEET": {"old-1"},
		},
		broken: "old-1",
	}

	if _, err := Acquire(context.Background(), &f, "xlsx-1", "CPY_BRIEFING_SHEET", zaptest.NewLogger(t).Sugar()); err == nil {
		t.Fatalf("Expected error when trashing fails, got %v", err)
	}

	for _, c := range f.calls {
		if c == "convert" {
			t.Errorf("Source should not be converted if trashing an existing copy fails")
		}
	}
}

func TestEscape(t *testing.T) {
	tests := map[string]string{
		"CPY_BRIEFING_SHEET": "CPY_BRIEFING_SHEET",
		"Bob's sheet":        `Bob\'s sheet`,
		`a\b`:                `a\\b`,
	}

	for v, expected := range tests {
		if s := escape(v); s != expected {
			t.Errorf("Incorrect escape for %v - expected:%v, got:%v", v, expected, s)
		}
	}
}
