package workbook

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"go.uber.org/zap"
)

// DefaultRange is the oversized column span read from every sheet.
const DefaultRange = "A:Z"

// Reader is implemented by the sources a workbook can be extracted from.
type Reader interface {
	Sheets(ctx context.Context) ([]string, error)
	Values(ctx context.Context, sheet, area string) ([][]any, error)
}

type Workbook struct {
	Sheets []Snapshot
}

// Snapshot is the trimmed contents of a single sheet. Rows are not padded, so
// ColCount is the length of the longest row.
type Snapshot struct {
	Name     string
	Data     [][]any
	RowCount int
	ColCount int
}

// Extract reads every sheet in workbook order, discarding sheets that are empty once
// trailing blank rows have been trimmed.
func Extract(ctx context.Context, r Reader, area string, log *zap.SugaredLogger) (*Workbook, error) {
	names, err := r.Sheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to list sheets (%w)", err)
	}

	workbook := Workbook{
		Sheets: []Snapshot{},
	}

	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("duplicate sheet name '%s'", name)
		}

		seen[name] = true

		rows, err := r.Values(ctx, name, area)
		if err != nil {
			return nil, fmt.Errorf("unable to read sheet '%s' (%w)", name, err)
		}

		snapshot := NewSnapshot(name, rows)
		if snapshot.RowCount == 0 {
			log.Infof("Skipping sheet with only empty rows: %q", name)
			continue
		}

		log.Infof("Sheet %q: %v rows, %v columns", name, snapshot.RowCount, snapshot.ColCount)

		workbook.Sheets = append(workbook.Sheets, snapshot)
	}

	return &workbook, nil
}

func NewSnapshot(name string, rows [][]any) Snapshot {
	data := Trim(rows)
	columns := 0
	for _, row := range data {
		if len(row) > columns {
			columns = len(row)
		}
	}

	return Snapshot{
		Name:     name,
		Data:     data,
		RowCount: len(data),
		ColCount: columns,
	}
}

func (w *Workbook) Names() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}

	return names
}

func (w *Workbook) Get(name string) (*Snapshot, bool) {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i], true
		}
	}

	return nil, false
}

// Trim removes trailing rows in which every cell is blank. Leading and interior
// blank rows are kept.
func Trim(rows [][]any) [][]any {
	n := len(rows)
	for n > 0 && IsEmptyRow(rows[n-1]) {
		n--
	}

	return rows[:n]
}

func IsEmptyRow(row []any) bool {
	for _, cell := range row {
		if !IsEmpty(cell) {
			return false
		}
	}

	return true
}

// IsEmpty reports whether a cell value is 'falsy' i.e. nil, an empty string, false,
// zero or NaN.
func IsEmpty(cell any) bool {
	if cell == nil {
		return true
	}

	switch v := cell.(type) {
	case string:
		return v == ""

	case bool:
		return !v

	case float64:
		return v == 0 || math.IsNaN(v)

	case float32:
		return v == 0 || math.IsNaN(float64(v))
	}

	rv := reflect.ValueOf(cell)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0

	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}

	return false
}
