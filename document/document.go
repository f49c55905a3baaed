package document

import (
	"fmt"
	"math"
	"reflect"

	firestore "google.golang.org/api/firestore/v1"

	"github.com/uhppoted/briefing-sync/workbook"
)

const NULL_VALUE = "NULL_VALUE"

// New transcodes an entire workbook into a single document with one map field
// per sheet. Only Fields is set, the remaining attributes are populated by the
// server.
func New(w *workbook.Workbook) *firestore.Document {
	fields := map[string]firestore.Value{}
	for _, s := range w.Sheets {
		fields[s.Name] = *Sheet(s)
	}

	return &firestore.Document{
		Fields:          fields,
		ForceSendFields: []string{"Fields"},
	}
}

// Sheet encodes a snapshot as a map with 'data', 'rowCount' and 'colCount' fields.
func Sheet(s workbook.Snapshot) *firestore.Value {
	rows := make([]*firestore.Value, 0, len(s.Data))
	for _, row := range s.Data {
		rows = append(rows, Row(row))
	}

	return &firestore.Value{
		MapValue: &firestore.MapValue{
			Fields: map[string]firestore.Value{
				"data":     *array(rows),
				"rowCount": *integer(int64(s.RowCount)),
				"colCount": *integer(int64(s.ColCount)),
			},
			ForceSendFields: []string{"Fields"},
		},
	}
}

func Row(row []any) *firestore.Value {
	cells := make([]*firestore.Value, 0, len(row))
	for _, cell := range row {
		cells = append(cells, Cell(cell))
	}

	return array(cells)
}

// Cell maps a spreadsheet cell to a Firestore value. Numbers are always encoded
// as doubles, blanks as nulls and anything unrecognised as its string form.
func Cell(cell any) *firestore.Value {
	switch v := cell.(type) {
	case nil:
		return null()

	case *firestore.Value:
		if v == nil {
			return null()
		}
		return v

	case string:
		if v == "" {
			return null()
		}
		return &firestore.Value{StringValue: v}

	case bool:
		return boolean(v)

	case float64:
		return double(v)
	}

	rv := reflect.ValueOf(cell)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return double(float64(rv.Int()))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return double(float64(rv.Uint()))

	case reflect.Float32, reflect.Float64:
		return double(rv.Float())

	case reflect.Bool:
		return boolean(rv.Bool())

	case reflect.String:
		if rv.Len() == 0 {
			return null()
		}

	case reflect.Pointer:
		if rv.IsNil() {
			return null()
		}
		return Cell(rv.Elem().Interface())
	}

	return &firestore.Value{StringValue: fmt.Sprint(cell)}
}

// Dimensions re-derives the row and column counts of an encoded sheet from its
// 'data' field.
func Dimensions(sheet *firestore.Value) (int, int, error) {
	if sheet == nil || sheet.MapValue == nil {
		return 0, 0, fmt.Errorf("expected mapValue")
	}

	data, ok := sheet.MapValue.Fields["data"]
	if !ok || data.ArrayValue == nil {
		return 0, 0, fmt.Errorf("missing or invalid 'data' field")
	}

	columns := 0
	for i, row := range data.ArrayValue.Values {
		if row == nil || row.ArrayValue == nil {
			return 0, 0, fmt.Errorf("row %v is not an arrayValue", i)
		}

		if n := len(row.ArrayValue.Values); n > columns {
			columns = n
		}
	}

	return len(data.ArrayValue.Values), columns, nil
}

func null() *firestore.Value {
	return &firestore.Value{NullValue: NULL_VALUE}
}

func boolean(b bool) *firestore.Value {
	return &firestore.Value{BooleanValue: b, ForceSendFields: []string{"BooleanValue"}}
}

// double encodes non-finite values as null since the REST encoder cannot
// represent NaN or Infinity.
func double(f float64) *firestore.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return null()
	}

	return &firestore.Value{DoubleValue: f, ForceSendFields: []string{"DoubleValue"}}
}

func integer(i int64) *firestore.Value {
	return &firestore.Value{IntegerValue: i, ForceSendFields: []string{"IntegerValue"}}
}

func array(values []*firestore.Value) *firestore.Value {
	if values == nil {
		values = []*firestore.Value{}
	}

	return &firestore.Value{
		ArrayValue: &firestore.ArrayValue{
			Values:          values,
			ForceSendFields: []string{"Values"},
		},
	}
}
