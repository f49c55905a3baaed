package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/uhppoted/briefing-sync/workbook"
)

func snapshotToTSV(f io.Writer, s *workbook.Snapshot) error {
	if s == nil || len(s.Data) == 0 {
		return fmt.Errorf("Empty sheet")
	}

	// ... pad to a rectangular grid
	records := [][]string{}
	for _, row := range s.Data {
		record := make([]string, s.ColCount)
		for i, v := range row {
			if i < len(record) {
				record[i] = clean(format(v))
			}
		}

		records = append(records, record)
	}

	// ... write to file
	w := csv.NewWriter(f)
	w.Comma = '\t'

	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""

	case string:
		return x

	case bool:
		return strconv.FormatBool(x)

	case float64:
		if math.Trunc(x) == x && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)

	case int64:
		return strconv.FormatInt(x, 10)

	default:
		return fmt.Sprintf("%v", v)
	}
}

// clean replaces embedded tabs and line breaks, which would otherwise split a cell.
func clean(s string) string {
	return strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ").Replace(strings.TrimSpace(s))
}
