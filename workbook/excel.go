package workbook

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Excel reads a workbook from a local .xlsx file.
type Excel struct {
	file *excelize.File
}

type span struct {
	left   int
	right  int
	top    int
	bottom int
}

func OpenExcel(path string) (*Excel, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}

	return &Excel{file: f}, nil
}

func (x *Excel) Close() error {
	return x.file.Close()
}

func (x *Excel) Sheets(ctx context.Context) ([]string, error) {
	return x.file.GetSheetList(), nil
}

func (x *Excel) Values(ctx context.Context, sheet, area string) ([][]any, error) {
	s, err := parseSpan(area)
	if err != nil {
		return nil, err
	}

	rows, err := x.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	values := [][]any{}
	for r, row := range rows {
		if r+1 < s.top || (s.bottom > 0 && r+1 > s.bottom) {
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record := []any{}
		for c := s.left; c <= s.right && c <= len(row); c++ {
			cell, err := excelize.CoordinatesToCellName(c, r+1)
			if err != nil {
				return nil, err
			}

			record = append(record, x.value(sheet, cell, row[c-1]))
		}

		// ... drop trailing blank cells (matches the Sheets API)
		for len(record) > 0 && record[len(record)-1] == "" {
			record = record[:len(record)-1]
		}

		values = append(values, record)
	}

	return values, nil
}

func (x *Excel) value(sheet, cell, raw string) any {
	if raw == "" {
		return ""
	}

	typ, err := x.file.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "TRUE")

	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}

	return raw
}

// parseSpan accepts column spans ('A:Z') and bounded ranges ('A2:F40'). A missing
// bottom row means 'to the end of the sheet'.
func parseSpan(area string) (*span, error) {
	match := regexp.MustCompile(`^\s*([a-zA-Z]+)([0-9]*):([a-zA-Z]+)([0-9]*)\s*$`).FindStringSubmatch(area)
	if len(match) < 5 {
		return nil, fmt.Errorf("invalid range '%s' - expected something like 'A:Z' or 'A1:Z100'", area)
	}

	left, err := excelize.ColumnNameToNumber(match[1])
	if err != nil {
		return nil, err
	}

	right, err := excelize.ColumnNameToNumber(match[3])
	if err != nil {
		return nil, err
	}

	top := 1
	if match[2] != "" {
		top, _ = strconv.Atoi(match[2])
	}

	bottom := 0
	if match[4] != "" {
		bottom, _ = strconv.Atoi(match[4])
	}

	if right < left || (bottom > 0 && bottom < top) {
		return nil, fmt.Errorf("invalid range '%s'", area)
	}

	return &span{
		left:   left,
		right:  right,
		top:    top,
		bottom: bottom,
	}, nil
}
