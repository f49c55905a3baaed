package workbook

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// GoogleSheets reads a workbook from a Google Sheets spreadsheet. Values are fetched
// unformatted so that numbers and booleans keep their types, except for dates which
// are returned as the displayed text.
type GoogleSheets struct {
	service     *sheets.Service
	spreadsheet string
}

func NewGoogleSheets(service *sheets.Service, spreadsheet string) *GoogleSheets {
	return &GoogleSheets{
		service:     service,
		spreadsheet: spreadsheet,
	}
}

func (g *GoogleSheets) Sheets(ctx context.Context) ([]string, error) {
	spreadsheet, err := g.service.Spreadsheets.Get(g.spreadsheet).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	names := []string{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			names = append(names, sheet.Properties.Title)
		}
	}

	return names, nil
}

func (g *GoogleSheets) Values(ctx context.Context, sheet, area string) ([][]any, error) {
	response, err := g.service.Spreadsheets.Values.
		Get(g.spreadsheet, qualify(sheet, area)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	return response.Values, nil
}

// qualify prefixes an A1 range with a quoted sheet name e.g. 'Q&A'!A:Z
func qualify(sheet, area string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), area)
}
