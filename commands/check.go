package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/briefing-sync/document"
	"github.com/uhppoted/briefing-sync/workbook"
)

var CheckCmd = Check{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		debug:       false,
	},

	spreadsheet: "",
	file:        "",
	area:        workbook.DefaultRange,
	out:         os.Stdout,
}

// Check builds and validates the Firestore document for a spreadsheet without sending it.
// Unlike 'sync' it reads an existing spreadsheet directly and makes no changes to Google Drive.
type Check struct {
	command
	spreadsheet string
	file        string
	area        string
	out         io.Writer
}

func (cmd *Check) Name() string {
	return "check"
}

func (cmd *Check) Description() string {
	return "Validates the Firestore document for a spreadsheet without uploading it"
}

func (cmd *Check) Usage() string {
	return "--spreadsheet <ID|URL> | --file <file>"
}

func (cmd *Check) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] check [options] --spreadsheet <ID|URL> | --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Extracts and transcodes a Google Sheets spreadsheet or local workbook, validates the resulting Firestore")
	fmt.Println("  document and prints a summary. Nothing is uploaded.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    briefing-sync check --file "briefing.xlsx"`)
	fmt.Println(`    briefing-sync check --credentials "OAuth2_Client_ID.json" --spreadsheet "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"`)
	fmt.Println()
}

func (cmd *Check) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("check")

	flagset.StringVar(&cmd.spreadsheet, "spreadsheet", cmd.spreadsheet, "Google Sheets spreadsheet ID or URL")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Local .xlsx workbook")
	flagset.StringVar(&cmd.area, "range", cmd.area, "Range read from each worksheet")

	return flagset
}

func (cmd *Check) Execute(ctx context.Context, options *Options) error {
	cmd.debug = options.Debug

	if strings.TrimSpace(cmd.spreadsheet) == "" && strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("one of --spreadsheet or --file is required")
	}

	var reader workbook.Reader
	var id string

	if cmd.file != "" {
		x, err := workbook.OpenExcel(cmd.file)
		if err != nil {
			return fmt.Errorf("unable to open workbook %s (%w)", cmd.file, err)
		}

		defer x.Close()

		reader = x
		id = uuid.NewString()
	} else {
		if err := cmd.validate(); err != nil {
			return err
		}

		spreadsheet, err := fileID(cmd.spreadsheet)
		if err != nil {
			return err
		}

		client, err := authorize(ctx, cmd.credentials, cmd.tokensFile(), SHEETS)
		if err != nil {
			return fmt.Errorf("authentication/authorization error (%w)", err)
		}

		gsheets, err := sheets.NewService(ctx, option.WithHTTPClient(client))
		if err != nil {
			return fmt.Errorf("unable to create new Sheets client (%w)", err)
		}

		reader = workbook.NewGoogleSheets(gsheets, spreadsheet)
		id = spreadsheet
	}

	r := newRun(id)
	if err := r.transcode(ctx, reader, cmd.area); err != nil {
		return err
	}

	return cmd.report(r)
}

func (cmd *Check) report(r *run) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}

	b, err := json.Marshal(r.document)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Found %v sheets\n", len(r.workbook.Sheets))
	for _, s := range r.workbook.Sheets {
		fmt.Fprintf(out, "  Sheet %q: %v rows, %v cols\n", s.Name, s.RowCount, s.ColCount)
	}

	fmt.Fprintln(out, "Data structure is valid for Firestore")
	fmt.Fprintf(out, "Document size: %v characters\n", len(b))

	if len(r.workbook.Sheets) > 0 {
		first := r.workbook.Sheets[0].Name
		sheet := r.document.Fields[first]
		rows, cols, err := document.Dimensions(&sheet)
		if err != nil {
			return err
		}

		sample := map[string]any{
			first: map[string]any{
				"structure": "mapValue with fields: data (arrayValue), rowCount, colCount",
				"hasData":   rows > 0,
				"rowCount":  rows,
				"colCount":  cols,
			},
		}

		if s, err := json.MarshalIndent(sample, "", "  "); err == nil {
			fmt.Fprintf(out, "Sample field structure:\n%s\n", string(s))
		}
	}

	return nil
}
