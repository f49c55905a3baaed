package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/api/option"

	"github.com/uhppoted/briefing-sync/store"
	"github.com/uhppoted/briefing-sync/workbook"
)

var GetCmd = Get{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		debug:       false,
	},

	project:    DEFAULT_PROJECT,
	database:   store.DEFAULT_DATABASE,
	collection: store.DEFAULT_COLLECTION,
	document:   "",
	sheet:      "",
	file:       time.Now().Format("2006-01-02T150405.tsv"),
}

type Get struct {
	command
	project    string
	database   string
	collection string
	document   string
	sheet      string
	file       string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves a worksheet from a synced Firestore document and stores it to a local TSV file"
}

func (cmd *Get) Usage() string {
	return "--credentials <file> --document <ID> --sheet <name> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --document <ID> --sheet <name> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a worksheet from a synced Firestore document to a TSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    briefing-sync --debug get --credentials "OAuth2_Client_ID.json" \`)
	fmt.Println(`                              --document "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                              --sheet "Sheet1" \`)
	fmt.Println(`                              --file "example.tsv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.project, "project", cmd.project, "Firestore project ID")
	flagset.StringVar(&cmd.database, "database", cmd.database, "Firestore database ID")
	flagset.StringVar(&cmd.collection, "collection", cmd.collection, "Firestore collection of the synced documents")
	flagset.StringVar(&cmd.document, "document", cmd.document, "Firestore document ID i.e. the ID of the converted spreadsheet")
	flagset.StringVar(&cmd.sheet, "sheet", cmd.sheet, "Worksheet to retrieve. Optional if the document only contains one worksheet")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to '<yyyy-mm-ddTHHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(ctx context.Context, options *Options) error {
	cmd.debug = options.Debug

	// ... check parameters
	if err := cmd.validate(); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.document) == "" {
		return fmt.Errorf("--document is a required option")
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	if cmd.debug {
		debugf("Firestore - project:%s  database:%s  document:%s/%s", cmd.project, cmd.database, cmd.collection, cmd.document)
	}

	// ... authorise
	ts, err := tokenSource(ctx, cmd.credentials, cmd.tokensFile(), DATASTORE)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%w)", err)
	}

	reader, err := store.NewReader(ctx, cmd.project, cmd.database, cmd.collection, option.WithTokenSource(ts))
	if err != nil {
		return err
	}

	defer reader.Close()

	w, err := reader.Fetch(ctx, cmd.document)
	if err != nil {
		return err
	}

	sheet, err := cmd.pick(w)
	if err != nil {
		return err
	}

	// ... write to temporary file and rename
	tmp, err := os.CreateTemp(os.TempDir(), "briefing-sync")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := snapshotToTSV(tmp, sheet); err != nil {
		return fmt.Errorf("error creating TSV file (%w)", err)
	}

	tmp.Close()

	dir := filepath.Dir(cmd.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), cmd.file); err != nil {
		return err
	}

	infof("Retrieved sheet %q (%v rows) to file %s", sheet.Name, sheet.RowCount, cmd.file)

	return nil
}

func (cmd *Get) pick(w *workbook.Workbook) (*workbook.Snapshot, error) {
	if cmd.sheet == "" {
		if len(w.Sheets) == 1 {
			return &w.Sheets[0], nil
		}

		return nil, fmt.Errorf("document contains %v sheets (%s) - use --sheet to select one", len(w.Sheets), strings.Join(w.Names(), ", "))
	}

	if s, ok := w.Get(cmd.sheet); ok {
		return s, nil
	}

	return nil, fmt.Errorf("no sheet '%s' in document (have %s)", cmd.sheet, strings.Join(w.Names(), ", "))
}
