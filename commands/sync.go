package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/briefing-sync/source"
	"github.com/uhppoted/briefing-sync/store"
	"github.com/uhppoted/briefing-sync/workbook"
)

var SyncCmd = Sync{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		debug:       false,
	},

	source: "",
	file:   "",
	name:   DEFAULT_COPY,
	folder: "",
	area:   workbook.DefaultRange,

	project:    DEFAULT_PROJECT,
	database:   store.DEFAULT_DATABASE,
	collection: store.DEFAULT_COLLECTION,
	endpoint:   store.DEFAULT_ENDPOINT,
}

type Sync struct {
	command
	source string
	file   string
	name   string
	folder string
	area   string

	project    string
	database   string
	collection string
	endpoint   string
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Converts a spreadsheet to a single Firestore document and upserts it"
}

func (cmd *Sync) Usage() string {
	return "--credentials <file> --source <file ID|URL>"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] sync [options] --source <file ID|URL>\n", APP)
	fmt.Println()
	fmt.Println("  Replaces any existing copy of the source file in Google Drive with a freshly converted Google Sheets")
	fmt.Println("  spreadsheet, reads every worksheet and upserts the result as a single Firestore document keyed by the")
	fmt.Println("  ID of the new spreadsheet.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    briefing-sync sync --credentials "OAuth2_Client_ID.json" --source "1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU"`)
	fmt.Println(`    briefing-sync --debug sync --credentials "OAuth2_Client_ID.json" --file "briefing.xlsx" --project "q-and-a-generator"`)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("sync")

	flagset.StringVar(&cmd.source, "source", cmd.source, "Google Drive file ID or URL of the source spreadsheet")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Local .xlsx workbook to sync instead of a Google Drive file")
	flagset.StringVar(&cmd.name, "name", cmd.name, "Name for the converted Google Sheets copy")
	flagset.StringVar(&cmd.folder, "folder", cmd.folder, "Google Drive folder ID for the converted copy. Defaults to 'My Drive'")
	flagset.StringVar(&cmd.area, "range", cmd.area, "Range read from each worksheet")
	flagset.StringVar(&cmd.project, "project", cmd.project, "Firestore project ID")
	flagset.StringVar(&cmd.database, "database", cmd.database, "Firestore database ID")
	flagset.StringVar(&cmd.collection, "collection", cmd.collection, "Firestore collection for the synced documents")
	flagset.StringVar(&cmd.endpoint, "endpoint", cmd.endpoint, "Firestore REST API endpoint")

	return flagset
}

func (cmd *Sync) Execute(ctx context.Context, options *Options) error {
	cmd.debug = options.Debug

	// ... check parameters
	if err := cmd.validate(); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.source) == "" && strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("one of --source or --file is required")
	}

	if strings.TrimSpace(cmd.source) != "" && strings.TrimSpace(cmd.file) != "" {
		return fmt.Errorf("--source and --file are mutually exclusive")
	}

	if strings.TrimSpace(cmd.project) == "" {
		return fmt.Errorf("--project is a required option")
	}

	// ... authorise
	client, err := authorize(ctx, cmd.credentials, cmd.tokensFile(), SCOPES...)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%w)", err)
	}

	firestore := store.NewFirestore(client, cmd.project, logger())
	firestore.Endpoint = cmd.endpoint
	firestore.Database = cmd.database
	firestore.Collection = cmd.collection

	// ... local workbook
	if cmd.file != "" {
		x, err := workbook.OpenExcel(cmd.file)
		if err != nil {
			return fmt.Errorf("unable to open workbook %s (%w)", cmd.file, err)
		}

		defer x.Close()

		r := newRun(uuid.NewString())
		if err := r.transcode(ctx, x, cmd.area); err != nil {
			return err
		}

		_, err = r.upsert(ctx, firestore)

		return err
	}

	// ... Google Drive
	sourceID, err := fileID(cmd.source)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Source - ID:%s  copy:%s  range:%s", sourceID, cmd.name, cmd.area)
	}

	gdrive, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	gsheets, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	id, err := source.Acquire(ctx, source.NewDrive(gdrive, cmd.folder), sourceID, cmd.name, logger())
	if err != nil {
		return err
	}

	r := newRun(id)
	if err := r.transcode(ctx, workbook.NewGoogleSheets(gsheets, id), cmd.area); err != nil {
		return err
	}

	if _, err := r.upsert(ctx, firestore); err != nil {
		return err
	}

	return nil
}
