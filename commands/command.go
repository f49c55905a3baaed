package commands

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const APP = "briefing-sync"

const (
	SHEETS    = "https://www.googleapis.com/auth/spreadsheets.readonly"
	DRIVE     = "https://www.googleapis.com/auth/drive"
	DATASTORE = "https://www.googleapis.com/auth/datastore"
)

const (
	DEFAULT_PROJECT = "q-and-a-generator"
	DEFAULT_COPY    = "CPY_BRIEFING_SHEET"
)

// SCOPES is the set of scopes requested by 'authorise' and required by 'sync'.
var SCOPES = []string{DATASTORE, DRIVE, SHEETS}

type Options struct {
	Debug   bool
	Timeout time.Duration
}

type Command interface {
	Name() string
	Description() string
	Usage() string
	Help()
	FlagSet() *flag.FlagSet
	Execute(ctx context.Context, options *Options) error
}

type command struct {
	workdir     string
	credentials string
	tokens      string
	debug       bool
}

func (cmd *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ContinueOnError)

	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, "Directory for working files (tokens, etc)")
	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the OAuth2 client 'credentials.json' file")
	flagset.StringVar(&cmd.tokens, "tokens", cmd.tokens, "Path for the authorisation tokens file. Defaults to <workdir>/.google/<credentials>.tokens")

	return flagset
}

// tokensFile returns the path of the file holding the OAuth2 tokens issued for the
// credentials.
func (cmd *command) tokensFile() string {
	if strings.TrimSpace(cmd.tokens) != "" {
		return cmd.tokens
	}

	_, file := filepath.Split(cmd.credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	return filepath.Join(cmd.workdir, ".google", fmt.Sprintf("%s.tokens", name))
}

func (cmd *command) validate() error {
	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(cmd.workdir) == "" && strings.TrimSpace(cmd.tokens) == "" {
		return fmt.Errorf("one of --workdir or --tokens is required")
	}

	return nil
}

// fileID extracts the file ID from a Drive or Sheets URL. Anything that doesn't look like
// a URL is assumed to be an ID.
func fileID(v string) (string, error) {
	v = strings.TrimSpace(v)

	if !strings.HasPrefix(v, "https://") {
		if !regexp.MustCompile(`^[a-zA-Z0-9_-]+$`).MatchString(v) {
			return "", fmt.Errorf("invalid file ID '%s'", v)
		}

		return v, nil
	}

	patterns := []string{
		`^https://docs.google.com/(?:spreadsheets|document|presentation)/d/([a-zA-Z0-9_-]+)(?:/.*)?$`,
		`^https://drive.google.com/file/d/([a-zA-Z0-9_-]+)(?:/.*)?$`,
		`^https://drive.google.com/open\?id=([a-zA-Z0-9_-]+)(?:&.*)?$`,
	}

	for _, p := range patterns {
		if match := regexp.MustCompile(p).FindStringSubmatch(v); len(match) > 1 {
			return match[1], nil
		}
	}

	return "", fmt.Errorf("invalid file URL - expected something like 'https://drive.google.com/file/d/1Xh-h1ttDS7WDhO621sJYB8VhlP4XRzEU'")
}

func helpOptions(flagset *flag.FlagSet) {
	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	fmt.Println()
	fmt.Println("  Options:")
	fmt.Println()
	fmt.Println("    --debug   Displays internal information for diagnosing errors")
	fmt.Println("    --timeout Maximum time allowed for the command e.g. 2m")
}

func logger() *zap.SugaredLogger {
	return zap.S()
}

func debugf(format string, args ...any) {
	zap.S().Debugf(format, args...)
}

func infof(format string, args ...any) {
	zap.S().Infof(format, args...)
}

func warnf(format string, args ...any) {
	zap.S().Warnf(format, args...)
}
