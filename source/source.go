package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const GOOGLE_SHEETS = "application/vnd.google-apps.spreadsheet"

// Files is the subset of a cloud file store needed to produce a fresh spreadsheet copy.
type Files interface {
	FindByName(ctx context.Context, name string) ([]string, error)
	Trash(ctx context.Context, id string) error
	Convert(ctx context.Context, source, name string) (string, error)
}

// Acquire trashes any existing files with the target name and then creates a new
// spreadsheet converted from the source file, returning the ID of the new file.
func Acquire(ctx context.Context, files Files, source, name string, log *zap.SugaredLogger) (string, error) {
	existing, err := files.FindByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("unable to search for existing copies of '%s' (%w)", name, err)
	}

	for _, id := range existing {
		if err := files.Trash(ctx, id); err != nil {
			return "", fmt.Errorf("unable to trash file %s (%w)", id, err)
		}

		log.Debugf("Trashed existing copy %s of '%s'", id, name)
	}

	id, err := files.Convert(ctx, source, name)
	if err != nil {
		return "", fmt.Errorf("unable to convert file %s to a Google Sheets spreadsheet (%w)", source, err)
	}

	log.Infof("Created spreadsheet '%s' (%s) from %s", name, id, source)

	return id, nil
}
