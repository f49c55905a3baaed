package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	firestore "google.golang.org/api/firestore/v1"

	"github.com/uhppoted/briefing-sync/document"
	"github.com/uhppoted/briefing-sync/store"
	"github.com/uhppoted/briefing-sync/workbook"
)

// run holds the state of a single sync. The ID is the Drive ID of the converted
// spreadsheet (or a generated UUID for a local workbook) and is also used as the
// Firestore document ID.
type run struct {
	ID      string
	Started time.Time

	workbook *workbook.Workbook
	document *firestore.Document
	log      *zap.SugaredLogger
}

func newRun(id string) *run {
	return &run{
		ID:      id,
		Started: time.Now(),
		log:     logger().With("run", id),
	}
}

// transcode extracts the workbook and converts it to a validated Firestore document.
func (r *run) transcode(ctx context.Context, reader workbook.Reader, area string) error {
	w, err := workbook.Extract(ctx, reader, area, r.log)
	if err != nil {
		return err
	}

	d := document.New(w)

	if err := document.Validate(d); err != nil {
		r.log.Errorf("Document validation failed: %v", err)
		r.log.Errorf("First few fields: %s", preview(d, 500))
		return err
	}

	r.workbook = w
	r.document = d

	return nil
}

func (r *run) upsert(ctx context.Context, fs *store.Firestore) (*firestore.Document, error) {
	if r.document == nil {
		return nil, fmt.Errorf("no document to upload")
	}

	saved, err := fs.Upsert(ctx, r.ID, r.document)
	if err != nil {
		return nil, err
	}

	r.log.Infof("Synced %v sheets to %s in %v", len(r.document.Fields), fs.Path(r.ID), time.Since(r.Started).Round(time.Millisecond))

	return saved, nil
}

func preview(d *firestore.Document, N int) string {
	b, err := json.MarshalIndent(d.Fields, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", err)
	}

	if len(b) > N {
		return string(b[:N]) + "..."
	}

	return string(b)
}
