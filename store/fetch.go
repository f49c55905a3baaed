package store

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/uhppoted/briefing-sync/workbook"
)

// Reader retrieves previously synced documents with the Firestore client library.
type Reader struct {
	client     *firestore.Client
	collection string
}

func NewReader(ctx context.Context, project, database, collection string, opts ...option.ClientOption) (*Reader, error) {
	client, err := firestore.NewClientWithDatabase(ctx, project, database, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Firestore client (%w)", err)
	}

	return &Reader{
		client:     client,
		collection: collection,
	}, nil
}

func (r *Reader) Close() error {
	return r.client.Close()
}

// Fetch returns the sheets stored in document 'id', sorted by name.
func (r *Reader) Fetch(ctx context.Context, id string) (*workbook.Workbook, error) {
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("document %s/%s not found", r.collection, id)
	} else if err != nil {
		return nil, err
	}

	return toWorkbook(snap.Data())
}

func toWorkbook(data map[string]any) (*workbook.Workbook, error) {
	names := make([]string, 0, len(data))
	for k := range data {
		names = append(names, k)
	}

	sort.Strings(names)

	w := workbook.Workbook{
		Sheets: []workbook.Snapshot{},
	}

	for _, name := range names {
		s, err := toSnapshot(name, data[name])
		if err != nil {
			return nil, err
		}

		w.Sheets = append(w.Sheets, *s)
	}

	return &w, nil
}

func toSnapshot(name string, v any) (*workbook.Snapshot, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("sheet '%s' is not a map (%T)", name, v)
	}

	rows, ok := m["data"].([]any)
	if !ok {
		return nil, fmt.Errorf("sheet '%s' has no 'data' array", name)
	}

	data := make([][]any, 0, len(rows))
	for i, r := range rows {
		row, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("sheet '%s' row %v is not an array (%T)", name, i, r)
		}

		data = append(data, row)
	}

	rowCount, _ := m["rowCount"].(int64)
	colCount, _ := m["colCount"].(int64)

	return &workbook.Snapshot{
		Name:     name,
		Data:     data,
		RowCount: int(rowCount),
		ColCount: int(colCount),
	}, nil
}
