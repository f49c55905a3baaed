package source

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
)

// Drive implements Files over the Google Drive v3 API. New files are created in
// 'folder' if it is set, otherwise in the root of 'My Drive'.
type Drive struct {
	service *drive.Service
	folder  string
}

func NewDrive(service *drive.Service, folder string) *Drive {
	return &Drive{
		service: service,
		folder:  folder,
	}
}

func (d *Drive) FindByName(ctx context.Context, name string) ([]string, error) {
	q := fmt.Sprintf("name = '%s' and trashed = false", escape(name))
	ids := []string{}
	page := ""

	for {
		call := d.service.Files.List().
			Q(q).
			Fields("nextPageToken, files(id)").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)

		if page != "" {
			call.PageToken(page)
		}

		list, err := call.Do()
		if err != nil {
			return nil, err
		}

		for _, f := range list.Files {
			ids = append(ids, f.Id)
		}

		if page = list.NextPageToken; page == "" {
			break
		}
	}

	return ids, nil
}

func (d *Drive) Trash(ctx context.Context, id string) error {
	_, err := d.service.Files.Update(id, &drive.File{Trashed: true}).
		SupportsAllDrives(true).
		Context(ctx).
		Do()

	return err
}

// Convert uploads the contents of the source file as a new Google Sheets file. A
// source that is already a Google Sheets spreadsheet is copied instead since native
// Google files cannot be downloaded.
func (d *Drive) Convert(ctx context.Context, source, name string) (string, error) {
	meta, err := d.service.Files.Get(source).
		Fields("id, name, mimeType").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}

	file := drive.File{
		Name:     name,
		MimeType: GOOGLE_SHEETS,
	}

	if d.folder != "" {
		file.Parents = []string{d.folder}
	}

	if meta.MimeType == GOOGLE_SHEETS {
		copied, err := d.service.Files.Copy(source, &file).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
		if err != nil {
			return "", err
		}

		return copied.Id, nil
	}

	response, err := d.service.Files.Get(source).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return "", err
	}

	defer response.Body.Close()

	created, err := d.service.Files.Create(&file).
		Media(response.Body).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}

	return created.Id, nil
}

// escape quotes a value for use in a Drive search query string literal.
func escape(v string) string {
	return strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), `'`, `\'`)
}
