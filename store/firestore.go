package store

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	firestore "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/uhppoted/briefing-sync/document"
)

const (
	DEFAULT_ENDPOINT   = "https://firestore.googleapis.com"
	DEFAULT_DATABASE   = "(default)"
	DEFAULT_COLLECTION = "briefing_sheet"
)

// Firestore upserts documents using the Firestore REST API. Client is expected to
// add the OAuth2 bearer token to each request.
type Firestore struct {
	Client     *http.Client
	Endpoint   string
	Project    string
	Database   string
	Collection string

	log *zap.SugaredLogger
}

func NewFirestore(client *http.Client, project string, log *zap.SugaredLogger) *Firestore {
	return &Firestore{
		Client:     client,
		Endpoint:   DEFAULT_ENDPOINT,
		Project:    project,
		Database:   DEFAULT_DATABASE,
		Collection: DEFAULT_COLLECTION,
		log:        log,
	}
}

// Path returns the resource path of a document relative to the database.
func (f *Firestore) Path(id string) string {
	return fmt.Sprintf("%s/%s", f.Collection, id)
}

// Name returns the full resource name of a document.
func (f *Firestore) Name(id string) string {
	database := f.Database
	if database == "" {
		database = DEFAULT_DATABASE
	}

	return fmt.Sprintf("projects/%s/databases/%s/documents/%s", f.Project, database, f.Path(id))
}

func (f *Firestore) URL(id string) string {
	return fmt.Sprintf("%s/v1/%s", strings.TrimSuffix(f.endpoint(), "/"), f.Name(id))
}

// Upsert validates the document and then replaces the document 'id' with it in a
// single PATCH request. Anything other than a 200 OK response is an error.
func (f *Firestore) Upsert(ctx context.Context, id string, d *firestore.Document) (*firestore.Document, error) {
	log := f.logger()

	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("missing document ID")
	}

	if err := document.Validate(d); err != nil {
		log.Errorf("Document validation failed: %v", err)
		return nil, err
	}

	log.Debugf("Document structure validation passed")

	service, err := f.service(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to create Firestore client (%w)", err)
	}

	log.Infof("Firestore URL: %s", f.URL(id))
	log.Infof("Sending %v sheets to Firestore", len(d.Fields))

	saved, err := service.Projects.Databases.Documents.Patch(f.Name(id), d).Context(ctx).Do()
	if err != nil {
		log.Errorf("Failed to save to Firestore: %v", err)
		return nil, err
	}

	if saved.HTTPStatusCode != http.StatusOK {
		log.Errorf("HTTP %v: unexpected response", saved.HTTPStatusCode)

		return nil, &googleapi.Error{
			Code:    saved.HTTPStatusCode,
			Message: "Firestore error: Unknown error",
			Header:  saved.Header,
		}
	}

	log.Infof("Saved all sheets to document %q", f.Path(id))
	log.Infof("Synced %v sheets successfully", len(d.Fields))

	return saved, nil
}

func (f *Firestore) service(ctx context.Context) (*firestore.Service, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	return firestore.NewService(ctx,
		option.WithHTTPClient(client),
		option.WithEndpoint(strings.TrimSuffix(f.endpoint(), "/")+"/"))
}

func (f *Firestore) endpoint() string {
	if f.Endpoint == "" {
		return DEFAULT_ENDPOINT
	}

	return f.Endpoint
}

func (f *Firestore) logger() *zap.SugaredLogger {
	if f.log == nil {
		return zap.S()
	}

	return f.log
}
