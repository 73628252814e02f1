// Package drive uploads finished report documents to Google Drive so they
// can be shared outside the device.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"

	"sitekhata/internal/export"
)

type Client struct {
	svc      *gdrive.Service
	folderID string
}

var _ export.Exporter = (*Client)(nil)

// NewFromEnv creates a Drive client using Service Account credentials.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
// Optional: DRIVE_FOLDER_ID places uploads inside one folder.
func NewFromEnv(ctx context.Context) (*Client, error) {
	credentialsJSON, err := credentialsFromEnv(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Client{
		svc:      svc,
		folderID: strings.TrimSpace(os.Getenv("DRIVE_FOLDER_ID")),
	}, nil
}

func credentialsFromEnv(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return credentialsJSON, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Upload creates the file on Drive and returns its file ID.
func (c *Client) Upload(ctx context.Context, filename, contentType string, body []byte) (string, error) {
	meta := &gdrive.File{Name: filename}
	if c.folderID != "" {
		meta.Parents = []string{c.folderID}
	}

	created, err := c.svc.Files.Create(meta).
		Media(bytes.NewReader(body), googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload %s to drive: %w", filename, err)
	}

	slog.InfoContext(ctx, "Report uploaded to Drive",
		"filename", filename,
		"file_id", created.Id,
		"size", len(body))
	return created.Id, nil
}
