// Package local is the development exporter: documents are written to a
// directory instead of a cloud share.
package local

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"sitekhata/internal/export"
)

type Exporter struct {
	dir string
}

var _ export.Exporter = (*Exporter)(nil)

func New(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Exporter{dir: dir}, nil
}

func (e *Exporter) Upload(ctx context.Context, filename, contentType string, body []byte) (string, error) {
	path := filepath.Join(e.dir, filepath.Base(filename))
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}

	slog.InfoContext(ctx, "Report exported to local directory",
		"path", path,
		"content_type", contentType,
		"size", len(body))
	return path, nil
}
