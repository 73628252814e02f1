// Package export defines the outbound share/export port for finished
// report documents, with Google Drive and local-directory implementations.
package export

import "context"

// Exporter receives a finished document and a suggested filename and
// returns an opaque reference to where it landed (file ID, path).
type Exporter interface {
	Upload(ctx context.Context, filename, contentType string, body []byte) (ref string, err error)
}
