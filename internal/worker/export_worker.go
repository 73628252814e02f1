package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"sitekhata/internal/amqp"
	"sitekhata/internal/export"
	"sitekhata/internal/report"
)

// ExportWorker turns queued export requests into uploaded documents. Both
// output forms of a report are generated and uploaded concurrently; if
// either fails the request is retried as a whole, which is safe because
// generation is read-only and uploads are idempotent per filename.
type ExportWorker struct {
	gen      *report.Generator
	exporter export.Exporter
}

func NewExportWorker(gen *report.Generator, exporter export.Exporter) *ExportWorker {
	return &ExportWorker{gen: gen, exporter: exporter}
}

// HandleExportRequest is the AMQP consumer callback. A request with an
// unknown kind is logged and dropped rather than requeued: it can never
// succeed.
func (w *ExportWorker) HandleExportRequest(ctx context.Context, req amqp.ReportExportRequest) error {
	kind := report.Kind(req.Kind)
	if !kind.Valid() {
		slog.ErrorContext(ctx, "Dropping export request with unknown kind",
			"site_id", req.SiteID, "kind", req.Kind)
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, form := range []report.Form{report.FormCSV, report.FormHTML} {
		g.Go(func() error {
			return w.exportOne(ctx, req.SiteID, kind, form)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("export %s report for site %d: %w", kind, req.SiteID, err)
	}

	slog.InfoContext(ctx, "Report export completed", "site_id", req.SiteID, "kind", kind)
	return nil
}

func (w *ExportWorker) exportOne(ctx context.Context, siteID int64, kind report.Kind, form report.Form) error {
	doc, err := w.gen.Generate(ctx, siteID, kind, form)
	if err != nil {
		return fmt.Errorf("generate %s form: %w", form, err)
	}

	ref, err := w.exporter.Upload(ctx, doc.Filename, doc.ContentType, doc.Body)
	if err != nil {
		return fmt.Errorf("upload %s: %w", doc.Filename, err)
	}

	slog.InfoContext(ctx, "Report document exported",
		"filename", doc.Filename,
		"form", form,
		"ref", ref)
	return nil
}
