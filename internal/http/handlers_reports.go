package http

import (
	"fmt"
	"net/http"

	"sitekhata/internal/amqp"
	"sitekhata/internal/log"
	"sitekhata/internal/report"
)

// handleGetReport streams a finished report document. The format query
// parameter selects csv or html; csv is the default because spreadsheet
// import is the common case.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	kind := report.Kind(r.PathValue("kind"))

	form := report.FormCSV
	switch r.URL.Query().Get("format") {
	case "", "csv":
	case "html":
		form = report.FormHTML
	default:
		writeBadRequest(w, "format must be csv or html")
		return
	}

	doc, err := s.reports.Generate(r.Context(), siteID, kind, form)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "report generated",
		log.FieldSiteID, siteID,
		log.FieldKind, string(kind),
		log.FieldForm, string(form),
		log.FieldFilename, doc.Filename,
		log.FieldOperation, log.OpGenerate,
	)

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

// handleExportReport enqueues the report for the background export worker,
// which renders both forms and uploads them to the configured backend.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	kind := report.Kind(r.PathValue("kind"))
	if !kind.Valid() {
		writeBadRequest(w, "unknown report kind")
		return
	}

	if s.exporter == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "export is not configured"})
		return
	}

	// Reject unknown sites before queueing so the caller gets a 404 now
	// instead of a silently dropped message later.
	if _, err := s.store.GetSite(r.Context(), siteID); err != nil {
		writeError(w, r, err)
		return
	}

	req := amqp.NewReportExportRequest(siteID, string(kind))
	if err := s.exporter.PublishExportRequest(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "report export queued",
		log.FieldSiteID, siteID,
		log.FieldKind, string(kind),
		log.FieldOperation, log.OpExport,
	)
	writeJSON(w, http.StatusAccepted, struct {
		Status string `json:"status"`
	}{Status: "queued"})
}
