// Package http exposes the record store, ledger aggregator and report
// generator as a JSON API. Handlers stay thin: decode, validate via core,
// delegate, encode.
package http

import (
	"context"
	"net/http"
	"time"

	"sitekhata/internal/amqp"
	"sitekhata/internal/core"
	"sitekhata/internal/ledger"
	"sitekhata/internal/log"
	"sitekhata/internal/report"
)

// Store is the slice of the record store the HTTP layer needs directly.
// Hajari batches and payments go through Records instead so notifications
// fire on the write path.
type Store interface {
	CreateSite(ctx context.Context, s core.Site) (int64, error)
	GetSite(ctx context.Context, id int64) (core.Site, error)
	ListSites(ctx context.Context) ([]core.Site, error)
	DeleteSite(ctx context.Context, id int64) error

	CreateWorker(ctx context.Context, w core.Worker) (int64, error)
	GetWorker(ctx context.Context, id int64) (core.Worker, error)
	ListWorkers(ctx context.Context, siteID int64) ([]core.Worker, error)
	DeleteWorker(ctx context.Context, id int64) error

	ListHajari(ctx context.Context, siteID, workerID int64) ([]core.HajariRecord, error)
	DeleteHajari(ctx context.Context, id int64) error

	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	ListExpenses(ctx context.Context, siteID, workerID int64) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error

	ListPayments(ctx context.Context, siteID, workerID int64) ([]core.PaymentRecord, error)
	DeletePayment(ctx context.Context, id int64) error

	CreateMaterial(ctx context.Context, m core.Material) (int64, error)
	ListMaterials(ctx context.Context, siteID int64) ([]core.Material, error)
	DeleteMaterial(ctx context.Context, id int64) error
}

// Records is the notifying write path for hajari batches and payments.
type Records interface {
	SubmitHajariBatch(ctx context.Context, recs []core.HajariRecord) ([]int64, error)
	RecordPayment(ctx context.Context, p core.PaymentRecord) (int64, error)
}

// Ledger is the derived-totals surface.
type Ledger interface {
	ComputeWorkerTotals(ctx context.Context, siteID, workerID int64) (core.WorkerTotals, error)
	SiteSummary(ctx context.Context, siteID int64) (core.SiteSummary, error)
	SubsetTotal(ctx context.Context, req ledger.SubsetRequest) (core.Money, error)
}

// Reports generates finished report documents.
type Reports interface {
	Generate(ctx context.Context, siteID int64, kind report.Kind, form report.Form) (report.Document, error)
}

// ExportPublisher enqueues a report export for the background worker.
// May be nil when no broker is configured; export endpoints then 503.
type ExportPublisher interface {
	PublishExportRequest(ctx context.Context, req amqp.ReportExportRequest) error
}

type Server struct {
	http.Server
	store    Store
	records  Records
	ledger   Ledger
	reports  Reports
	exporter ExportPublisher
	logger   *log.Logger
}

// NewServer wires routes and returns a ready-to-run server.
func NewServer(addr string, store Store, records Records, lg Ledger, reports Reports, exporter ExportPublisher, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:    store,
		records:  records,
		ledger:   lg,
		reports:  reports,
		exporter: exporter,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleHealth)

	mux.HandleFunc("POST /sites", s.handleCreateSite)
	mux.HandleFunc("GET /sites", s.handleListSites)
	mux.HandleFunc("GET /sites/{id}", s.handleGetSite)
	mux.HandleFunc("DELETE /sites/{id}", s.handleDeleteSite)

	mux.HandleFunc("POST /sites/{id}/workers", s.handleCreateWorker)
	mux.HandleFunc("GET /sites/{id}/workers", s.handleListWorkers)
	mux.HandleFunc("GET /workers/{id}", s.handleGetWorker)
	mux.HandleFunc("DELETE /workers/{id}", s.handleDeleteWorker)

	mux.HandleFunc("POST /sites/{id}/hajari", s.handleCreateHajari)
	mux.HandleFunc("POST /sites/{id}/hajari/batch", s.handleHajariBatch)
	mux.HandleFunc("GET /sites/{id}/hajari", s.handleListHajari)
	mux.HandleFunc("POST /sites/{id}/hajari/total", s.handleSubsetTotal)
	mux.HandleFunc("DELETE /hajari/{id}", s.handleDeleteHajari)

	mux.HandleFunc("POST /sites/{id}/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /sites/{id}/expenses", s.handleListExpenses)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("POST /sites/{id}/payments", s.handleCreatePayment)
	mux.HandleFunc("GET /sites/{id}/payments", s.handleListPayments)
	mux.HandleFunc("DELETE /payments/{id}", s.handleDeletePayment)

	mux.HandleFunc("POST /sites/{id}/materials", s.handleCreateMaterial)
	mux.HandleFunc("GET /sites/{id}/materials", s.handleListMaterials)
	mux.HandleFunc("DELETE /materials/{id}", s.handleDeleteMaterial)

	mux.HandleFunc("GET /sites/{id}/workers/{workerID}/totals", s.handleWorkerTotals)
	mux.HandleFunc("GET /sites/{id}/summary", s.handleSiteSummary)

	mux.HandleFunc("GET /sites/{id}/reports/{kind}", s.handleGetReport)
	mux.HandleFunc("POST /sites/{id}/reports/{kind}/export", s.handleExportReport)

	if logger != nil {
		s.Handler = log.Middleware(logger)(mux)
	} else {
		s.Handler = mux
	}
	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
