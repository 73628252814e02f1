package http

import (
	"net/http"

	"sitekhata/internal/core"
	"sitekhata/internal/ledger"
)

type workerTotalsResponse struct {
	SiteID       int64     `json:"site_id"`
	WorkerID     int64     `json:"worker_id"`
	TotalHajari  moneyJSON `json:"total_hajari"`
	TotalExpense moneyJSON `json:"total_expense"`
	TotalPaid    moneyJSON `json:"total_paid"`
	Remaining    moneyJSON `json:"remaining"`
}

func totalsOut(t core.WorkerTotals) workerTotalsResponse {
	return workerTotalsResponse{
		SiteID:       t.SiteID,
		WorkerID:     t.WorkerID,
		TotalHajari:  moneyOut(t.TotalHajari),
		TotalExpense: moneyOut(t.TotalExpense),
		TotalPaid:    moneyOut(t.TotalPaid),
		Remaining:    moneyOut(t.Remaining),
	}
}

// Totals are recomputed from the stored records on every request; there is
// no cached ledger to fall out of sync.
func (s *Server) handleWorkerTotals(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	workerID, err := pathID(r, "workerID")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	totals, err := s.ledger.ComputeWorkerTotals(r.Context(), siteID, workerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totalsOut(totals))
}

type summaryRowResponse struct {
	WorkerID   int64     `json:"worker_id"`
	WorkerName string    `json:"worker_name"`
	Category   string    `json:"category"`
	Hajari     moneyJSON `json:"total_hajari"`
	Expense    moneyJSON `json:"total_expense"`
	Paid       moneyJSON `json:"total_paid"`
	Remaining  moneyJSON `json:"remaining"`
}

type siteSummaryResponse struct {
	SiteID       int64                `json:"site_id"`
	Workers      []summaryRowResponse `json:"workers"`
	SiteExpense  moneyJSON            `json:"site_expense"`
	TotalHajari  moneyJSON            `json:"total_hajari"`
	TotalExpense moneyJSON            `json:"total_expense"`
	TotalPaid    moneyJSON            `json:"total_paid"`
	Remaining    moneyJSON            `json:"remaining"`
}

func (s *Server) handleSiteSummary(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	summary, err := s.ledger.SiteSummary(r.Context(), siteID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := siteSummaryResponse{
		SiteID:       summary.SiteID,
		Workers:      make([]summaryRowResponse, 0, len(summary.Workers)),
		SiteExpense:  moneyOut(summary.SiteExpense),
		TotalHajari:  moneyOut(summary.TotalHajari),
		TotalExpense: moneyOut(summary.TotalExpense),
		TotalPaid:    moneyOut(summary.TotalPaid),
		Remaining:    moneyOut(summary.Remaining),
	}
	for _, row := range summary.Workers {
		out.Workers = append(out.Workers, summaryRowResponse{
			WorkerID:   row.WorkerID,
			WorkerName: row.WorkerName,
			Category:   string(row.Category),
			Hajari:     moneyOut(row.Totals.TotalHajari),
			Expense:    moneyOut(row.Totals.TotalExpense),
			Paid:       moneyOut(row.Totals.TotalPaid),
			Remaining:  moneyOut(row.Totals.Remaining),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type subsetTotalRequest struct {
	RecordIDs []int64 `json:"record_ids"`
}

func (s *Server) handleSubsetTotal(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req subsetTotalRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	total, err := s.ledger.SubsetTotal(r.Context(), ledger.SubsetRequest{
		SiteID:    siteID,
		RecordIDs: req.RecordIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Total moneyJSON `json:"total"`
	}{Total: moneyOut(total)})
}
