// Package ledger derives financial summaries from raw records.
//
// There is no cached derived state anywhere: every call recomputes from the
// record store, so a summary can never go stale against the records.
// The reads behind one computation are independent snapshots; a write
// landing between them shows up on the next call.
package ledger

import (
	"context"
	"fmt"
	"sort"

	"sitekhata/internal/core"
)

type Aggregator struct {
	hajari   HajariReader
	expenses ExpenseReader
	payments PaymentReader
	workers  WorkerReader
}

func NewAggregator(h HajariReader, e ExpenseReader, p PaymentReader, w WorkerReader) *Aggregator {
	return &Aggregator{hajari: h, expenses: e, payments: p, workers: w}
}

// ComputeWorkerTotals recomputes the ledger for one worker on one site.
// Remaining may be negative (overpayment); it is returned as-is.
func (a *Aggregator) ComputeWorkerTotals(ctx context.Context, siteID, workerID int64) (core.WorkerTotals, error) {
	totals := core.WorkerTotals{SiteID: siteID, WorkerID: workerID}

	recs, err := a.hajari.ListHajari(ctx, siteID, workerID)
	if err != nil {
		return totals, fmt.Errorf("list hajari: %w", err)
	}
	totals.TotalHajari = sumHajari(recs)

	expenses, err := a.expenses.ListExpenses(ctx, siteID, workerID)
	if err != nil {
		return totals, fmt.Errorf("list expenses: %w", err)
	}
	for _, e := range expenses {
		totals.TotalExpense = totals.TotalExpense.Add(e.Amount)
	}

	payments, err := a.payments.ListPayments(ctx, siteID, workerID)
	if err != nil {
		return totals, fmt.Errorf("list payments: %w", err)
	}
	for _, p := range payments {
		totals.TotalPaid = totals.TotalPaid.Add(p.Amount)
	}

	totals.Remaining = totals.TotalHajari.Sub(totals.TotalExpense).Sub(totals.TotalPaid)
	return totals, nil
}

// SiteSummary computes per-worker rows plus grand totals for a site.
// Workers that were deleted but still have hajari or payment history are
// included under their snapshot name, so the summary never understates
// what the site owes or has spent.
func (a *Aggregator) SiteSummary(ctx context.Context, siteID int64) (core.SiteSummary, error) {
	summary := core.SiteSummary{SiteID: siteID}

	live, err := a.workers.ListWorkers(ctx, siteID)
	if err != nil {
		return summary, fmt.Errorf("list workers: %w", err)
	}

	names := make(map[int64]string)
	cats := make(map[int64]core.WorkerCategory)
	for _, w := range live {
		names[w.ID] = w.Name
		cats[w.ID] = w.Category
	}

	hajari, err := a.hajari.ListHajari(ctx, siteID, 0)
	if err != nil {
		return summary, fmt.Errorf("list hajari: %w", err)
	}
	payments, err := a.payments.ListPayments(ctx, siteID, 0)
	if err != nil {
		return summary, fmt.Errorf("list payments: %w", err)
	}
	expenses, err := a.expenses.ListExpenses(ctx, siteID, 0)
	if err != nil {
		return summary, fmt.Errorf("list expenses: %w", err)
	}

	byWorker := make(map[int64]*core.WorkerTotals)
	totalsFor := func(workerID int64) *core.WorkerTotals {
		t, ok := byWorker[workerID]
		if !ok {
			t = &core.WorkerTotals{SiteID: siteID, WorkerID: workerID}
			byWorker[workerID] = t
		}
		return t
	}
	for _, w := range live {
		totalsFor(w.ID)
	}
	for _, h := range hajari {
		t := totalsFor(h.WorkerID)
		t.TotalHajari = t.TotalHajari.Add(h.Amount).Add(h.Overtime)
		if _, ok := names[h.WorkerID]; !ok {
			names[h.WorkerID] = h.WorkerName
			cats[h.WorkerID] = h.WorkerCategory
		}
	}
	for _, p := range payments {
		t := totalsFor(p.WorkerID)
		t.TotalPaid = t.TotalPaid.Add(p.Amount)
		if _, ok := names[p.WorkerID]; !ok {
			names[p.WorkerID] = p.WorkerName
			cats[p.WorkerID] = p.WorkerCategory
		}
	}
	for _, e := range expenses {
		if e.WorkerID == 0 {
			// Site-level expense, not attributable to one worker.
			summary.SiteExpense = summary.SiteExpense.Add(e.Amount)
			continue
		}
		t := totalsFor(e.WorkerID)
		t.TotalExpense = t.TotalExpense.Add(e.Amount)
	}

	workerIDs := make([]int64, 0, len(byWorker))
	for id := range byWorker {
		workerIDs = append(workerIDs, id)
	}
	sort.Slice(workerIDs, func(i, j int) bool { return workerIDs[i] < workerIDs[j] })

	for _, id := range workerIDs {
		t := byWorker[id]
		t.Remaining = t.TotalHajari.Sub(t.TotalExpense).Sub(t.TotalPaid)
		summary.Workers = append(summary.Workers, core.WorkerSummaryRow{
			WorkerID:   id,
			WorkerName: names[id],
			Category:   cats[id],
			Totals:     *t,
		})
		summary.TotalHajari = summary.TotalHajari.Add(t.TotalHajari)
		summary.TotalExpense = summary.TotalExpense.Add(t.TotalExpense)
		summary.TotalPaid = summary.TotalPaid.Add(t.TotalPaid)
	}
	summary.TotalExpense = summary.TotalExpense.Add(summary.SiteExpense)
	summary.Remaining = summary.TotalHajari.Sub(summary.TotalExpense).Sub(summary.TotalPaid)
	return summary, nil
}

// SubsetRequest names an explicit set of hajari records chosen by the
// caller, replacing any ambient selection state in the UI layer.
type SubsetRequest struct {
	SiteID    int64
	RecordIDs []int64
}

// SubsetTotal sums amount+overtime over exactly the requested records.
// The formula is the same one ComputeWorkerTotals applies to a worker's
// full record set.
func (a *Aggregator) SubsetTotal(ctx context.Context, req SubsetRequest) (core.Money, error) {
	recs, err := a.hajari.ListHajariByIDs(ctx, req.SiteID, req.RecordIDs)
	if err != nil {
		return core.Money{}, fmt.Errorf("list hajari subset: %w", err)
	}
	return sumHajari(recs), nil
}

func sumHajari(recs []core.HajariRecord) core.Money {
	var total core.Money
	for _, h := range recs {
		total = total.Add(h.Amount).Add(h.Overtime)
	}
	return total
}
