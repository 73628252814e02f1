package core

// WorkerTotals is the derived ledger for one worker on one site.
// Remaining = TotalHajari - TotalExpense - TotalPaid and is deliberately
// unclamped: a negative value means the worker was overpaid.
type WorkerTotals struct {
	SiteID       int64
	WorkerID     int64
	TotalHajari  Money
	TotalExpense Money
	TotalPaid    Money
	Remaining    Money
}

// WorkerSummaryRow pairs a worker snapshot with their totals for
// site-level reporting.
type WorkerSummaryRow struct {
	WorkerID   int64
	WorkerName string
	Category   WorkerCategory
	Totals     WorkerTotals
}

// SiteSummary is the grand totals across every worker on a site.
// SiteExpense holds expenses recorded without a worker; it is included in
// TotalExpense and Remaining but belongs to no worker row.
type SiteSummary struct {
	SiteID       int64
	Workers      []WorkerSummaryRow
	SiteExpense  Money
	TotalHajari  Money
	TotalExpense Money
	TotalPaid    Money
	Remaining    Money
}
