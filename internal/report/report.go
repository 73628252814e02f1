// Package report turns raw records and ledger aggregates into finished
// documents: delimited CSV for spreadsheet round-trips and standalone HTML
// for in-app preview and print-to-PDF. Generation is read-only and never
// fails on missing data; an empty site yields a header-only CSV or a
// placeholder HTML page.
package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sitekhata/internal/core"
	"sitekhata/internal/ledger"
)

type Kind string

const (
	KindWorkers   Kind = "workers"
	KindMaterials Kind = "materials"
	KindBudget    Kind = "budget"
	KindPayments  Kind = "payments"
)

func (k Kind) Valid() bool {
	switch k {
	case KindWorkers, KindMaterials, KindBudget, KindPayments:
		return true
	}
	return false
}

// Title is the capitalized form used in filenames and document headings.
func (k Kind) Title() string {
	switch k {
	case KindWorkers:
		return "Workers"
	case KindMaterials:
		return "Materials"
	case KindBudget:
		return "Budget"
	case KindPayments:
		return "Payments"
	}
	return ""
}

type Form string

const (
	FormCSV  Form = "csv"
	FormHTML Form = "html"
)

// Document is a finished, self-contained report artifact ready to hand to
// a share or export facility.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Ports into the record store; read-only by construction.
type (
	SiteGetter interface {
		GetSite(ctx context.Context, id int64) (core.Site, error)
	}

	MaterialLister interface {
		ListMaterials(ctx context.Context, siteID int64) ([]core.Material, error)
	}
)

type Generator struct {
	sites     SiteGetter
	workers   ledger.WorkerReader
	materials MaterialLister
	payments  ledger.PaymentReader
	agg       *ledger.Aggregator
	labels    LabelFunc
	now       func() time.Time
}

func NewGenerator(sites SiteGetter, workers ledger.WorkerReader, materials MaterialLister,
	payments ledger.PaymentReader, agg *ledger.Aggregator) *Generator {
	return &Generator{
		sites:     sites,
		workers:   workers,
		materials: materials,
		payments:  payments,
		agg:       agg,
		labels:    DefaultLabels,
		now:       time.Now,
	}
}

// WithLabels replaces the header-label lookup, e.g. for localization.
func (g *Generator) WithLabels(l LabelFunc) *Generator {
	g.labels = l
	return g
}

// WithClock replaces the generation-timestamp source.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// table is the single intermediate representation both output forms render,
// so CSV and HTML can never disagree about a cell.
type table struct {
	kind        Kind
	site        core.Site
	generatedAt time.Time
	header      []string
	rows        [][]string
	footer      []string // grand-total row; nil when the kind has none
	footerInCSV bool     // budget carries its totals row in the CSV too
}

// Generate produces the requested report document for a site. Unknown kind
// or form is an InvalidArgument; a missing site is NotFound; an empty site
// is NOT an error, the empty-document form is returned instead.
func (g *Generator) Generate(ctx context.Context, siteID int64, kind Kind, form Form) (Document, error) {
	if !kind.Valid() {
		return Document{}, fmt.Errorf("%w: unknown report kind %q", core.ErrInvalidArgument, kind)
	}
	if form != FormCSV && form != FormHTML {
		return Document{}, fmt.Errorf("%w: unknown report form %q", core.ErrInvalidArgument, form)
	}

	site, err := g.sites.GetSite(ctx, siteID)
	if err != nil {
		return Document{}, fmt.Errorf("get site: %w", err)
	}

	var tbl table
	switch kind {
	case KindWorkers:
		tbl, err = g.workersTable(ctx, site)
	case KindMaterials:
		tbl, err = g.materialsTable(ctx, site)
	case KindBudget:
		tbl, err = g.budgetTable(ctx, site)
	case KindPayments:
		tbl, err = g.paymentsTable(ctx, site)
	}
	if err != nil {
		return Document{}, err
	}
	tbl.kind = kind
	tbl.site = site
	tbl.generatedAt = g.now()

	switch form {
	case FormHTML:
		return g.renderHTML(tbl)
	default:
		return g.renderCSV(tbl)
	}
}

func (g *Generator) workersTable(ctx context.Context, site core.Site) (table, error) {
	workers, err := g.workers.ListWorkers(ctx, site.ID)
	if err != nil {
		return table{}, fmt.Errorf("list workers: %w", err)
	}
	l := g.labels
	tbl := table{header: []string{l("col.name"), l("col.category"), l("col.village"), l("col.contact")}}
	for _, w := range workers {
		tbl.rows = append(tbl.rows, []string{w.Name, string(w.Category), w.Village, w.Contact})
	}
	return tbl, nil
}

func (g *Generator) materialsTable(ctx context.Context, site core.Site) (table, error) {
	materials, err := g.materials.ListMaterials(ctx, site.ID)
	if err != nil {
		return table{}, fmt.Errorf("list materials: %w", err)
	}
	l := g.labels
	tbl := table{header: []string{l("col.name"), l("col.quantity"), l("col.unit"), l("col.cost"), l("col.date")}}
	for _, m := range materials {
		tbl.rows = append(tbl.rows, []string{
			m.Name,
			strconv.FormatFloat(m.Quantity, 'f', -1, 64),
			m.Unit,
			m.Cost.FormatIndian(),
			m.Date,
		})
	}
	return tbl, nil
}

func (g *Generator) budgetTable(ctx context.Context, site core.Site) (table, error) {
	summary, err := g.agg.SiteSummary(ctx, site.ID)
	if err != nil {
		return table{}, fmt.Errorf("site summary: %w", err)
	}
	l := g.labels
	tbl := table{
		header:      []string{l("col.category"), l("col.total_hajari"), l("col.total_expense"), l("col.total_paid"), l("col.remaining")},
		footerInCSV: true,
	}
	for _, row := range summary.Workers {
		name := row.WorkerName
		if row.Category != "" {
			name = fmt.Sprintf("%s (%s)", row.WorkerName, row.Category)
		}
		tbl.rows = append(tbl.rows, []string{
			name,
			row.Totals.TotalHajari.FormatIndian(),
			row.Totals.TotalExpense.FormatIndian(),
			row.Totals.TotalPaid.FormatIndian(),
			row.Totals.Remaining.FormatIndian(),
		})
	}
	// Expenses recorded without a worker get their own row so every footer
	// cell equals the sum of its column.
	if summary.SiteExpense.Paise != 0 {
		zero := core.Money{}
		tbl.rows = append(tbl.rows, []string{
			l("row.site_expenses"),
			zero.FormatIndian(),
			summary.SiteExpense.FormatIndian(),
			zero.FormatIndian(),
			zero.Sub(summary.SiteExpense).FormatIndian(),
		})
	}
	if len(tbl.rows) > 0 {
		tbl.footer = []string{
			l("row.total"),
			summary.TotalHajari.FormatIndian(),
			summary.TotalExpense.FormatIndian(),
			summary.TotalPaid.FormatIndian(),
			summary.Remaining.FormatIndian(),
		}
	}
	return tbl, nil
}

func (g *Generator) paymentsTable(ctx context.Context, site core.Site) (table, error) {
	payments, err := g.payments.ListPayments(ctx, site.ID, 0)
	if err != nil {
		return table{}, fmt.Errorf("list payments: %w", err)
	}
	l := g.labels
	tbl := table{
		header: []string{l("col.worker_name"), l("col.category"), l("col.amount"), l("col.method"), l("col.date"), l("col.time")},
	}
	var total core.Money
	for _, p := range payments {
		total = total.Add(p.Amount)
		tbl.rows = append(tbl.rows, []string{
			p.WorkerName,
			string(p.WorkerCategory),
			p.Amount.FormatIndian(),
			string(p.Method),
			p.Date,
			p.Time,
		})
	}
	if len(tbl.rows) > 0 {
		tbl.footer = []string{l("row.total"), "", total.FormatIndian(), "", "", ""}
	}
	return tbl, nil
}

// Filename builds the export name, e.g. SiteA_Workers_Report_5Mar2025.csv.
// The date is day-month-year with no padding or separators.
func Filename(siteName string, kind Kind, form Form, when time.Time) string {
	ext := "csv"
	if form == FormHTML {
		ext = "html"
	}
	name := strings.ReplaceAll(strings.TrimSpace(siteName), " ", "")
	return fmt.Sprintf("%s_%s_Report_%s.%s", name, kind.Title(), when.Format("2Jan2006"), ext)
}
