package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"sitekhata/internal/core"
	"sitekhata/internal/ledger"
	"sitekhata/internal/storage/memory"
)

var fixedClock = func() time.Time {
	return time.Date(2025, time.March, 5, 10, 30, 0, 0, time.UTC)
}

func newTestGenerator(t *testing.T) (*Generator, *memory.Store, int64) {
	t.Helper()
	store := memory.New()
	siteID, err := store.CreateSite(context.Background(), core.Site{Name: "Site A", Location: "Pune", IsRunning: true})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	agg := ledger.NewAggregator(store, store, store, store)
	gen := NewGenerator(store, store, store, store, agg).WithClock(fixedClock)
	return gen, store, siteID
}

func addWorker(t *testing.T, store *memory.Store, siteID int64, name string, cat core.WorkerCategory) int64 {
	t.Helper()
	id, err := store.CreateWorker(context.Background(), core.Worker{
		SiteID: siteID, Name: name, Category: cat, Village: "Wagholi", Contact: "9800000000",
	})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}
	return id
}

func TestFilename(t *testing.T) {
	got := Filename("Site A", KindWorkers, FormCSV, fixedClock())
	want := "SiteA_Workers_Report_5Mar2025.csv"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}

func TestWorkersCSVRoundTrip(t *testing.T) {
	gen, store, siteID := newTestGenerator(t)
	ctx := context.Background()

	// Name with comma, quote and newline must survive a standard CSV parse.
	tricky := "Ram \"Bhau\", Jr.\nMason"
	if _, err := store.CreateWorker(ctx, core.Worker{
		SiteID: siteID, Name: tricky, Category: core.Karigar, Village: "A, B", Contact: "98",
	}); err != nil {
		t.Fatalf("create worker: %v", err)
	}

	doc, err := gen.Generate(ctx, siteID, KindWorkers, FormCSV)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if doc.Filename != "SiteA_Workers_Report_5Mar2025.csv" {
		t.Errorf("filename = %q", doc.Filename)
	}

	records, err := csv.NewReader(bytes.NewReader(doc.Body)).ReadAll()
	if err != nil {
		t.Fatalf("parse generated csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d csv rows, want 2", len(records))
	}
	wantHeader := []string{"Name", "Category", "Village", "Contact"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	if records[1][0] != tricky {
		t.Errorf("round-trip field = %q, want %q", records[1][0], tricky)
	}
	if records[1][2] != "A, B" {
		t.Errorf("round-trip village = %q", records[1][2])
	}
}

func TestEmptyMaterialsCSVIsHeaderOnly(t *testing.T) {
	gen, _, siteID := newTestGenerator(t)

	doc, err := gen.Generate(context.Background(), siteID, KindMaterials, FormCSV)
	if err != nil {
		t.Fatalf("generate on empty site: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(doc.Body), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty materials csv has %d lines, want 1 (header only)", len(lines))
	}
	if lines[0] != "Name,Quantity,Unit,Cost,Date" {
		t.Errorf("header line = %q", lines[0])
	}
}

func TestPaymentsHTMLFooterTotal(t *testing.T) {
	gen, store, siteID := newTestGenerator(t)
	ctx := context.Background()
	workerID := addWorker(t, store, siteID, "Ramesh", core.Karigar)

	for _, paise := range []int64{100000, 250000} { // 1000 and 2500 rupees
		if _, err := store.CreatePayment(ctx, core.PaymentRecord{
			SiteID: siteID, WorkerID: workerID, WorkerName: "Ramesh", WorkerCategory: core.Karigar,
			Amount: core.Money{Paise: paise}, Date: "5 Mar 2025", Time: "18:00", Method: core.Cash,
		}); err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}

	doc, err := gen.Generate(ctx, siteID, KindPayments, FormHTML)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(doc.Body)

	if !strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("not a standalone html5 document")
	}
	if !strings.Contains(html, "Site A") {
		t.Error("site name missing from document")
	}
	if !strings.Contains(html, "5 Mar 2025 10:30") {
		t.Error("generation timestamp missing")
	}
	if !strings.Contains(html, "<tfoot>") || !strings.Contains(html, "3,500") {
		t.Errorf("footer total 3,500 missing:\n%s", html)
	}
	if strings.Contains(html, "href=") || strings.Contains(html, "src=") {
		t.Error("document references external resources")
	}
}

func TestEmptyHTMLHasPlaceholder(t *testing.T) {
	gen, _, siteID := newTestGenerator(t)

	doc, err := gen.Generate(context.Background(), siteID, KindPayments, FormHTML)
	if err != nil {
		t.Fatalf("generate on empty site: %v", err)
	}
	if !strings.Contains(string(doc.Body), "No data recorded") {
		t.Error("empty report missing no-data placeholder")
	}
}

func TestBudgetCSVTotalsRow(t *testing.T) {
	gen, store, siteID := newTestGenerator(t)
	ctx := context.Background()

	w1 := addWorker(t, store, siteID, "Ramesh", core.Karigar)
	w2 := addWorker(t, store, siteID, "Suresh", core.Mazdoor)
	for _, w := range []int64{w1, w2} {
		name := "Ramesh"
		cat := core.Karigar
		if w == w2 {
			name, cat = "Suresh", core.Mazdoor
		}
		if _, err := store.CreateHajari(ctx, core.HajariRecord{
			SiteID: siteID, WorkerID: w, WorkerName: name, WorkerCategory: cat,
			Amount: core.Money{Paise: 50000}, Date: "5 Mar 2025",
		}); err != nil {
			t.Fatalf("create hajari: %v", err)
		}
	}

	doc, err := gen.Generate(ctx, siteID, KindBudget, FormCSV)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(doc.Body)).ReadAll()
	if err != nil {
		t.Fatalf("parse budget csv: %v", err)
	}
	// header + two worker rows + totals row
	if len(records) != 4 {
		t.Fatalf("got %d rows, want 4", len(records))
	}
	last := records[len(records)-1]
	if last[0] != "Total" {
		t.Errorf("totals row label = %q", last[0])
	}
	if last[1] != "1,000" {
		t.Errorf("grand total hajari = %q, want 1,000", last[1])
	}
}

// A site-level expense has no worker row, so the budget table gives it its
// own row; every footer cell must equal the sum of its column.
func TestBudgetCSVSiteExpenseRow(t *testing.T) {
	gen, store, siteID := newTestGenerator(t)
	ctx := context.Background()

	w := addWorker(t, store, siteID, "Ramesh", core.Karigar)
	if _, err := store.CreateHajari(ctx, core.HajariRecord{
		SiteID: siteID, WorkerID: w, WorkerName: "Ramesh", WorkerCategory: core.Karigar,
		Amount: core.Money{Paise: 100000}, Date: "5 Mar 2025",
	}); err != nil {
		t.Fatalf("create hajari: %v", err)
	}
	if _, err := store.CreateExpense(ctx, core.Expense{
		SiteID: siteID, Amount: core.Money{Paise: 30000}, Description: "cement", Date: "5 Mar 2025",
	}); err != nil {
		t.Fatalf("create site expense: %v", err)
	}

	doc, err := gen.Generate(ctx, siteID, KindBudget, FormCSV)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(doc.Body)).ReadAll()
	if err != nil {
		t.Fatalf("parse budget csv: %v", err)
	}
	// header + worker row + site expense row + totals row
	if len(records) != 4 {
		t.Fatalf("got %d rows, want 4", len(records))
	}

	siteRow := records[2]
	want := []string{"Site expenses", "0", "300", "0", "-300"}
	for i := range want {
		if siteRow[i] != want[i] {
			t.Errorf("site expense row[%d] = %q, want %q", i, siteRow[i], want[i])
		}
	}

	footer := records[3]
	wantFooter := []string{"Total", "1,000", "300", "0", "700"}
	for i := range wantFooter {
		if footer[i] != wantFooter[i] {
			t.Errorf("footer[%d] = %q, want %q", i, footer[i], wantFooter[i])
		}
	}

	// Footer must equal the sum of each numeric column over the body rows.
	for col := 1; col < 5; col++ {
		var sum int64
		for _, row := range records[1:3] {
			v, err := core.ParseDecimalToPaise(strings.ReplaceAll(strings.TrimPrefix(row[col], "-"), ",", ""))
			if err != nil {
				t.Fatalf("parse cell %q: %v", row[col], err)
			}
			if strings.HasPrefix(row[col], "-") {
				v = -v
			}
			sum += v
		}
		got, err := core.ParseDecimalToPaise(strings.ReplaceAll(footer[col], ",", ""))
		if err != nil {
			t.Fatalf("parse footer cell %q: %v", footer[col], err)
		}
		if got != sum {
			t.Errorf("footer col %d = %d paise, column sum = %d", col, got, sum)
		}
	}
}

func TestGenerateUnknownSite(t *testing.T) {
	gen, _, _ := newTestGenerator(t)
	_, err := gen.Generate(context.Background(), 777, KindWorkers, FormCSV)
	if err == nil {
		t.Fatal("expected error for unknown site")
	}
}

func TestGenerateRejectsUnknownKind(t *testing.T) {
	gen, _, siteID := newTestGenerator(t)
	if _, err := gen.Generate(context.Background(), siteID, Kind("invoices"), FormCSV); err == nil {
		t.Error("unknown kind accepted")
	}
	if _, err := gen.Generate(context.Background(), siteID, KindWorkers, Form("pdf")); err == nil {
		t.Error("unknown form accepted")
	}
}
