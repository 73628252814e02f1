package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"sitekhata/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "sitekhata.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedSiteAndWorker(t *testing.T, repo *SQLiteRepository) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	siteID, err := repo.CreateSite(ctx, core.Site{Name: "Riverside", Location: "Pune", IsRunning: true})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	workerID, err := repo.CreateWorker(ctx, core.Worker{
		SiteID: siteID, Name: "Ramesh", Category: core.Karigar, Age: 35, Village: "Wagholi",
	})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}
	return siteID, workerID
}

func hajariFor(siteID, workerID int64, amount, overtime int64) core.HajariRecord {
	return core.HajariRecord{
		SiteID:         siteID,
		WorkerID:       workerID,
		WorkerName:     "Ramesh",
		WorkerCategory: core.Karigar,
		Amount:         core.Money{Paise: amount},
		Overtime:       core.Money{Paise: overtime},
		Date:           "5 Mar 2025",
		Time:           "08:30",
	}
}

func TestSiteCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateSite(ctx, core.Site{Name: "Riverside", Location: "Pune", SiteCode: "RS-1", IsRunning: true})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}

	s, err := repo.GetSite(ctx, id)
	if err != nil {
		t.Fatalf("get site: %v", err)
	}
	if s.Name != "Riverside" || s.SiteCode != "RS-1" || !s.IsRunning {
		t.Errorf("unexpected site row: %+v", s)
	}
	if s.CreatedAt.IsZero() {
		t.Error("created_at not populated")
	}

	if _, err := repo.GetSite(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing site: got %v, want ErrNotFound", err)
	}
}

func TestCreateWorkerRequiresSite(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateWorker(context.Background(), core.Worker{
		SiteID: 42, Name: "Ramesh", Category: core.Mazdoor,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("worker on missing site: got %v, want ErrNotFound", err)
	}
}

func TestHajariScopedListing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	siteID, workerID := seedSiteAndWorker(t, repo)

	otherWorker, err := repo.CreateWorker(ctx, core.Worker{SiteID: siteID, Name: "Suresh", Category: core.Mazdoor})
	if err != nil {
		t.Fatalf("create second worker: %v", err)
	}

	if _, err := repo.CreateHajari(ctx, hajariFor(siteID, workerID, 50000, 0)); err != nil {
		t.Fatalf("create hajari: %v", err)
	}
	if _, err := repo.CreateHajari(ctx, hajariFor(siteID, otherWorker, 40000, 5000)); err != nil {
		t.Fatalf("create hajari: %v", err)
	}

	all, err := repo.ListHajari(ctx, siteID, 0)
	if err != nil {
		t.Fatalf("list site hajari: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("site-scoped list: got %d rows, want 2", len(all))
	}

	scoped, err := repo.ListHajari(ctx, siteID, workerID)
	if err != nil {
		t.Fatalf("list worker hajari: %v", err)
	}
	if len(scoped) != 1 || scoped[0].WorkerID != workerID {
		t.Fatalf("worker-scoped list: got %+v", scoped)
	}
}

func TestHajariBatchAtomicity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	siteID, workerID := seedSiteAndWorker(t, repo)

	// Last record references a worker that does not exist; the whole batch
	// must be rolled back, not just the final insert.
	batch := []core.HajariRecord{
		hajariFor(siteID, workerID, 50000, 0),
		hajariFor(siteID, workerID, 50000, 5000),
		hajariFor(siteID, 9999, 50000, 0),
	}
	if _, err := repo.CreateHajariBatch(ctx, batch); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("bad batch: got %v, want ErrNotFound", err)
	}

	recs, err := repo.ListHajari(ctx, siteID, 0)
	if err != nil {
		t.Fatalf("list hajari: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("partial batch visible: %d rows, want 0", len(recs))
	}
}

// A batch reusing a worker ID under a different site must still check the
// worker against that site, not skip the check because the ID was seen.
func TestHajariBatchChecksWorkerPerSite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	siteID, workerID := seedSiteAndWorker(t, repo)

	otherSite, err := repo.CreateSite(ctx, core.Site{Name: "Hilltop", IsRunning: true})
	if err != nil {
		t.Fatalf("create second site: %v", err)
	}

	_, err = repo.CreateHajariBatch(ctx, []core.HajariRecord{
		hajariFor(siteID, workerID, 50000, 0),
		hajariFor(otherSite, workerID, 50000, 0),
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("batch error = %v, want ErrNotFound", err)
	}

	for _, site := range []int64{siteID, otherSite} {
		recs, err := repo.ListHajari(ctx, site, 0)
		if err != nil {
			t.Fatalf("ListHajari: %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("site %d has %d records after failed batch, want 0", site, len(recs))
		}
	}
}

func TestHajariBatchSuccess(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	siteID, workerID := seedSiteAndWorker(t, repo)

	ids, err := repo.CreateHajariBatch(ctx, []core.HajariRecord{
		hajariFor(siteID, workerID, 50000, 0),
		hajariFor(siteID, workerID, 50000, 5000),
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}

	subset, err := repo.ListHajariByIDs(ctx, siteID, ids[:1])
	if err != nil {
		t.Fatalf("list by ids: %v", err)
	}
	if len(subset) != 1 || subset[0].ID != ids[0] {
		t.Fatalf("subset fetch: got %+v", subset)
	}
}

func TestNegativeAmountRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	siteID, workerID := seedSiteAndWorker(t, repo)

	h := hajariFor(siteID, workerID, -100, 0)
	if _, err := repo.CreateHajari(ctx, h); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("negative hajari amount: got %v, want ErrInvalidArgument", err)
	}

	_, err := repo.CreateExpense(ctx, core.Expense{
		SiteID: siteID, Amount: core.Money{Paise: -1}, Description: "diesel", Date: "5 Mar 2025",
	})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("negative expense amount: got %v, want ErrInvalidArgument", err)
	}
}

func TestDeleteWorkerPreservesHistory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	siteID, workerID := seedSiteAndWorker(t, repo)

	if _, err := repo.CreateHajari(ctx, hajariFor(siteID, workerID, 50000, 0)); err != nil {
		t.Fatalf("create hajari: %v", err)
	}
	if _, err := repo.CreatePayment(ctx, core.PaymentRecord{
		SiteID: siteID, WorkerID: workerID, WorkerName: "Ramesh", WorkerCategory: core.Karigar,
		Amount: core.Money{Paise: 60000}, Date: "5 Mar 2025", Time: "18:00", Method: core.Cash,
	}); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	if err := repo.DeleteWorker(ctx, workerID); err != nil {
		t.Fatalf("delete worker: %v", err)
	}
	if _, err := repo.GetWorker(ctx, workerID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("worker still present after delete: %v", err)
	}

	hajari, err := repo.ListHajari(ctx, siteID, workerID)
	if err != nil {
		t.Fatalf("list hajari: %v", err)
	}
	payments, err := repo.ListPayments(ctx, siteID, workerID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(hajari) != 1 || len(payments) != 1 {
		t.Errorf("history changed by worker delete: %d hajari, %d payments", len(hajari), len(payments))
	}
	if hajari[0].WorkerName != "Ramesh" || hajari[0].WorkerCategory != core.Karigar {
		t.Errorf("snapshot fields lost: %+v", hajari[0])
	}
}

func TestDeleteSiteCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	siteID, workerID := seedSiteAndWorker(t, repo)

	if _, err := repo.CreateHajari(ctx, hajariFor(siteID, workerID, 50000, 0)); err != nil {
		t.Fatalf("create hajari: %v", err)
	}
	if _, err := repo.CreateMaterial(ctx, core.Material{
		SiteID: siteID, Name: "Cement", Quantity: 20, Unit: "bags",
		Cost: core.Money{Paise: 800000}, Date: "5 Mar 2025",
	}); err != nil {
		t.Fatalf("create material: %v", err)
	}

	if err := repo.DeleteSite(ctx, siteID); err != nil {
		t.Fatalf("delete site: %v", err)
	}

	if _, err := repo.GetSite(ctx, siteID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("site still present: %v", err)
	}
	if _, err := repo.GetWorker(ctx, workerID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("worker survived site delete: %v", err)
	}
	recs, err := repo.ListHajari(ctx, siteID, 0)
	if err != nil {
		t.Fatalf("list hajari: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("hajari survived site delete: %d rows", len(recs))
	}
	mats, err := repo.ListMaterials(ctx, siteID)
	if err != nil {
		t.Fatalf("list materials: %v", err)
	}
	if len(mats) != 0 {
		t.Errorf("materials survived site delete: %d rows", len(mats))
	}
}

func TestPaymentRequiresWorker(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	siteID, _ := seedSiteAndWorker(t, repo)

	_, err := repo.CreatePayment(ctx, core.PaymentRecord{
		SiteID: siteID, WorkerID: 777, WorkerName: "Ghost", WorkerCategory: core.Mazdoor,
		Amount: core.Money{Paise: 10000}, Date: "5 Mar 2025", Method: core.Bank,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("payment to missing worker: got %v, want ErrNotFound", err)
	}
}
