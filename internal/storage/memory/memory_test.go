package memory

import (
	"context"
	"errors"
	"testing"

	"sitekhata/internal/core"
)

func seedStore(t *testing.T) (*Store, int64, int64) {
	t.Helper()
	ctx := context.Background()
	store := New()

	siteID, err := store.CreateSite(ctx, core.Site{Name: "Riverside", IsRunning: true})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	workerID, err := store.CreateWorker(ctx, core.Worker{SiteID: siteID, Name: "Ramesh", Category: core.Karigar})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}
	return store, siteID, workerID
}

func hajariFor(siteID, workerID int64, date string) core.HajariRecord {
	return core.HajariRecord{
		SiteID: siteID, WorkerID: workerID, WorkerName: "Ramesh", WorkerCategory: core.Karigar,
		Amount: core.Money{Paise: 50000}, Date: date,
	}
}

// A failure injected on the last record of a batch must leave zero visible
// records, not N-1.
func TestHajariBatchFailureLeavesNoPartialRows(t *testing.T) {
	store, siteID, workerID := seedStore(t)
	ctx := context.Background()

	store.FailHajariAfter = 2
	_, err := store.CreateHajariBatch(ctx, []core.HajariRecord{
		hajariFor(siteID, workerID, "1 Mar 2025"),
		hajariFor(siteID, workerID, "2 Mar 2025"),
		hajariFor(siteID, workerID, "3 Mar 2025"),
	})
	if !errors.Is(err, core.ErrStorageFailure) {
		t.Fatalf("batch error = %v, want ErrStorageFailure", err)
	}

	recs, err := store.ListHajari(ctx, siteID, 0)
	if err != nil {
		t.Fatalf("ListHajari: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("partial batch visible: %d records, want 0", len(recs))
	}

	// With the fault cleared the same batch stores whole.
	store.FailHajariAfter = 0
	ids, err := store.CreateHajariBatch(ctx, []core.HajariRecord{
		hajariFor(siteID, workerID, "1 Mar 2025"),
		hajariFor(siteID, workerID, "2 Mar 2025"),
		hajariFor(siteID, workerID, "3 Mar 2025"),
	})
	if err != nil {
		t.Fatalf("batch after clearing fault: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("stored %d records, want 3", len(ids))
	}
}
