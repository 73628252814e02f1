package ledger

import (
	"context"

	"sitekhata/internal/core"
)

// Ports into the record store. The aggregator only ever reads; both the
// sqlite repository and the in-memory store satisfy these.
type (
	HajariReader interface {
		ListHajari(ctx context.Context, siteID, workerID int64) ([]core.HajariRecord, error)
		ListHajariByIDs(ctx context.Context, siteID int64, ids []int64) ([]core.HajariRecord, error)
	}

	ExpenseReader interface {
		ListExpenses(ctx context.Context, siteID, workerID int64) ([]core.Expense, error)
	}

	PaymentReader interface {
		ListPayments(ctx context.Context, siteID, workerID int64) ([]core.PaymentRecord, error)
	}

	WorkerReader interface {
		ListWorkers(ctx context.Context, siteID int64) ([]core.Worker, error)
	}
)
