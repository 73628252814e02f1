package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sitekhata/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable record store. Single local writer: no
// explicit locking beyond what sqlite itself provides, callers are expected
// to drive it from one logical timeline per device.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// invalidArg tags a validation failure with the InvalidArgument kind.
func invalidArg(err error) error {
	return fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
}

// storageErr tags an underlying I/O failure with the StorageFailure kind.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, core.ErrStorageFailure, err)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func siteExists(ctx context.Context, q querier, siteID int64) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM sites WHERE id = ?`, siteID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("site %d: %w", siteID, core.ErrNotFound)
	}
	if err != nil {
		return storageErr("check site", err)
	}
	return nil
}

func workerExists(ctx context.Context, q querier, siteID, workerID int64) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM workers WHERE id = ? AND site_id = ?`, workerID, siteID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("worker %d on site %d: %w", workerID, siteID, core.ErrNotFound)
	}
	if err != nil {
		return storageErr("check worker", err)
	}
	return nil
}

// --- Sites ---

func (r *SQLiteRepository) CreateSite(ctx context.Context, s core.Site) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, invalidArg(err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sites (name, location, site_code, is_running) VALUES (?, ?, ?, ?)`,
		s.Name, s.Location, s.SiteCode, s.IsRunning)
	if err != nil {
		return 0, storageErr("create site", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("create site", err)
	}

	slog.InfoContext(ctx, "Site created", "id", id, "name", s.Name)
	return id, nil
}

func (r *SQLiteRepository) GetSite(ctx context.Context, id int64) (core.Site, error) {
	var s core.Site
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, location, site_code, is_running, created_at FROM sites WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Location, &s.SiteCode, &s.IsRunning, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Site{}, fmt.Errorf("site %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Site{}, storageErr("get site", err)
	}
	return s, nil
}

func (r *SQLiteRepository) ListSites(ctx context.Context) ([]core.Site, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, site_code, is_running, created_at FROM sites ORDER BY id`)
	if err != nil {
		return nil, storageErr("list sites", err)
	}
	defer rows.Close()

	var sites []core.Site
	for rows.Next() {
		var s core.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.SiteCode, &s.IsRunning, &s.CreatedAt); err != nil {
			return nil, storageErr("scan site", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list sites", err)
	}
	return sites, nil
}

// DeleteSite removes the site and every child record in one transaction.
func (r *SQLiteRepository) DeleteSite(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin delete site", err)
	}
	defer tx.Rollback()

	if err := siteExists(ctx, tx, id); err != nil {
		return err
	}

	for _, table := range []string{"hajari_records", "payment_records", "expenses", "materials", "workers"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE site_id = ?`, id); err != nil {
			return storageErr("cascade delete "+table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id); err != nil {
		return storageErr("delete site", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit delete site", err)
	}

	slog.InfoContext(ctx, "Site deleted with all child records", "id", id)
	return nil
}

// --- Workers ---

func (r *SQLiteRepository) CreateWorker(ctx context.Context, w core.Worker) (int64, error) {
	if err := w.Validate(); err != nil {
		return 0, invalidArg(err)
	}
	if err := siteExists(ctx, r.db, w.SiteID); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO workers (site_id, name, category, age, contact, village, photo_uri)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.SiteID, w.Name, string(w.Category), w.Age, w.Contact, w.Village, w.PhotoURI)
	if err != nil {
		return 0, storageErr("create worker", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("create worker", err)
	}

	slog.InfoContext(ctx, "Worker created", "id", id, "site_id", w.SiteID, "name", w.Name, "category", w.Category)
	return id, nil
}

func (r *SQLiteRepository) GetWorker(ctx context.Context, id int64) (core.Worker, error) {
	var w core.Worker
	var cat string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, site_id, name, category, age, contact, village, photo_uri FROM workers WHERE id = ?`, id).
		Scan(&w.ID, &w.SiteID, &w.Name, &cat, &w.Age, &w.Contact, &w.Village, &w.PhotoURI)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Worker{}, fmt.Errorf("worker %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Worker{}, storageErr("get worker", err)
	}
	w.Category = core.WorkerCategory(cat)
	return w, nil
}

func (r *SQLiteRepository) ListWorkers(ctx context.Context, siteID int64) ([]core.Worker, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, site_id, name, category, age, contact, village, photo_uri
		 FROM workers WHERE site_id = ? ORDER BY id`, siteID)
	if err != nil {
		return nil, storageErr("list workers", err)
	}
	defer rows.Close()

	var workers []core.Worker
	for rows.Next() {
		var w core.Worker
		var cat string
		if err := rows.Scan(&w.ID, &w.SiteID, &w.Name, &cat, &w.Age, &w.Contact, &w.Village, &w.PhotoURI); err != nil {
			return nil, storageErr("scan worker", err)
		}
		w.Category = core.WorkerCategory(cat)
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list workers", err)
	}
	return workers, nil
}

// DeleteWorker removes the worker row only. Hajari, payment and expense
// rows referencing the worker stay untouched: financial history outlives
// the worker profile.
func (r *SQLiteRepository) DeleteWorker(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workers WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete worker", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete worker", err)
	}
	if n == 0 {
		return fmt.Errorf("worker %d: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Worker deleted, history preserved", "id", id)
	return nil
}

// --- Hajari records ---

const insertHajariSQL = `INSERT INTO hajari_records
	(site_id, worker_id, worker_name, worker_category, amount_paise, overtime_paise, entry_date, entry_time)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (r *SQLiteRepository) CreateHajari(ctx context.Context, h core.HajariRecord) (int64, error) {
	ids, err := r.CreateHajariBatch(ctx, []core.HajariRecord{h})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// CreateHajariBatch stores a whole attendance submission atomically: either
// every record becomes visible or none does.
func (r *SQLiteRepository) CreateHajariBatch(ctx context.Context, recs []core.HajariRecord) ([]int64, error) {
	if len(recs) == 0 {
		return nil, invalidArg(errors.New("empty batch"))
	}
	for _, h := range recs {
		if err := h.Validate(); err != nil {
			return nil, invalidArg(err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin hajari batch", err)
	}
	defer tx.Rollback()

	type siteWorker struct{ siteID, workerID int64 }
	checked := make(map[siteWorker]bool)
	ids := make([]int64, 0, len(recs))
	for _, h := range recs {
		key := siteWorker{h.SiteID, h.WorkerID}
		if !checked[key] {
			if err := siteExists(ctx, tx, h.SiteID); err != nil {
				return nil, err
			}
			if err := workerExists(ctx, tx, h.SiteID, h.WorkerID); err != nil {
				return nil, err
			}
			checked[key] = true
		}
		res, err := tx.ExecContext(ctx, insertHajariSQL,
			h.SiteID, h.WorkerID, h.WorkerName, string(h.WorkerCategory),
			h.Amount.Paise, h.Overtime.Paise, h.Date, h.Time)
		if err != nil {
			return nil, storageErr("insert hajari", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, storageErr("insert hajari", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit hajari batch", err)
	}

	slog.InfoContext(ctx, "Hajari batch stored", "count", len(ids), "site_id", recs[0].SiteID)
	return ids, nil
}

// ListHajari returns hajari records for a site; workerID scopes to one
// worker when non-zero. Unscoped listing is not supported, every query
// carries a site.
func (r *SQLiteRepository) ListHajari(ctx context.Context, siteID, workerID int64) ([]core.HajariRecord, error) {
	query := `SELECT id, site_id, worker_id, worker_name, worker_category,
		amount_paise, overtime_paise, entry_date, entry_time
		FROM hajari_records WHERE site_id = ?`
	args := []any{siteID}
	if workerID != 0 {
		query += ` AND worker_id = ?`
		args = append(args, workerID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list hajari", err)
	}
	defer rows.Close()
	return scanHajariRows(rows)
}

// ListHajariByIDs fetches a caller-chosen subset of a site's hajari rows,
// used for selected-subset totals. Unknown IDs are silently skipped.
func (r *SQLiteRepository) ListHajariByIDs(ctx context.Context, siteID int64, ids []int64) ([]core.HajariRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, len(ids)+1)
	args = append(args, siteID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, site_id, worker_id, worker_name, worker_category,
		 amount_paise, overtime_paise, entry_date, entry_time
		 FROM hajari_records WHERE site_id = ? AND id IN (`+placeholders+`) ORDER BY id`, args...)
	if err != nil {
		return nil, storageErr("list hajari by ids", err)
	}
	defer rows.Close()
	return scanHajariRows(rows)
}

func scanHajariRows(rows *sql.Rows) ([]core.HajariRecord, error) {
	var recs []core.HajariRecord
	for rows.Next() {
		var h core.HajariRecord
		var cat string
		if err := rows.Scan(&h.ID, &h.SiteID, &h.WorkerID, &h.WorkerName, &cat,
			&h.Amount.Paise, &h.Overtime.Paise, &h.Date, &h.Time); err != nil {
			return nil, storageErr("scan hajari", err)
		}
		h.WorkerCategory = core.WorkerCategory(cat)
		recs = append(recs, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list hajari", err)
	}
	return recs, nil
}

func (r *SQLiteRepository) DeleteHajari(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "hajari_records", id)
}

// --- Expenses ---

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, invalidArg(err)
	}
	if err := siteExists(ctx, r.db, e.SiteID); err != nil {
		return 0, err
	}
	if e.WorkerID != 0 {
		if err := workerExists(ctx, r.db, e.SiteID, e.WorkerID); err != nil {
			return 0, err
		}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (site_id, worker_id, amount_paise, description, expense_date)
		 VALUES (?, ?, ?, ?, ?)`,
		e.SiteID, e.WorkerID, e.Amount.Paise, e.Description, e.Date)
	if err != nil {
		return 0, storageErr("create expense", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("create expense", err)
	}

	slog.InfoContext(ctx, "Expense recorded", "id", id, "site_id", e.SiteID, "amount_paise", e.Amount.Paise)
	return id, nil
}

// ListExpenses returns expenses for a site; workerID scopes to one worker
// when non-zero.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, siteID, workerID int64) ([]core.Expense, error) {
	query := `SELECT id, site_id, worker_id, amount_paise, description, expense_date
		FROM expenses WHERE site_id = ?`
	args := []any{siteID}
	if workerID != 0 {
		query += ` AND worker_id = ?`
		args = append(args, workerID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.SiteID, &e.WorkerID, &e.Amount.Paise, &e.Description, &e.Date); err != nil {
			return nil, storageErr("scan expense", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list expenses", err)
	}
	return expenses, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "expenses", id)
}

// --- Payment records ---

func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.PaymentRecord) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, invalidArg(err)
	}
	if err := siteExists(ctx, r.db, p.SiteID); err != nil {
		return 0, err
	}
	if err := workerExists(ctx, r.db, p.SiteID, p.WorkerID); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_records
		 (site_id, worker_id, worker_name, worker_category, amount_paise, pay_date, pay_time, method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SiteID, p.WorkerID, p.WorkerName, string(p.WorkerCategory),
		p.Amount.Paise, p.Date, p.Time, string(p.Method))
	if err != nil {
		return 0, storageErr("create payment", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("create payment", err)
	}

	slog.InfoContext(ctx, "Payment recorded",
		"id", id, "site_id", p.SiteID, "worker_id", p.WorkerID,
		"amount_paise", p.Amount.Paise, "method", p.Method)
	return id, nil
}

func (r *SQLiteRepository) ListPayments(ctx context.Context, siteID, workerID int64) ([]core.PaymentRecord, error) {
	query := `SELECT id, site_id, worker_id, worker_name, worker_category,
		amount_paise, pay_date, pay_time, method
		FROM payment_records WHERE site_id = ?`
	args := []any{siteID}
	if workerID != 0 {
		query += ` AND worker_id = ?`
		args = append(args, workerID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	defer rows.Close()

	var payments []core.PaymentRecord
	for rows.Next() {
		var p core.PaymentRecord
		var cat, method string
		if err := rows.Scan(&p.ID, &p.SiteID, &p.WorkerID, &p.WorkerName, &cat,
			&p.Amount.Paise, &p.Date, &p.Time, &method); err != nil {
			return nil, storageErr("scan payment", err)
		}
		p.WorkerCategory = core.WorkerCategory(cat)
		p.Method = core.PaymentMethod(method)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list payments", err)
	}
	return payments, nil
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "payment_records", id)
}

// --- Materials ---

func (r *SQLiteRepository) CreateMaterial(ctx context.Context, m core.Material) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, invalidArg(err)
	}
	if err := siteExists(ctx, r.db, m.SiteID); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO materials (site_id, name, quantity, unit, cost_paise, entry_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.SiteID, m.Name, m.Quantity, m.Unit, m.Cost.Paise, m.Date)
	if err != nil {
		return 0, storageErr("create material", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("create material", err)
	}

	slog.InfoContext(ctx, "Material recorded", "id", id, "site_id", m.SiteID, "name", m.Name)
	return id, nil
}

func (r *SQLiteRepository) ListMaterials(ctx context.Context, siteID int64) ([]core.Material, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, site_id, name, quantity, unit, cost_paise, entry_date
		 FROM materials WHERE site_id = ? ORDER BY id`, siteID)
	if err != nil {
		return nil, storageErr("list materials", err)
	}
	defer rows.Close()

	var materials []core.Material
	for rows.Next() {
		var m core.Material
		if err := rows.Scan(&m.ID, &m.SiteID, &m.Name, &m.Quantity, &m.Unit, &m.Cost.Paise, &m.Date); err != nil {
			return nil, storageErr("scan material", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list materials", err)
	}
	return materials, nil
}

func (r *SQLiteRepository) DeleteMaterial(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "materials", id)
}

func (r *SQLiteRepository) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete from "+table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete from "+table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s row %d: %w", table, id, core.ErrNotFound)
	}
	return nil
}
