// Package memory provides a mutex-guarded in-memory record store with the
// same contract as the sqlite repository. It backs tests and the
// no-persistence development backend.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sitekhata/internal/core"
)

type Store struct {
	mu       sync.Mutex
	nextID   int64
	sites    map[int64]core.Site
	workers  map[int64]core.Worker
	hajari   []core.HajariRecord
	expenses []core.Expense
	payments []core.PaymentRecord
	material []core.Material

	// FailHajariAfter, when n > 0, fails the batch insert after n records
	// have been staged. Tests use it to verify all-or-nothing visibility.
	FailHajariAfter int
}

func New() *Store {
	return &Store{
		sites:   make(map[int64]core.Site),
		workers: make(map[int64]core.Worker),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func invalidArg(err error) error {
	return fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
}

// --- Sites ---

func (s *Store) CreateSite(_ context.Context, site core.Site) (int64, error) {
	if err := site.Validate(); err != nil {
		return 0, invalidArg(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	site.ID = s.id()
	site.CreatedAt = time.Now()
	s.sites[site.ID] = site
	return site.ID, nil
}

func (s *Store) GetSite(_ context.Context, id int64) (core.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	site, ok := s.sites[id]
	if !ok {
		return core.Site{}, fmt.Errorf("site %d: %w", id, core.ErrNotFound)
	}
	return site, nil
}

func (s *Store) ListSites(_ context.Context) ([]core.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Site, 0, len(s.sites))
	for id := int64(1); id <= s.nextID; id++ {
		if site, ok := s.sites[id]; ok {
			out = append(out, site)
		}
	}
	return out, nil
}

func (s *Store) DeleteSite(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sites[id]; !ok {
		return fmt.Errorf("site %d: %w", id, core.ErrNotFound)
	}
	delete(s.sites, id)
	for wid, w := range s.workers {
		if w.SiteID == id {
			delete(s.workers, wid)
		}
	}
	s.hajari = filterHajari(s.hajari, func(h core.HajariRecord) bool { return h.SiteID != id })
	s.expenses = filterExpenses(s.expenses, func(e core.Expense) bool { return e.SiteID != id })
	s.payments = filterPayments(s.payments, func(p core.PaymentRecord) bool { return p.SiteID != id })
	s.material = filterMaterials(s.material, func(m core.Material) bool { return m.SiteID != id })
	return nil
}

// --- Workers ---

func (s *Store) CreateWorker(_ context.Context, w core.Worker) (int64, error) {
	if err := w.Validate(); err != nil {
		return 0, invalidArg(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sites[w.SiteID]; !ok {
		return 0, fmt.Errorf("site %d: %w", w.SiteID, core.ErrNotFound)
	}
	w.ID = s.id()
	s.workers[w.ID] = w
	return w.ID, nil
}

func (s *Store) GetWorker(_ context.Context, id int64) (core.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workers[id]
	if !ok {
		return core.Worker{}, fmt.Errorf("worker %d: %w", id, core.ErrNotFound)
	}
	return w, nil
}

func (s *Store) ListWorkers(_ context.Context, siteID int64) ([]core.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Worker
	for id := int64(1); id <= s.nextID; id++ {
		if w, ok := s.workers[id]; ok && w.SiteID == siteID {
			out = append(out, w)
		}
	}
	return out, nil
}

// DeleteWorker removes only the worker row; historical records keep their
// snapshots.
func (s *Store) DeleteWorker(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workers[id]; !ok {
		return fmt.Errorf("worker %d: %w", id, core.ErrNotFound)
	}
	delete(s.workers, id)
	return nil
}

// --- Hajari ---

func (s *Store) CreateHajari(ctx context.Context, h core.HajariRecord) (int64, error) {
	ids, err := s.CreateHajariBatch(ctx, []core.HajariRecord{h})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

func (s *Store) CreateHajariBatch(_ context.Context, recs []core.HajariRecord) ([]int64, error) {
	if len(recs) == 0 {
		return nil, invalidArg(fmt.Errorf("empty batch"))
	}
	for _, h := range recs {
		if err := h.Validate(); err != nil {
			return nil, invalidArg(err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage everything before touching visible state.
	staged := make([]core.HajariRecord, 0, len(recs))
	ids := make([]int64, 0, len(recs))
	for i, h := range recs {
		if _, ok := s.sites[h.SiteID]; !ok {
			return nil, fmt.Errorf("site %d: %w", h.SiteID, core.ErrNotFound)
		}
		if w, ok := s.workers[h.WorkerID]; !ok || w.SiteID != h.SiteID {
			return nil, fmt.Errorf("worker %d on site %d: %w", h.WorkerID, h.SiteID, core.ErrNotFound)
		}
		if s.FailHajariAfter > 0 && i >= s.FailHajariAfter {
			return nil, fmt.Errorf("insert hajari: %w: injected failure", core.ErrStorageFailure)
		}
		h.ID = s.id()
		staged = append(staged, h)
		ids = append(ids, h.ID)
	}
	s.hajari = append(s.hajari, staged...)
	return ids, nil
}

func (s *Store) ListHajari(_ context.Context, siteID, workerID int64) ([]core.HajariRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.HajariRecord
	for _, h := range s.hajari {
		if h.SiteID == siteID && (workerID == 0 || h.WorkerID == workerID) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) ListHajariByIDs(_ context.Context, siteID int64, ids []int64) ([]core.HajariRecord, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.HajariRecord
	for _, h := range s.hajari {
		if h.SiteID == siteID && want[h.ID] {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) DeleteHajari(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.hajari)
	s.hajari = filterHajari(s.hajari, func(h core.HajariRecord) bool { return h.ID != id })
	if len(s.hajari) == before {
		return fmt.Errorf("hajari %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// --- Expenses ---

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, invalidArg(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sites[e.SiteID]; !ok {
		return 0, fmt.Errorf("site %d: %w", e.SiteID, core.ErrNotFound)
	}
	if e.WorkerID != 0 {
		if w, ok := s.workers[e.WorkerID]; !ok || w.SiteID != e.SiteID {
			return 0, fmt.Errorf("worker %d on site %d: %w", e.WorkerID, e.SiteID, core.ErrNotFound)
		}
	}
	e.ID = s.id()
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) ListExpenses(_ context.Context, siteID, workerID int64) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.SiteID == siteID && (workerID == 0 || e.WorkerID == workerID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.expenses)
	s.expenses = filterExpenses(s.expenses, func(e core.Expense) bool { return e.ID != id })
	if len(s.expenses) == before {
		return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// --- Payments ---

func (s *Store) CreatePayment(_ context.Context, p core.PaymentRecord) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, invalidArg(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sites[p.SiteID]; !ok {
		return 0, fmt.Errorf("site %d: %w", p.SiteID, core.ErrNotFound)
	}
	if w, ok := s.workers[p.WorkerID]; !ok || w.SiteID != p.SiteID {
		return 0, fmt.Errorf("worker %d on site %d: %w", p.WorkerID, p.SiteID, core.ErrNotFound)
	}
	p.ID = s.id()
	s.payments = append(s.payments, p)
	return p.ID, nil
}

func (s *Store) ListPayments(_ context.Context, siteID, workerID int64) ([]core.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.PaymentRecord
	for _, p := range s.payments {
		if p.SiteID == siteID && (workerID == 0 || p.WorkerID == workerID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) DeletePayment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.payments)
	s.payments = filterPayments(s.payments, func(p core.PaymentRecord) bool { return p.ID != id })
	if len(s.payments) == before {
		return fmt.Errorf("payment %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// --- Materials ---

func (s *Store) CreateMaterial(_ context.Context, m core.Material) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, invalidArg(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sites[m.SiteID]; !ok {
		return 0, fmt.Errorf("site %d: %w", m.SiteID, core.ErrNotFound)
	}
	m.ID = s.id()
	s.material = append(s.material, m)
	return m.ID, nil
}

func (s *Store) ListMaterials(_ context.Context, siteID int64) ([]core.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Material
	for _, m := range s.material {
		if m.SiteID == siteID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) DeleteMaterial(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.material)
	s.material = filterMaterials(s.material, func(m core.Material) bool { return m.ID != id })
	if len(s.material) == before {
		return fmt.Errorf("material %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func filterHajari(in []core.HajariRecord, keep func(core.HajariRecord) bool) []core.HajariRecord {
	out := in[:0]
	for _, h := range in {
		if keep(h) {
			out = append(out, h)
		}
	}
	return out
}

func filterExpenses(in []core.Expense, keep func(core.Expense) bool) []core.Expense {
	out := in[:0]
	for _, e := range in {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func filterPayments(in []core.PaymentRecord, keep func(core.PaymentRecord) bool) []core.PaymentRecord {
	out := in[:0]
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func filterMaterials(in []core.Material, keep func(core.Material) bool) []core.Material {
	out := in[:0]
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
