package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Karigar WorkerCategory = "karigar"
	Mazdoor WorkerCategory = "mazdoor"
)

const (
	Cash PaymentMethod = "cash"
	UPI  PaymentMethod = "upi"
	Bank PaymentMethod = "bank"
)

type (
	WorkerCategory string

	PaymentMethod string

	Money struct {
		Paise int64
	}

	Site struct {
		ID        int64
		Name      string
		Location  string
		SiteCode  string // optional human-readable code
		IsRunning bool
		CreatedAt time.Time
	}

	Worker struct {
		ID       int64
		SiteID   int64 // immutable after creation
		Name     string
		Category WorkerCategory
		Age      int
		Contact  string
		Village  string
		PhotoURI string // opaque reference, never interpreted here
	}

	// HajariRecord is a daily attendance/pay entry. WorkerName and
	// WorkerCategory are snapshots taken at entry time so historical
	// records survive worker edits and deletion.
	HajariRecord struct {
		ID             int64
		SiteID         int64
		WorkerID       int64
		WorkerName     string
		WorkerCategory WorkerCategory
		Amount         Money
		Overtime       Money
		Date           string // calendar date as entered, passed through
		Time           string // clock string as entered, passed through
	}

	Expense struct {
		ID          int64
		SiteID      int64
		WorkerID    int64 // 0 when the expense is site-level
		Amount      Money
		Description string
		Date        string
	}

	// PaymentRecord carries the same name/category snapshot as HajariRecord.
	PaymentRecord struct {
		ID             int64
		SiteID         int64
		WorkerID       int64
		WorkerName     string
		WorkerCategory WorkerCategory
		Amount         Money
		Date           string
		Time           string
		Method         PaymentMethod
	}

	Material struct {
		ID       int64
		SiteID   int64
		Name     string
		Quantity float64
		Unit     string
		Cost     Money
		Date     string
	}
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrStorageFailure  = errors.New("storage failure")
	ErrNoData          = errors.New("no data")

	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyDate       = errors.New("empty date")
	ErrInvalidCategory = errors.New("invalid worker category")
	ErrInvalidMethod   = errors.New("invalid payment method")
)

func (c WorkerCategory) Valid() bool {
	return c == Karigar || c == Mazdoor
}

func (m PaymentMethod) Valid() bool {
	return m == Cash || m == UPI || m == Bank
}

func (s Site) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (w Worker) Validate() error {
	if w.SiteID <= 0 {
		return errors.New("worker must belong to a site")
	}
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if !w.Category.Valid() {
		return ErrInvalidCategory
	}
	if w.Age < 0 {
		return errors.New("negative age")
	}
	return nil
}

func (h HajariRecord) Validate() error {
	if h.SiteID <= 0 || h.WorkerID <= 0 {
		return errors.New("hajari must reference a site and a worker")
	}
	if strings.TrimSpace(h.WorkerName) == "" {
		return ErrEmptyName
	}
	if !h.WorkerCategory.Valid() {
		return ErrInvalidCategory
	}
	if h.Amount.Paise < 0 || h.Overtime.Paise < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(h.Date) == "" {
		return ErrEmptyDate
	}
	return nil
}

func (e Expense) Validate() error {
	if e.SiteID <= 0 {
		return errors.New("expense must belong to a site")
	}
	if e.Amount.Paise < 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return errors.New("empty description")
	}
	if strings.TrimSpace(e.Date) == "" {
		return ErrEmptyDate
	}
	return nil
}

func (p PaymentRecord) Validate() error {
	if p.SiteID <= 0 || p.WorkerID <= 0 {
		return errors.New("payment must reference a site and a worker")
	}
	if strings.TrimSpace(p.WorkerName) == "" {
		return ErrEmptyName
	}
	if !p.WorkerCategory.Valid() {
		return ErrInvalidCategory
	}
	// A zero payment is meaningless, so payments are strictly positive.
	if p.Amount.Paise <= 0 {
		return ErrInvalidAmount
	}
	if !p.Method.Valid() {
		return ErrInvalidMethod
	}
	if strings.TrimSpace(p.Date) == "" {
		return ErrEmptyDate
	}
	return nil
}

func (m Material) Validate() error {
	if m.SiteID <= 0 {
		return errors.New("material must belong to a site")
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if m.Quantity < 0 {
		return errors.New("negative quantity")
	}
	if m.Cost.Paise < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(m.Date) == "" {
		return ErrEmptyDate
	}
	return nil
}
