package core

import (
	"errors"
	"testing"
)

func validHajari() HajariRecord {
	return HajariRecord{
		SiteID:         1,
		WorkerID:       2,
		WorkerName:     "Ramesh",
		WorkerCategory: Karigar,
		Amount:         Money{Paise: 50000},
		Date:           "5 Mar 2025",
		Time:           "08:30",
	}
}

func TestHajariRecordValidate(t *testing.T) {
	if err := validHajari().Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	h := validHajari()
	h.Amount = Money{Paise: -1}
	if err := h.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: got %v, want ErrInvalidAmount", err)
	}

	h = validHajari()
	h.Overtime = Money{Paise: -1}
	if err := h.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative overtime: got %v, want ErrInvalidAmount", err)
	}

	h = validHajari()
	h.WorkerCategory = "contractor"
	if err := h.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("bad category: got %v, want ErrInvalidCategory", err)
	}

	h = validHajari()
	h.Date = " "
	if err := h.Validate(); !errors.Is(err, ErrEmptyDate) {
		t.Errorf("empty date: got %v, want ErrEmptyDate", err)
	}
}

func TestPaymentRecordValidate(t *testing.T) {
	p := PaymentRecord{
		SiteID:         1,
		WorkerID:       2,
		WorkerName:     "Ramesh",
		WorkerCategory: Mazdoor,
		Amount:         Money{Paise: 60000},
		Date:           "5 Mar 2025",
		Time:           "18:00",
		Method:         UPI,
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("valid payment rejected: %v", err)
	}

	p.Amount = Money{Paise: 0}
	if err := p.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero payment: got %v, want ErrInvalidAmount", err)
	}

	p.Amount = Money{Paise: 60000}
	p.Method = "cheque"
	if err := p.Validate(); !errors.Is(err, ErrInvalidMethod) {
		t.Errorf("bad method: got %v, want ErrInvalidMethod", err)
	}
}

func TestWorkerValidate(t *testing.T) {
	w := Worker{SiteID: 1, Name: "Suresh", Category: Mazdoor, Age: 32}
	if err := w.Validate(); err != nil {
		t.Fatalf("valid worker rejected: %v", err)
	}

	w.Name = ""
	if err := w.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name: got %v, want ErrEmptyName", err)
	}

	w.Name = "Suresh"
	w.SiteID = 0
	if err := w.Validate(); err == nil {
		t.Error("worker without site accepted")
	}
}

func TestExpenseValidate(t *testing.T) {
	e := Expense{SiteID: 1, Amount: Money{Paise: 20000}, Description: "cement bags", Date: "5 Mar 2025"}
	if err := e.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	e.Amount = Money{Paise: -100}
	if err := e.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative expense: got %v, want ErrInvalidAmount", err)
	}
}

func TestSiteValidate(t *testing.T) {
	if err := (Site{Name: "Riverside"}).Validate(); err != nil {
		t.Fatalf("valid site rejected: %v", err)
	}
	if err := (Site{Name: "  "}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Error("blank site name accepted")
	}
}
