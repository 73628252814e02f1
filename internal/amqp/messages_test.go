package amqp

import (
	"strings"
	"testing"
	"time"

	"sitekhata/internal/core"
)

func TestNewBatchNotification(t *testing.T) {
	n := NewBatchNotification(7, "Site A", 12, core.Money{Paise: 600000})

	if n.Event != "hajari_batch" {
		t.Errorf("Event = %q", n.Event)
	}
	if n.SiteID != 7 {
		t.Errorf("SiteID = %d, want 7", n.SiteID)
	}
	if !strings.Contains(n.Summary, "12 hajari entries") || !strings.Contains(n.Summary, "6,000") {
		t.Errorf("Summary = %q", n.Summary)
	}
	if n.Timestamp.IsZero() || time.Since(n.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestNewPaymentNotification(t *testing.T) {
	n := NewPaymentNotification(3, "Site A", "Ramesh", core.Money{Paise: 350000}, core.UPI)

	if n.Event != "payment" {
		t.Errorf("Event = %q", n.Event)
	}
	if !strings.Contains(n.Summary, "3,500") || !strings.Contains(n.Summary, "Ramesh") || !strings.Contains(n.Summary, "upi") {
		t.Errorf("Summary = %q", n.Summary)
	}
}

func TestReportExportRequest_JSON(t *testing.T) {
	timestamp := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	msg := ReportExportRequest{SiteID: 42, Kind: "budget", Timestamp: timestamp}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := ReportExportRequestFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ReportExportRequestFromJSON() error = %v", err)
	}

	if parsed.SiteID != msg.SiteID {
		t.Errorf("Parsed SiteID = %v, want %v", parsed.SiteID, msg.SiteID)
	}
	if parsed.Kind != msg.Kind {
		t.Errorf("Parsed Kind = %v, want %v", parsed.Kind, msg.Kind)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestReportExportRequest_InvalidJSON(t *testing.T) {
	if _, err := ReportExportRequestFromJSON([]byte(`{"site_id": "nope"}`)); err == nil {
		t.Error("ReportExportRequestFromJSON() should fail with invalid JSON")
	}
}
