package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"sitekhata/internal/core"
)

// Notification is the short human-readable summary sent to the
// notification facility after a successful hajari batch or payment.
type Notification struct {
	Event     string    `json:"event"`
	SiteID    int64     `json:"site_id"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBatchNotification(siteID int64, siteName string, count int, total core.Money) Notification {
	return Notification{
		Event:     "hajari_batch",
		SiteID:    siteID,
		Summary:   fmt.Sprintf("%d hajari entries recorded for %s (total %s)", count, siteName, total.FormatIndian()),
		Timestamp: time.Now(),
	}
}

func NewPaymentNotification(siteID int64, siteName, workerName string, amount core.Money, method core.PaymentMethod) Notification {
	return Notification{
		Event:     "payment",
		SiteID:    siteID,
		Summary:   fmt.Sprintf("Paid %s to %s (%s) on %s", amount.FormatIndian(), workerName, method, siteName),
		Timestamp: time.Now(),
	}
}

// ReportExportRequest asks the export worker to generate and upload one
// report. The worker fetches everything else from the record store.
type ReportExportRequest struct {
	SiteID    int64     `json:"site_id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportExportRequest(siteID int64, kind string) ReportExportRequest {
	return ReportExportRequest{SiteID: siteID, Kind: kind, Timestamp: time.Now()}
}

func (m ReportExportRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportExportRequestFromJSON(data []byte) (ReportExportRequest, error) {
	var msg ReportExportRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return ReportExportRequest{}, err
	}
	return msg, nil
}

func (n Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}
