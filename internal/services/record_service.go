package services

import (
	"context"
	"fmt"
	"log/slog"

	"sitekhata/internal/amqp"
	"sitekhata/internal/core"
)

// Store is the slice of the record store this service mutates.
type Store interface {
	GetSite(ctx context.Context, id int64) (core.Site, error)
	CreateHajariBatch(ctx context.Context, recs []core.HajariRecord) ([]int64, error)
	CreatePayment(ctx context.Context, p core.PaymentRecord) (int64, error)
}

// Notifier delivers short summaries to the notification facility.
type Notifier interface {
	PublishNotification(ctx context.Context, n amqp.Notification) error
}

// RecordService orchestrates mutations that also notify: the write happens
// first and is authoritative, the notification is best-effort.
type RecordService struct {
	store    Store
	notifier Notifier
}

func NewRecordService(store Store, notifier Notifier) *RecordService {
	return &RecordService{store: store, notifier: notifier}
}

// SubmitHajariBatch stores one attendance submission atomically and then
// publishes a summary. A notification failure never fails the submission:
// the records are already durable.
func (s *RecordService) SubmitHajariBatch(ctx context.Context, recs []core.HajariRecord) ([]int64, error) {
	ids, err := s.store.CreateHajariBatch(ctx, recs)
	if err != nil {
		return nil, fmt.Errorf("store hajari batch: %w", err)
	}

	var total core.Money
	for _, h := range recs {
		total = total.Add(h.Amount).Add(h.Overtime)
	}

	siteName := s.siteName(ctx, recs[0].SiteID)
	s.notify(ctx, amqp.NewBatchNotification(recs[0].SiteID, siteName, len(ids), total))
	return ids, nil
}

// RecordPayment stores a payment and publishes a summary.
func (s *RecordService) RecordPayment(ctx context.Context, p core.PaymentRecord) (int64, error) {
	id, err := s.store.CreatePayment(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("store payment: %w", err)
	}

	siteName := s.siteName(ctx, p.SiteID)
	s.notify(ctx, amqp.NewPaymentNotification(p.SiteID, siteName, p.WorkerName, p.Amount, p.Method))
	return id, nil
}

func (s *RecordService) siteName(ctx context.Context, siteID int64) string {
	site, err := s.store.GetSite(ctx, siteID)
	if err != nil {
		// The write already verified the site; a read miss here only
		// degrades the notification text.
		slog.WarnContext(ctx, "Failed to resolve site name for notification", "site_id", siteID, "error", err)
		return fmt.Sprintf("site %d", siteID)
	}
	return site.Name
}

func (s *RecordService) notify(ctx context.Context, n amqp.Notification) {
	if s.notifier == nil {
		slog.WarnContext(ctx, "Notifier not available, skipping notification", "event", n.Event)
		return
	}
	if err := s.notifier.PublishNotification(ctx, n); err != nil {
		slog.ErrorContext(ctx, "Failed to publish notification",
			"event", n.Event, "site_id", n.SiteID, "error", err)
	}
}
