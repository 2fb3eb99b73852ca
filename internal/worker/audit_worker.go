package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// AuditWorker consumes ledger events and appends them to the audit log.
// The log is append-only; a requeued redelivery after a crash can produce a
// duplicate row, which is acceptable for an audit trail.
type AuditWorker struct {
	storage *storage.SQLiteRepository
}

func NewAuditWorker(storage *storage.SQLiteRepository) *AuditWorker {
	return &AuditWorker{storage: storage}
}

// HandleLedgerEvent records a single ledger event.
func (w *AuditWorker) HandleLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"event", event.Event,
		"transaction_id", event.TransactionID,
		"owner_id", event.OwnerID)

	entry := storage.AuditEntry{
		Event:         event.Event,
		TransactionID: event.TransactionID,
		OwnerID:       event.OwnerID,
		Amount:        core.Money{Cents: event.AmountCents},
		Kind:          core.Kind(event.Kind),
		OccurredAt:    event.Timestamp,
	}

	if err := w.storage.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	return nil
}

// Run consumes events from the queue until the context is cancelled.
func (w *AuditWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeLedgerEvents(ctx, func(event *amqp.LedgerEvent) error {
		return w.HandleLedgerEvent(ctx, event)
	})
}
