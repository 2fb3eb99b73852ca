package services

import (
	"context"
	"log/slog"
	"strings"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// LedgerService performs the owner-scoped bookkeeping operations and emits
// ledger events for the audit worker. The events client may be nil; the
// ledger works without a broker and publish failures never fail the request.
type LedgerService struct {
	store  *storage.SQLiteRepository
	events *amqp.Client
}

func NewLedgerService(store *storage.SQLiteRepository, events *amqp.Client) *LedgerService {
	return &LedgerService{
		store:  store,
		events: events,
	}
}

func (s *LedgerService) CreateTransaction(ctx context.Context, ownerID int64, f core.TransactionFields) (core.Transaction, error) {
	f.Title = strings.TrimSpace(f.Title)
	if f.Kind == "" {
		// The original schema defaulted omitted kinds to expense.
		f.Kind = core.Expense
	}
	if err := f.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.store.CreateTransaction(ctx, ownerID, f)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, amqp.EventTransactionCreated, tx)
	return tx, nil
}

func (s *LedgerService) Transactions(ctx context.Context, ownerID int64, offset, limit int) ([]core.Transaction, error) {
	return s.store.Transactions(ctx, ownerID, offset, limit)
}

func (s *LedgerService) Transaction(ctx context.Context, ownerID, id int64) (core.Transaction, error) {
	return s.store.TransactionByID(ctx, id, ownerID)
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, ownerID, id int64, f core.TransactionFields) (core.Transaction, error) {
	f.Title = strings.TrimSpace(f.Title)
	if f.Kind == "" {
		f.Kind = core.Expense
	}
	if err := f.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.store.UpdateTransaction(ctx, id, ownerID, f)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, amqp.EventTransactionUpdated, tx)
	return tx, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, ownerID, id int64) (core.Transaction, error) {
	tx, err := s.store.DeleteTransaction(ctx, id, ownerID)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, amqp.EventTransactionDeleted, tx)
	return tx, nil
}

func (s *LedgerService) CreateCategory(ctx context.Context, ownerID int64, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}
	return s.store.CreateCategory(ctx, ownerID, name)
}

func (s *LedgerService) Categories(ctx context.Context, ownerID int64, offset, limit int) ([]core.Category, error) {
	return s.store.Categories(ctx, ownerID, offset, limit)
}

func (s *LedgerService) SpendingByCategory(ctx context.Context, ownerID int64) ([]core.CategorySpending, error) {
	return s.store.SpendingByCategory(ctx, ownerID)
}

// publish emits a ledger event. Failures are logged and swallowed: the row
// is already committed and the audit trail is best-effort.
func (s *LedgerService) publish(ctx context.Context, event string, tx core.Transaction) {
	if s.events == nil {
		return
	}

	e := amqp.NewLedgerEvent(event, tx.ID, tx.OwnerID, tx.Amount.Cents, string(tx.Kind))
	if err := s.events.PublishLedgerEvent(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"error", err,
			"event", event,
			"transaction_id", tx.ID)
	}
}

// Close closes the underlying storage and broker connections.
func (s *LedgerService) Close() error {
	var firstErr error

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			firstErr = err
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
