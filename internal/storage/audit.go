package storage

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// AuditEntry is one row of the append-only ledger event log written by the
// audit worker.
type AuditEntry struct {
	ID            int64
	Event         string
	TransactionID int64
	OwnerID       int64
	Amount        core.Money
	Kind          core.Kind
	OccurredAt    time.Time
}

// AppendAudit records a ledger event.
func (r *SQLiteRepository) AppendAudit(ctx context.Context, e AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (event, transaction_id, owner_id, amount_cents, kind, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Event, e.TransactionID, e.OwnerID, e.Amount.Cents, string(e.Kind), e.OccurredAt.UTC())
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// AuditByOwner returns the newest audit entries for an owner, newest first.
func (r *SQLiteRepository) AuditByOwner(ctx context.Context, ownerID int64, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event, transaction_id, owner_id, amount_cents, kind, occurred_at
		 FROM audit_log WHERE owner_id = ? ORDER BY id DESC LIMIT ?`,
		ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("select audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var (
			e    AuditEntry
			kind string
		)
		if err := rows.Scan(&e.ID, &e.Event, &e.TransactionID, &e.OwnerID, &e.Amount.Cents, &kind, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Kind = core.Kind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
