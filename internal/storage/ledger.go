package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
)

// CreateCategory inserts a category stamped with the given owner.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, ownerID int64, name string) (core.Category, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, owner_id, created_at) VALUES (?, ?, ?)`,
		name, ownerID, now)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "category_id", id, "user_id", ownerID)

	return core.Category{ID: id, Name: name, OwnerID: ownerID, CreatedAt: now}, nil
}

// Categories lists the owner's categories ordered by id ascending
// (insertion order), paginated by offset and limit.
func (r *SQLiteRepository) Categories(ctx context.Context, ownerID int64, offset, limit int) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, owner_id, created_at FROM categories
		 WHERE owner_id = ? ORDER BY id ASC LIMIT ? OFFSET ?`,
		ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// CategoryByID resolves a category by (id, owner).
func (r *SQLiteRepository) CategoryByID(ctx context.Context, id, ownerID int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, created_at FROM categories
		 WHERE id = ? AND owner_id = ?`,
		id, ownerID).Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("select category: %w", err)
	}
	return c, nil
}

// CreateTransaction inserts a transaction for the owner. The referenced
// category must belong to the same owner; the check and the insert share one
// database transaction so the ownership check is never stale.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, ownerID int64, f core.TransactionFields) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := categoryOwned(ctx, tx, f.CategoryID, ownerID); err != nil {
		return core.Transaction{}, err
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (title, amount_cents, kind, category_id, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.Title, f.Amount.Cents, string(f.Kind), f.CategoryID, ownerID, now)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", id,
		"user_id", ownerID,
		"kind", string(f.Kind),
		"amount_cents", f.Amount.Cents)

	return core.Transaction{
		ID:         id,
		Title:      f.Title,
		Amount:     f.Amount,
		Kind:       f.Kind,
		CategoryID: f.CategoryID,
		OwnerID:    ownerID,
		CreatedAt:  now,
	}, nil
}

// Transactions lists the owner's transactions ordered by id ascending
// (insertion order), paginated by offset and limit.
func (r *SQLiteRepository) Transactions(ctx context.Context, ownerID int64, offset, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount_cents, kind, category_id, owner_id, created_at
		 FROM transactions WHERE owner_id = ? ORDER BY id ASC LIMIT ? OFFSET ?`,
		ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// TransactionByID resolves a transaction by (id, owner).
func (r *SQLiteRepository) TransactionByID(ctx context.Context, id, ownerID int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, amount_cents, kind, category_id, owner_id, created_at
		 FROM transactions WHERE id = ? AND owner_id = ?`,
		id, ownerID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// UpdateTransaction replaces all mutable fields of the transaction matching
// (id, owner) and returns the updated row. Partial updates are not supported.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id, ownerID int64, f core.TransactionFields) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := categoryOwned(ctx, tx, f.CategoryID, ownerID); err != nil {
		return core.Transaction{}, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE transactions SET title = ?, amount_cents = ?, kind = ?, category_id = ?
		 WHERE id = ? AND owner_id = ?`,
		f.Title, f.Amount.Cents, string(f.Kind), f.CategoryID, id, ownerID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction rows: %w", err)
	}
	if affected == 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	row := tx.QueryRowContext(ctx,
		`SELECT id, title, amount_cents, kind, category_id, owner_id, created_at
		 FROM transactions WHERE id = ? AND owner_id = ?`,
		id, ownerID)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "transaction_id", id, "user_id", ownerID)

	return t, nil
}

// DeleteTransaction removes the transaction matching (id, owner) and returns
// a snapshot of the deleted row so callers can confirm what was removed.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id, ownerID int64) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, title, amount_cents, kind, category_id, owner_id, created_at
		 FROM transactions WHERE id = ? AND owner_id = ?`,
		id, ownerID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return core.Transaction{}, fmt.Errorf("delete transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id, "user_id", ownerID)

	return t, nil
}

// SpendingByCategory sums the owner's expense amounts per category. Inner
// join: categories with no expense rows are absent from the result. Output
// is ordered by category name ascending.
func (r *SQLiteRepository) SpendingByCategory(ctx context.Context, ownerID int64) ([]core.CategorySpending, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.name, SUM(t.amount_cents) AS total_cents
		 FROM categories c
		 INNER JOIN transactions t ON t.category_id = c.id
		 WHERE t.owner_id = ? AND t.kind = 'expense'
		 GROUP BY c.name
		 ORDER BY c.name ASC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("select spending by category: %w", err)
	}
	defer rows.Close()

	var report []core.CategorySpending
	for rows.Next() {
		var row core.CategorySpending
		if err := rows.Scan(&row.Name, &row.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan spending row: %w", err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spending rows: %w", err)
	}
	return report, nil
}

// categoryOwned verifies inside the caller's database transaction that the
// category exists and belongs to the owner.
func categoryOwned(ctx context.Context, tx *sql.Tx, categoryID, ownerID int64) error {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM categories WHERE id = ? AND owner_id = ?`,
		categoryID, ownerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check category owner: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t    core.Transaction
		kind string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Amount.Cents, &kind, &t.CategoryID, &t.OwnerID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Kind = core.Kind(kind)
	return t, nil
}
