package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustUser(t *testing.T, repo *SQLiteRepository, email string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), email, "$2a$10$fakefakefakefakefakefake")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func mustCategory(t *testing.T, repo *SQLiteRepository, ownerID int64, name string) core.Category {
	t.Helper()
	c, err := repo.CreateCategory(context.Background(), ownerID, name)
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func mustTransaction(t *testing.T, repo *SQLiteRepository, ownerID int64, f core.TransactionFields) core.Transaction {
	t.Helper()
	tx, err := repo.CreateTransaction(context.Background(), ownerID, f)
	if err != nil {
		t.Fatalf("create transaction %q: %v", f.Title, err)
	}
	return tx
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := mustUser(t, repo, "alice@example.com")

	_, err := repo.CreateUser(ctx, "alice@example.com", "another-hash")
	if !errors.Is(err, core.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// The original row must be untouched.
	u, err := repo.UserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("lookup after duplicate: %v", err)
	}
	if u.ID != first.ID || u.HashedPassword != first.HashedPassword {
		t.Fatalf("duplicate registration modified the existing row")
	}
}

func TestUserByEmailNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.UserByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustUser(t, repo, "alice@example.com")
	bob := mustUser(t, repo, "bob@example.com")

	cat := mustCategory(t, repo, alice.ID, "Groceries")
	tx := mustTransaction(t, repo, alice.ID, core.TransactionFields{
		Title: "Milk", Amount: core.Money{Cents: 250}, Kind: core.Expense, CategoryID: cat.ID,
	})

	// Bob must not see, update or delete Alice's rows; the outcome is the
	// same as if they did not exist.
	if _, err := repo.TransactionByID(ctx, tx.ID, bob.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-user read: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.CategoryByID(ctx, cat.ID, bob.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-user category read: expected ErrNotFound, got %v", err)
	}

	bobCat := mustCategory(t, repo, bob.ID, "Groceries")
	_, err := repo.UpdateTransaction(ctx, tx.ID, bob.ID, core.TransactionFields{
		Title: "Hijacked", Amount: core.Money{Cents: 1}, Kind: core.Expense, CategoryID: bobCat.ID,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-user update: expected ErrNotFound, got %v", err)
	}

	if _, err := repo.DeleteTransaction(ctx, tx.ID, bob.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-user delete: expected ErrNotFound, got %v", err)
	}

	// Alice's row must be intact after the failed attempts.
	got, err := repo.TransactionByID(ctx, tx.ID, alice.ID)
	if err != nil {
		t.Fatalf("owner read after cross-user attempts: %v", err)
	}
	if got.Title != "Milk" || got.Amount.Cents != 250 {
		t.Fatalf("row was modified by a foreign owner: %+v", got)
	}

	// Bob's listings stay empty.
	txs, err := repo.Transactions(ctx, bob.ID, 0, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected empty listing for bob, got %d rows", len(txs))
	}
}

func TestCreateTransactionForeignCategory(t *testing.T) {
	repo := newTestRepo(t)

	alice := mustUser(t, repo, "alice@example.com")
	bob := mustUser(t, repo, "bob@example.com")
	bobCat := mustCategory(t, repo, bob.ID, "Secret")

	_, err := repo.CreateTransaction(context.Background(), alice.ID, core.TransactionFields{
		Title: "Sneaky", Amount: core.Money{Cents: 100}, Kind: core.Expense, CategoryID: bobCat.ID,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("foreign category: expected ErrNotFound, got %v", err)
	}

	_, err = repo.CreateTransaction(context.Background(), alice.ID, core.TransactionFields{
		Title: "Nowhere", Amount: core.Money{Cents: 100}, Kind: core.Expense, CategoryID: 9999,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown category: expected ErrNotFound, got %v", err)
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustUser(t, repo, "alice@example.com")
	cat := mustCategory(t, repo, alice.ID, "Coffee & Snacks")

	created := mustTransaction(t, repo, alice.ID, core.TransactionFields{
		Title: "Coffee", Amount: core.Money{Cents: 450}, Kind: core.Expense, CategoryID: cat.ID,
	})

	got, err := repo.TransactionByID(ctx, created.ID, alice.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Coffee" || got.Amount.Cents != 450 || got.Kind != core.Expense ||
		got.CategoryID != cat.ID || got.OwnerID != alice.ID {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	updated, err := repo.UpdateTransaction(ctx, created.ID, alice.ID, core.TransactionFields{
		Title: "Coffee", Amount: core.Money{Cents: 999}, Kind: core.Expense, CategoryID: cat.ID,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 999 {
		t.Fatalf("update amount = %d, want 999", updated.Amount.Cents)
	}
	if updated.Title != "Coffee" || updated.Kind != core.Expense || updated.CategoryID != cat.ID {
		t.Fatalf("update changed unrelated fields: %+v", updated)
	}

	after, err := repo.TransactionByID(ctx, created.ID, alice.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if after.Amount.Cents != 999 {
		t.Fatalf("persisted amount = %d, want 999", after.Amount.Cents)
	}

	deleted, err := repo.DeleteTransaction(ctx, created.ID, alice.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != created.ID || deleted.Amount.Cents != 999 {
		t.Fatalf("delete snapshot mismatch: %+v", deleted)
	}

	if _, err := repo.TransactionByID(ctx, created.ID, alice.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get after delete: expected ErrNotFound, got %v", err)
	}
}

func TestTransactionPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustUser(t, repo, "alice@example.com")
	cat := mustCategory(t, repo, alice.ID, "Misc")

	for i := 0; i < 150; i++ {
		mustTransaction(t, repo, alice.ID, core.TransactionFields{
			Title:      "tx-" + strconv.Itoa(i),
			Amount:     core.Money{Cents: int64(i + 1)},
			Kind:       core.Expense,
			CategoryID: cat.ID,
		})
	}

	first, err := repo.Transactions(ctx, alice.ID, 0, 100)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	second, err := repo.Transactions(ctx, alice.ID, 100, 100)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}

	if len(first) != 100 {
		t.Fatalf("first page size = %d, want 100", len(first))
	}
	if len(second) != 50 {
		t.Fatalf("second page size = %d, want 50", len(second))
	}

	seen := make(map[int64]bool, 100)
	for _, tx := range first {
		seen[tx.ID] = true
	}
	for _, tx := range second {
		if seen[tx.ID] {
			t.Fatalf("pages overlap at id %d", tx.ID)
		}
	}

	// Insertion order: ids strictly ascending across both pages.
	prev := int64(0)
	for _, tx := range append(first, second...) {
		if tx.ID <= prev {
			t.Fatalf("ids not ascending: %d after %d", tx.ID, prev)
		}
		prev = tx.ID
	}
}

func TestSpendingByCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustUser(t, repo, "alice@example.com")
	bob := mustUser(t, repo, "bob@example.com")

	groceries := mustCategory(t, repo, alice.ID, "Groceries")
	travel := mustCategory(t, repo, alice.ID, "Travel")
	mustCategory(t, repo, alice.ID, "Unused") // no expenses: must not appear

	mustTransaction(t, repo, alice.ID, core.TransactionFields{
		Title: "Milk", Amount: core.Money{Cents: 250}, Kind: core.Expense, CategoryID: groceries.ID,
	})
	mustTransaction(t, repo, alice.ID, core.TransactionFields{
		Title: "Bread", Amount: core.Money{Cents: 150}, Kind: core.Expense, CategoryID: groceries.ID,
	})
	mustTransaction(t, repo, alice.ID, core.TransactionFields{
		Title: "Train", Amount: core.Money{Cents: 2000}, Kind: core.Expense, CategoryID: travel.ID,
	})
	// Income is excluded from the report.
	mustTransaction(t, repo, alice.ID, core.TransactionFields{
		Title: "Refund", Amount: core.Money{Cents: 5000}, Kind: core.Income, CategoryID: groceries.ID,
	})

	// Another user's spending must not bleed into Alice's report.
	bobCat := mustCategory(t, repo, bob.ID, "Groceries")
	mustTransaction(t, repo, bob.ID, core.TransactionFields{
		Title: "Cheese", Amount: core.Money{Cents: 999}, Kind: core.Expense, CategoryID: bobCat.ID,
	})

	report, err := repo.SpendingByCategory(ctx, alice.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if len(report) != 2 {
		t.Fatalf("report rows = %d, want 2 (%+v)", len(report), report)
	}
	// Name ascending: Groceries before Travel.
	if report[0].Name != "Groceries" || report[0].Total.Cents != 400 {
		t.Fatalf("row 0 = %+v, want Groceries 400", report[0])
	}
	if report[1].Name != "Travel" || report[1].Total.Cents != 2000 {
		t.Fatalf("row 1 = %+v, want Travel 2000", report[1])
	}
}

func TestSpendingByCategoryEmpty(t *testing.T) {
	repo := newTestRepo(t)

	alice := mustUser(t, repo, "alice@example.com")
	mustCategory(t, repo, alice.ID, "Groceries")

	report, err := repo.SpendingByCategory(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestCategoriesPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustUser(t, repo, "alice@example.com")
	for i := 0; i < 5; i++ {
		mustCategory(t, repo, alice.ID, "cat-"+strconv.Itoa(i))
	}

	page, err := repo.Categories(ctx, alice.ID, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if page[0].Name != "cat-2" || page[1].Name != "cat-3" {
		t.Fatalf("unexpected page contents: %+v", page)
	}
}

func TestAuditAppendAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := mustUser(t, repo, "alice@example.com")
	cat := mustCategory(t, repo, alice.ID, "Misc")
	tx := mustTransaction(t, repo, alice.ID, core.TransactionFields{
		Title: "Milk", Amount: core.Money{Cents: 250}, Kind: core.Expense, CategoryID: cat.ID,
	})

	entry := AuditEntry{
		Event:         "transaction.created",
		TransactionID: tx.ID,
		OwnerID:       alice.ID,
		Amount:        tx.Amount,
		Kind:          tx.Kind,
		OccurredAt:    tx.CreatedAt,
	}
	if err := repo.AppendAudit(ctx, entry); err != nil {
		t.Fatalf("append audit: %v", err)
	}

	entries, err := repo.AuditByOwner(ctx, alice.ID, 10)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.Event != "transaction.created" || got.TransactionID != tx.ID ||
		got.Amount.Cents != 250 || got.Kind != core.Expense {
		t.Fatalf("audit entry mismatch: %+v", got)
	}
}
