package http

import (
	"context"

	"fintrack/internal/core"
)

// AccountDirectory is the credential side of the API: registration, login
// and bearer-token resolution.
type AccountDirectory interface {
	Register(ctx context.Context, email, password string) (core.User, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
}

// Ledger is the owner-scoped bookkeeping surface. Every method takes the
// resolved owner id explicitly; there is no ambient identity.
type Ledger interface {
	CreateTransaction(ctx context.Context, ownerID int64, f core.TransactionFields) (core.Transaction, error)
	Transactions(ctx context.Context, ownerID int64, offset, limit int) ([]core.Transaction, error)
	Transaction(ctx context.Context, ownerID, id int64) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, ownerID, id int64, f core.TransactionFields) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id int64) (core.Transaction, error)

	CreateCategory(ctx context.Context, ownerID int64, name string) (core.Category, error)
	Categories(ctx context.Context, ownerID int64, offset, limit int) ([]core.Category, error)

	SpendingByCategory(ctx context.Context, ownerID int64) ([]core.CategorySpending, error)
}
