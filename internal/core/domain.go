package core

import (
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind distinguishes money coming in from money going out.
	Kind string

	User struct {
		ID             int64
		Email          string
		HashedPassword string
		CreatedAt      time.Time
	}

	Category struct {
		ID        int64
		Name      string
		OwnerID   int64
		CreatedAt time.Time
	}

	Transaction struct {
		ID         int64
		Title      string
		Amount     Money
		Kind       Kind
		CategoryID int64
		OwnerID    int64
		CreatedAt  time.Time
	}

	// TransactionFields carries the caller-supplied mutable fields of a
	// transaction. The owner is never part of it; repositories stamp the
	// owner from the authenticated identity.
	TransactionFields struct {
		Title      string
		Amount     Money
		Kind       Kind
		CategoryID int64
	}
)

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (f TransactionFields) Validate() error {
	if len(strings.TrimSpace(f.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(f.Title) > 200 {
		return ErrTitleTooLong
	}
	if err := f.Amount.Validate(); err != nil {
		return err
	}
	if err := f.Kind.Validate(); err != nil {
		return err
	}
	if f.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	return nil
}

// ValidateCategoryName checks a category display name before it is stored.
func ValidateCategoryName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}

// ValidateCredentials checks registration input. It deliberately stays
// permissive on email shape beyond the presence of an @: the unique index is
// the real gatekeeper.
func ValidateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if len(email) > 320 {
		return ErrInvalidEmail
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}
