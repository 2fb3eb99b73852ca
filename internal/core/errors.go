package core

import "errors"

// Sentinel errors shared across storage, services and transport. Handlers map
// these to status codes with errors.Is so wrapped variants still match.
var (
	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login failure. It never reveals
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated covers every bearer-token failure. Expired,
	// malformed and badly signed tokens all collapse into it at the API
	// boundary.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound is returned both for rows that do not exist and for rows
	// owned by someone else. The two cases must stay indistinguishable.
	ErrNotFound = errors.New("not found")
)

// Validation errors.
var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("kind must be income or expense")
	ErrEmptyTitle       = errors.New("empty title")
	ErrTitleTooLong     = errors.New("title too long (max 200 characters)")
	ErrEmptyName        = errors.New("empty category name")
	ErrNameTooLong      = errors.New("category name too long (max 100 characters)")
	ErrInvalidCategory  = errors.New("invalid category id")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password too short (min 8 characters)")
)
