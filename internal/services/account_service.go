// Package services wires the domain operations together: credential
// handling on one side, owner-scoped bookkeeping on the other.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// AccountService handles registration, login and token resolution. It is the
// only component that touches plaintext passwords, and it never logs them.
type AccountService struct {
	store  *storage.SQLiteRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
}

func NewAccountService(store *storage.SQLiteRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService) *AccountService {
	return &AccountService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new user. core.ErrEmailTaken when the email already has
// an account.
func (s *AccountService) Register(ctx context.Context, email, password string) (core.User, error) {
	email = normalizeEmail(email)
	if err := core.ValidateCredentials(email, password); err != nil {
		return core.User{}, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, email, digest)
	if err != nil {
		return core.User{}, err
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID)
	return user, nil
}

// Authenticate verifies the credentials and issues a bearer token. A wrong
// email and a wrong password produce the same core.ErrInvalidCredentials;
// callers learn nothing about which one failed.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", core.ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return "", core.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	slog.InfoContext(ctx, "User authenticated", "user_id", user.ID)
	return token, nil
}

// Resolve verifies a bearer token and maps its subject back to the owning
// user id. Every failure matches core.ErrUnauthenticated.
func (s *AccountService) Resolve(ctx context.Context, token string) (int64, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return 0, err
	}

	user, err := s.store.UserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Token subject no longer resolves to an account.
			return 0, core.ErrUnauthenticated
		}
		return 0, fmt.Errorf("resolve token subject: %w", err)
	}

	return user.ID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
