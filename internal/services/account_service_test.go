package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAccountService(t *testing.T, ttl time.Duration) (*AccountService, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	svc := NewAccountService(repo,
		auth.NewPasswordHasher(bcrypt.MinCost),
		auth.NewTokenService(testSecret, ttl))
	return svc, repo
}

func TestRegisterAndAuthenticateRoundTrip(t *testing.T) {
	svc, _ := newAccountService(t, 30*time.Minute)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice@Example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.HashedPassword == "hunter2hunter2" {
		t.Fatalf("password stored in plaintext")
	}

	token, err := svc.Authenticate(ctx, "alice@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	ownerID, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ownerID != user.ID {
		t.Fatalf("resolved owner = %d, want %d", ownerID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAccountService(t, 30*time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, "alice@example.com", "otherpassword")
	if !errors.Is(err, core.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _ := newAccountService(t, 30*time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "hunter2hunter2"); err == nil {
		t.Fatalf("expected error for invalid email")
	}
	if _, err := svc.Register(ctx, "alice@example.com", "short"); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	svc, _ := newAccountService(t, 30*time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := svc.Authenticate(ctx, "alice@example.com", "wrong-password")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@example.com", "hunter2hunter2")

	if !errors.Is(wrongPassword, core.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, core.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	// The two failures must be indistinguishable.
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("login failures reveal which input was wrong: %q vs %q",
			wrongPassword.Error(), unknownEmail.Error())
	}
}

func TestResolveExpiredToken(t *testing.T) {
	svc, _ := newAccountService(t, -time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := svc.Authenticate(ctx, "alice@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	_, err = svc.Resolve(ctx, token)
	if !errors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expired token should match ErrUnauthenticated")
	}
}

func TestResolveUnknownSubject(t *testing.T) {
	svc, _ := newAccountService(t, 30*time.Minute)

	// A validly signed token whose subject has no account.
	tokens := auth.NewTokenService(testSecret, 30*time.Minute)
	token, err := tokens.Issue("ghost@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.Resolve(context.Background(), token)
	if !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveGarbageToken(t *testing.T) {
	svc, _ := newAccountService(t, 30*time.Minute)

	_, err := svc.Resolve(context.Background(), "not-a-token")
	if !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
