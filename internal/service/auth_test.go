package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/manaworks/jobportal/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore("") // in-memory
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestAuth(t *testing.T, st *store.Store) *AuthService {
	t.Helper()
	auth, err := NewAuthService(st, NewSessionRegistry(time.Hour), AuthConfig{
		Username: "admin",
		Password: "admin123",
	}, nil)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return auth
}

func TestLoginProvisionsAdmin(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	if _, err := st.GetAdminByUsername(ctx, "admin"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("admin should not exist before first login, got %v", err)
	}

	session, admin, err := auth.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if admin.Email != "admin@manaworks.online" {
		t.Errorf("got email %q", admin.Email)
	}
	if !VerifyPassword("admin123", admin.PasswordHash) {
		t.Error("stored hash should verify the configured password")
	}
	if session.AdminID != admin.ID {
		t.Errorf("session admin %d, want %d", session.AdminID, admin.ID)
	}

	// Second login reuses the record.
	_, again, err := auth.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if again.ID != admin.ID {
		t.Errorf("second login admin %d, want %d", again.ID, admin.ID)
	}
	admins, _ := st.ListAdmins(ctx)
	if len(admins) != 1 {
		t.Errorf("got %d admins, want 1", len(admins))
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	ctx := context.Background()

	cases := []struct{ user, pass string }{
		{"admin", "wrong"},
		{"root", "admin123"},
		{"", ""},
		{"Admin", "admin123"},
	}
	for _, c := range cases {
		if _, _, err := auth.Login(ctx, c.user, c.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) = %v, want ErrInvalidCredentials", c.user, c.pass, err)
		}
	}

	// Failed attempts never lock the account.
	if _, _, err := auth.Login(ctx, "admin", "admin123"); err != nil {
		t.Errorf("Login after failures: %v", err)
	}

	// Rejected logins must not provision anything.
	admins, _ := st.ListAdmins(ctx)
	if len(admins) != 1 {
		t.Errorf("got %d admins, want 1", len(admins))
	}
}

func TestLoginWithConfiguredHash(t *testing.T) {
	st := newTestStore(t)
	hash, _ := HashPassword("s3cret")
	auth, err := NewAuthService(st, NewSessionRegistry(0), AuthConfig{
		Username:     "ops",
		PasswordHash: hash,
		EmailDomain:  "example.com",
	}, nil)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	_, admin, err := auth.Login(context.Background(), "ops", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if admin.Email != "ops@example.com" {
		t.Errorf("got email %q", admin.Email)
	}
	if admin.PasswordHash != hash {
		t.Error("configured hash should be stored as-is")
	}
}

func TestNewAuthServiceValidation(t *testing.T) {
	st := newTestStore(t)
	if _, err := NewAuthService(st, NewSessionRegistry(0), AuthConfig{Password: "x"}, nil); err == nil {
		t.Error("expected error for missing username")
	}
	if _, err := NewAuthService(st, NewSessionRegistry(0), AuthConfig{Username: "admin"}, nil); err == nil {
		t.Error("expected error for missing password")
	}
}

func TestVerifyAndLogout(t *testing.T) {
	st := newTestStore(t)
	auth := newTestAuth(t, st)
	clock := newFakeClock()
	auth.Sessions().SetClock(clock.Now)

	session, admin, err := auth.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	id, err := auth.Verify(session.Token)
	if err != nil || id != admin.ID {
		t.Fatalf("Verify = (%d, %v), want (%d, nil)", id, err, admin.ID)
	}

	auth.Logout(session.Token)
	if _, err := auth.Verify(session.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify after logout = %v, want ErrInvalidToken", err)
	}
	auth.Logout(session.Token) // idempotent

	session2, _, _ := auth.Login(context.Background(), "admin", "admin123")
	clock.Advance(time.Hour)
	if _, err := auth.Verify(session2.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify after expiry = %v, want ErrInvalidToken", err)
	}

	if _, err := auth.Verify(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(\"\") = %v, want ErrInvalidToken", err)
	}
}
