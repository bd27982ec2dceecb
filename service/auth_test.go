package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dhowell/biblio/model"
	"github.com/dhowell/biblio/repo"
	"github.com/dhowell/biblio/session"
)

func newTestService(t *testing.T) (*Service, *session.Store) {
	t.Helper()
	r, err := repo.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	t.Cleanup(func() { r.Close() })

	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return New(r, sessions), sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Jane Doe", "jane.doe@example.com", "secret", "555-0101", model.RoleMember)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected a user id to be assigned")
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret" {
		t.Error("password should be stored hashed")
	}

	logged, err := svc.Login(ctx, "jane.doe@example.com", "secret", model.RoleMember)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.Name != "Jane Doe" {
		t.Errorf("expected name Jane Doe, got %q", logged.Name)
	}
	if !svc.IsAuthenticated() {
		t.Error("expected an authenticated session after login")
	}
}

func TestRegisterMemberCreatesLinkedRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "John Smith", "john.smith@example.com", "secret", "", model.RoleMember)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	members, err := svc.ListMembers(ctx)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected 1 member record, got %d", len(members))
	}
	if members[0].UserID == nil || *members[0].UserID != u.ID {
		t.Error("member record should link back to the directory entry")
	}
}

func TestRegisterAdminCreatesNoMemberRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Librarian", "admin@biblio.local", "admin", "", model.RoleAdmin); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	members, err := svc.ListMembers(ctx)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("expected no member records for an admin, got %d", len(members))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Jane Doe", "jane.doe@example.com", "secret", "", model.RoleMember); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	_, err := svc.Register(ctx, "Other Jane", "jane.doe@example.com", "different", "", model.RoleAdmin)
	if !errors.Is(err, repo.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLoginRoleMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Jane Doe", "jane.doe@example.com", "secret", "", model.RoleMember); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, err := svc.Login(ctx, "jane.doe@example.com", "secret", model.RoleAdmin)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for role mismatch, got %v", err)
	}
	if svc.IsAuthenticated() {
		t.Error("failed login should not establish a session")
	}
}

func TestLoginIgnoresPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Jane Doe", "jane.doe@example.com", "secret", "", model.RoleMember); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Login(ctx, "jane.doe@example.com", "totally-wrong", model.RoleMember); err != nil {
		t.Errorf("login should match on email and role only, got %v", err)
	}
}

func TestSessionPersistsAcrossRestart(t *testing.T) {
	r, err := repo.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	t.Cleanup(func() { r.Close() })

	path := filepath.Join(t.TempDir(), "session.json")
	svc := New(r, session.NewStore(path))
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Jane Doe", "jane.doe@example.com", "secret", "", model.RoleMember); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Login(ctx, "jane.doe@example.com", "secret", model.RoleMember); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	restarted := New(r, session.NewStore(path))
	u := restarted.CurrentUser()
	if u == nil {
		t.Fatal("expected session identity to survive a restart")
	}
	if u.Email != "jane.doe@example.com" {
		t.Errorf("restored wrong identity: %q", u.Email)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Jane Doe", "jane.doe@example.com", "secret", "", model.RoleMember); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Login(ctx, "jane.doe@example.com", "secret", model.RoleMember); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if svc.IsAuthenticated() {
		t.Error("expected no session after logout")
	}

	u, err := sessions.Load()
	if err != nil {
		t.Fatalf("session Load failed: %v", err)
	}
	if u != nil {
		t.Error("persisted session should be gone after logout")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "a@b.com", "x", "", model.RoleMember); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := svc.Register(ctx, "A", "not-an-email", "x", "", model.RoleMember); err == nil {
		t.Error("expected error for bad email")
	}
	if _, err := svc.Register(ctx, "A", "a@b.com", "", "", model.RoleMember); err == nil {
		t.Error("expected error for empty password")
	}
	if _, err := svc.Register(ctx, "A", "a@b.com", "x", "", model.Role("librarian")); err == nil {
		t.Error("expected error for unknown role")
	}
}
