package domain

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func TestUser_SetPassword_HashesAndClearsConfirm(t *testing.T) {
	u := &User{Name: "Alice", Email: "alice@example.com"}
	if err := u.SetPassword("pass1234", "pass1234", true); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	if u.Password == "pass1234" {
		t.Fatal("password stored in plaintext")
	}
	if u.PasswordConfirm != "" {
		t.Fatal("passwordConfirm not cleared")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !u.PasswordChangedAt.IsZero() {
		t.Fatal("changed-at stamped on a new account")
	}
}

func TestUser_SetPassword_ConfirmMismatch(t *testing.T) {
	u := &User{Name: "Alice", Email: "alice@example.com"}
	if err := u.SetPassword("pass1234", "different", true); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestUser_SetPassword_TooShort(t *testing.T) {
	u := &User{Name: "Alice", Email: "alice@example.com"}
	if err := u.SetPassword("short", "short", true); err == nil {
		t.Fatal("expected validation error for password below 8 characters")
	}
}

func TestUser_SetPassword_BackdatesChangeStamp(t *testing.T) {
	u := &User{Name: "Alice", Email: "alice@example.com"}
	before := time.Now()
	if err := u.SetPassword("newpass123", "newpass123", false); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	if u.PasswordChangedAt.IsZero() {
		t.Fatal("changed-at not stamped on an existing account")
	}
	if !u.PasswordChangedAt.Before(before) {
		t.Fatalf("changed-at %v not backdated before %v", u.PasswordChangedAt, before)
	}
}

func TestUser_CorrectPassword(t *testing.T) {
	u := &User{Name: "Alice", Email: "alice@example.com"}
	if err := u.SetPassword("pass1234", "pass1234", true); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	if !u.CorrectPassword("pass1234") {
		t.Fatal("correct password rejected")
	}
	if u.CorrectPassword("wrong999") {
		t.Fatal("wrong password accepted")
	}
}

func TestUser_ChangedPasswordAfter(t *testing.T) {
	u := &User{}
	if u.ChangedPasswordAfter(time.Now()) {
		t.Fatal("never-changed password reported as changed")
	}

	u.PasswordChangedAt = time.Now()
	if !u.ChangedPasswordAfter(u.PasswordChangedAt.Add(-time.Hour)) {
		t.Fatal("change after token issue not detected")
	}
	if u.ChangedPasswordAfter(u.PasswordChangedAt.Add(time.Hour)) {
		t.Fatal("change before token issue reported as stale")
	}
}

func TestUser_NewResetToken(t *testing.T) {
	u := &User{}
	token, err := u.NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken returned error: %v", err)
	}

	if len(token) != 64 {
		t.Fatalf("token length = %d, want 64 hex characters", len(token))
	}
	if u.PasswordResetHash == token {
		t.Fatal("plaintext token persisted")
	}
	if u.PasswordResetHash != HashResetToken(token) {
		t.Fatal("stored hash does not match the issued token")
	}

	remaining := time.Until(u.PasswordResetExp)
	if remaining <= 9*time.Minute || remaining > 10*time.Minute {
		t.Fatalf("expiry %v not roughly ten minutes out", remaining)
	}
}

func TestUser_ClearResetToken(t *testing.T) {
	u := &User{}
	if _, err := u.NewResetToken(); err != nil {
		t.Fatalf("NewResetToken returned error: %v", err)
	}

	u.ClearResetToken()
	if u.PasswordResetHash != "" || !u.PasswordResetExp.IsZero() {
		t.Fatal("reset token fields not cleared")
	}
}

func TestUser_Normalize_Defaults(t *testing.T) {
	u := &User{Name: "  Alice  ", Email: "Alice@Example.COM"}
	if err := u.Normalize(); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if u.Name != "Alice" {
		t.Fatalf("name = %q, want trimmed", u.Name)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email = %q, want lowercased", u.Email)
	}
	if u.Role != RoleUser {
		t.Fatalf("role = %q, want %q", u.Role, RoleUser)
	}
	if !u.Active {
		t.Fatal("active not defaulted to true")
	}
}

func TestUser_Normalize_KeepsStoredAccountDeactivated(t *testing.T) {
	u := &User{
		ID:     primitive.NewObjectID(),
		Name:   "Alice",
		Email:  "alice@example.com",
		Active: false,
	}
	if err := u.Normalize(); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if u.Active {
		t.Fatal("normalizing a stored document reactivated the account")
	}
}
