package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrms/internal/platform/clock"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", EmployeeID: "e1", Role: RoleManager}

	token, err := GenerateToken(secret, claims, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if parsed.UserID != claims.UserID || parsed.EmployeeID != claims.EmployeeID || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: %+v", parsed)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestStaticPermissions(t *testing.T) {
	perms := StaticPermissions{}
	ok, _ := perms.HasPermission(context.Background(), RoleEmployee, PermLeaveApprove)
	if ok {
		t.Fatal("employee must not approve leave")
	}
	ok, _ = perms.HasPermission(context.Background(), RoleManager, PermLeaveApprove)
	if !ok {
		t.Fatal("manager should approve leave")
	}
	ok, _ = perms.HasPermission(context.Background(), "ghost", PermLeaveSelf)
	if ok {
		t.Fatal("unknown role has no permissions")
	}
}

type memUsers map[string]User

func (m memUsers) FindUserByEmail(_ context.Context, email string) (User, error) {
	user, ok := m[email]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func TestLogin(t *testing.T) {
	hash, err := HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	users := memUsers{"a@example.com": {ID: "u1", Email: "a@example.com", PasswordHash: hash, Role: RoleEmployee, EmployeeID: "e1"}}
	clk := &clock.Fixed{At: time.Now()}
	svc := NewService(users, clk, "secret", time.Hour)

	result, err := svc.Login(context.Background(), " A@example.com ", "Passw0rd!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.EmployeeID != "e1" || !result.ExpiresAt.Equal(clk.At.Add(time.Hour)) {
		t.Fatalf("unexpected login result: %+v", result)
	}

	if _, err := svc.Login(context.Background(), "a@example.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}
