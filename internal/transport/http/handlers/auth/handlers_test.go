package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/clock"
	"hrms/internal/transport/http/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type memUsers map[string]auth.User

func (m memUsers) FindUserByEmail(_ context.Context, email string) (auth.User, error) {
	if email == "broken@example.com" {
		return auth.User{}, errors.New("connection reset")
	}
	user, ok := m[email]
	if !ok {
		return auth.User{}, auth.ErrInvalidCredentials
	}
	return user, nil
}

const secret = "test-secret"

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	hash, err := auth.HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	users := memUsers{"hr@example.com": {ID: "u1", Email: "hr@example.com", PasswordHash: hash, Role: auth.RoleManager, EmployeeID: "e1"}}
	svc := auth.NewService(users, &clock.Fixed{At: time.Now()}, secret, time.Hour)
	router := chi.NewRouter()
	router.Use(middleware.Auth(secret))
	NewHandler(svc).RegisterRoutes(router)
	return router
}

func send(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec, env
}

func login(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return send(t, router, req)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	router := newRouter(t)
	rec, env := login(t, router, `{"email":"HR@example.com","password":"Passw0rd!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var result auth.LoginResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Token == "" || result.Role != auth.RoleManager || result.EmployeeID != "e1" {
		t.Fatalf("unexpected login result: %+v", result)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	rec, env = send(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me failed: %d %s", rec.Code, rec.Body.String())
	}
	var me struct {
		UserID      string   `json:"userId"`
		Permissions []string `json:"permissions"`
	}
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.UserID != "u1" || len(me.Permissions) != len(auth.RolePermissions[auth.RoleManager]) {
		t.Fatalf("unexpected me payload: %+v", me)
	}
}

func TestLoginFailures(t *testing.T) {
	router := newRouter(t)
	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"wrong password", `{"email":"hr@example.com","password":"nope"}`, http.StatusUnauthorized, "invalid_credentials"},
		{"unknown user", `{"email":"ghost@example.com","password":"Passw0rd!"}`, http.StatusUnauthorized, "invalid_credentials"},
		{"missing password", `{"email":"hr@example.com"}`, http.StatusBadRequest, "validation_error"},
		{"malformed", `{"email":`, http.StatusBadRequest, "invalid_payload"},
		{"store failure", `{"email":"broken@example.com","password":"x"}`, http.StatusInternalServerError, "login_failed"},
	}
	for _, tc := range cases {
		rec, env := login(t, router, tc.body)
		if rec.Code != tc.status || env.Error == nil || env.Error.Code != tc.code {
			t.Fatalf("%s: expected %d %s, got %d %s", tc.name, tc.status, tc.code, rec.Code, rec.Body.String())
		}
	}
}

func TestMeRequiresToken(t *testing.T) {
	router := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	if rec, _ := send(t, router, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
