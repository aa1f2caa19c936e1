package contracthandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/contract"
	"hrms/internal/domain/core"
	"hrms/internal/domain/notifications"
	"hrms/internal/platform/clock"
	"hrms/internal/transport/http/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

var (
	admin   = auth.UserContext{UserID: "u-admin", Role: auth.RoleAdmin}
	manager = auth.UserContext{UserID: "u-mgr", EmployeeID: "e9", Role: auth.RoleManager}
)

type fixture struct {
	router http.Handler
	clock  *clock.Fixed
	audit  *audit.MemoryRecorder
	inbox  *notifications.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	loc := clock.LoadLocation(clock.DefaultZone)
	clk := &clock.Fixed{At: time.Date(2025, time.June, 15, 10, 0, 0, 0, loc)}
	dir := core.NewMemoryDirectory(core.Employee{ID: "e1", Code: "NV001", FullName: "Nguyen Van A", Status: core.EmployeeWorking})
	svc := contract.NewService(contract.NewMemoryStore(), dir, clk)
	rec := &audit.MemoryRecorder{}
	inbox := notifications.NewService(notifications.NewMemoryStore(), dir, nil, "", clk)
	h := NewHandler(svc, auth.StaticPermissions{}, rec)
	h.Notifier = inbox
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return fixture{router: router, clock: clk, audit: rec, inbox: inbox}
}

func (f fixture) do(t *testing.T, method, path, body string, user auth.UserContext) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUser(context.Background(), user))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec, env
}

func (f fixture) create(t *testing.T, body string) contract.Contract {
	t.Helper()
	rec, env := f.do(t, http.MethodPost, "/contracts", body, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	return decodeContract(t, env)
}

func decodeContract(t *testing.T, env envelope) contract.Contract {
	t.Helper()
	var c contract.Contract
	if err := json.Unmarshal(env.Data, &c); err != nil {
		t.Fatalf("decode contract: %v", err)
	}
	return c
}

const fixedTerm = `{"employeeId":"e1","contractType":"fixed_term","startDate":"2025-01-01","endDate":"2025-12-31","salary":15000000}`

func TestSignLocksContract(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, fixedTerm)
	if c.ContractNumber != "HD001" || c.Status != contract.StatusPendingSignature || c.IsLocked {
		t.Fatalf("unexpected contract: %+v", c)
	}
	if second := f.create(t, fixedTerm); second.ContractNumber != "HD002" {
		t.Fatalf("expected HD002, got %s", second.ContractNumber)
	}

	rec, env := f.do(t, http.MethodPost, "/contracts/"+c.ID+"/sign", `{"signedBy":"Director"}`, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign failed: %d %s", rec.Code, rec.Body.String())
	}
	signed := decodeContract(t, env)
	if signed.Status != contract.StatusActive || !signed.IsLocked || signed.SignedBy != "Director" || signed.SignedDate == nil {
		t.Fatalf("unexpected signed contract: %+v", signed)
	}
	if inbox, _ := f.inbox.List(context.Background(), "e1", 10, 0); inbox.Total != 1 || inbox.Items[0].Title != "Contract HD001 signed" {
		t.Fatalf("expected sign notification, got %+v", inbox)
	}

	rec, env = f.do(t, http.MethodPost, "/contracts/"+c.ID+"/sign", "", admin)
	if rec.Code != http.StatusConflict || env.Error.Code != "contract_already_signed" || env.Error.Details["currentState"] != contract.StatusActive {
		t.Fatalf("expected re-sign conflict, got %d %s", rec.Code, rec.Body.String())
	}

	rec, env = f.do(t, http.MethodPut, "/contracts/"+c.ID, `{"contractType":"indefinite","startDate":"2025-01-01","salary":20000000}`, admin)
	if rec.Code != http.StatusConflict || env.Error.Code != "contract_locked" || env.Error.Details["currentState"] != contract.StatusActive {
		t.Fatalf("expected locked conflict, got %d %s", rec.Code, rec.Body.String())
	}
	if rec, _ := f.do(t, http.MethodDelete, "/contracts/"+c.ID, "", admin); rec.Code != http.StatusConflict {
		t.Fatalf("expected delete of active contract to conflict, got %d", rec.Code)
	}

	rec, env = f.do(t, http.MethodPost, "/contracts/"+c.ID+"/cancel", "", admin)
	if rec.Code != http.StatusOK || decodeContract(t, env).Status != contract.StatusCancelled {
		t.Fatalf("cancel failed: %d %s", rec.Code, rec.Body.String())
	}
	if rec, _ := f.do(t, http.MethodPost, "/contracts/"+c.ID+"/cancel", "", admin); rec.Code != http.StatusConflict {
		t.Fatalf("expected second cancel to conflict, got %d", rec.Code)
	}

	actions := f.audit.Actions()
	want := []string{audit.ActionContractCreate, audit.ActionContractCreate, audit.ActionContractSign, audit.ActionContractCancel}
	if len(actions) != len(want) {
		t.Fatalf("unexpected audit trail: %v", actions)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("unexpected audit trail: %v", actions)
		}
	}
}

func TestSignDefaultsToActingUser(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, fixedTerm)
	rec, env := f.do(t, http.MethodPost, "/contracts/"+c.ID+"/sign", "", admin)
	if rec.Code != http.StatusOK || decodeContract(t, env).SignedBy != admin.UserID {
		t.Fatalf("unexpected sign result: %d %s", rec.Code, rec.Body.String())
	}
}

func TestEditAndDeletePending(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, fixedTerm)

	rec, env := f.do(t, http.MethodPut, "/contracts/"+c.ID, `{"contractType":"indefinite","startDate":"2025-02-01","salary":18000000}`, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("edit failed: %d %s", rec.Code, rec.Body.String())
	}
	edited := decodeContract(t, env)
	if edited.ContractType != contract.TypeIndefinite || edited.EndDate != nil || edited.Salary != 18_000_000 || edited.EmployeeID != "e1" {
		t.Fatalf("unexpected edit: %+v", edited)
	}

	if rec, _ := f.do(t, http.MethodDelete, "/contracts/"+c.ID, "", admin); rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", rec.Code)
	}
	if rec, _ := f.do(t, http.MethodGet, "/contracts/"+c.ID, "", admin); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		body string
		code string
	}{
		{"missing employee", `{"contractType":"fixed_term","startDate":"2025-01-01"}`, "validation_error"},
		{"missing start", `{"employeeId":"e1","contractType":"fixed_term"}`, "validation_error"},
		{"unknown type", `{"employeeId":"e1","contractType":"freelance","startDate":"2025-01-01"}`, "invalid_contract_type"},
		{"end before start", `{"employeeId":"e1","contractType":"fixed_term","startDate":"2025-03-01","endDate":"2025-02-01"}`, "invalid_contract_dates"},
		{"negative salary", `{"employeeId":"e1","contractType":"fixed_term","startDate":"2025-01-01","salary":-1}`, "negative_salary"},
	}
	for _, tc := range cases {
		rec, env := f.do(t, http.MethodPost, "/contracts", tc.body, admin)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
		if env.Error == nil || env.Error.Code != tc.code {
			t.Fatalf("%s: expected code %s, got %s", tc.name, tc.code, rec.Body.String())
		}
	}
}

func TestExpiryIsEvaluatedOnRead(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, `{"employeeId":"e1","contractType":"seasonal","startDate":"2025-03-01","endDate":"2025-06-30"}`)
	if rec, _ := f.do(t, http.MethodPost, "/contracts/"+c.ID+"/sign", "", admin); rec.Code != http.StatusOK {
		t.Fatalf("sign failed: %d", rec.Code)
	}

	f.clock.Set(time.Date(2025, time.July, 1, 9, 0, 0, 0, f.clock.At.Location()))
	rec, env := f.do(t, http.MethodGet, "/contracts/"+c.ID, "", manager)
	if rec.Code != http.StatusOK {
		t.Fatalf("get failed: %d", rec.Code)
	}
	got := decodeContract(t, env)
	if got.Status != contract.StatusExpired || !got.IsExpired {
		t.Fatalf("expected expired contract, got %+v", got)
	}

	rec, _ = f.do(t, http.MethodGet, "/contracts?status=expired", "", manager)
	if rec.Header().Get("X-Total-Count") != "1" {
		t.Fatalf("expected one expired contract, got %q", rec.Header().Get("X-Total-Count"))
	}
}

func TestManagerCannotWrite(t *testing.T) {
	f := newFixture(t)
	if rec, _ := f.do(t, http.MethodPost, "/contracts", fixedTerm, manager); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	employee := auth.UserContext{UserID: "u-emp", EmployeeID: "e1", Role: auth.RoleEmployee}
	if rec, _ := f.do(t, http.MethodGet, "/contracts", "", employee); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
