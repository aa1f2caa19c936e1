package audithandler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/middleware"
)

type fakeReader struct {
	filter         audit.Filter
	includeDetails bool
	limit          int
	err            error
}

func (f *fakeReader) Count(_ context.Context, _ audit.Filter) (int, error) {
	return 7, nil
}

func (f *fakeReader) List(_ context.Context, filter audit.Filter, includeDetails bool, limit, _ int) ([]audit.Event, error) {
	f.filter, f.includeDetails, f.limit = filter, includeDetails, limit
	if f.err != nil {
		return nil, f.err
	}
	return []audit.Event{{
		ID:         "a1",
		ActorID:    "u-admin",
		Action:     audit.ActionLeaveApprove,
		EntityType: "leave_request",
		EntityID:   "l1",
		CreatedAt:  time.Date(2025, time.March, 1, 2, 3, 4, 0, time.UTC),
	}}, nil
}

func serve(t *testing.T, reader *fakeReader, path string, role string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	NewHandler(reader, auth.StaticPermissions{}).RegisterRoutes(router)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(middleware.WithUser(context.Background(), auth.UserContext{UserID: "u1", Role: role}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListEvents(t *testing.T) {
	reader := &fakeReader{}
	rec := serve(t, reader, "/audit/events?action=leave.approve&entityId=l1&includeDetails=true&limit=20", auth.RoleAdmin)
	if rec.Code != http.StatusOK || rec.Header().Get("X-Total-Count") != "7" {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	if reader.filter.Action != audit.ActionLeaveApprove || reader.filter.EntityID != "l1" || !reader.includeDetails || reader.limit != 20 {
		t.Fatalf("unexpected query: %+v details=%v limit=%d", reader.filter, reader.includeDetails, reader.limit)
	}
	var env struct {
		Data []audit.Event `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].ID != "a1" {
		t.Fatalf("unexpected events: %+v", env.Data)
	}
}

func TestListEventsRequiresAuditPermission(t *testing.T) {
	if rec := serve(t, &fakeReader{}, "/audit/events", auth.RoleManager); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestListEventsFailure(t *testing.T) {
	rec := serve(t, &fakeReader{err: errors.New("boom")}, "/audit/events", auth.RoleAdmin)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestExportEvents(t *testing.T) {
	reader := &fakeReader{}
	rec := serve(t, reader, "/audit/events/export", auth.RoleAdmin)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("export failed: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 || rows[1][2] != audit.ActionLeaveApprove || rows[1][7] != "2025-03-01T02:03:04Z" {
		t.Fatalf("unexpected csv: %v", rows)
	}
	if reader.limit != exportLimit {
		t.Fatalf("expected export limit, got %d", reader.limit)
	}
}
