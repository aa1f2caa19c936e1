package shared

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type samplePayload struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	StartDate  string `json:"startDate" validate:"required,date"`
	CheckIn    string `json:"checkIn" validate:"timeofday"`
	Amount     int64  `json:"amount" validate:"gte=0"`
	Kind       string `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	issues := ValidateStruct(&samplePayload{StartDate: "10/03/2024", CheckIn: "25:00", Amount: -1, Kind: "c"})
	got := map[string]string{}
	for _, issue := range issues {
		got[issue.Field] = issue.Reason
	}
	want := map[string]string{
		"employeeId": "is required",
		"startDate":  "must be a valid date in YYYY-MM-DD format",
		"checkIn":    "must be a time in HH:MM format",
		"amount":     "must be at least 0",
		"kind":       "must be one of: a b",
	}
	for field, reason := range want {
		if got[field] != reason {
			t.Fatalf("field %s: expected %q, got %q (all: %+v)", field, reason, got[field], issues)
		}
	}

	if issues := ValidateStruct(&samplePayload{EmployeeID: "e1", StartDate: "2024-03-10", CheckIn: "08:30"}); len(issues) != 0 {
		t.Fatalf("expected valid payload, got %+v", issues)
	}
}

func TestDecodeWritesValidationEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"startDate":"2024-03-10"}`))
	rec := httptest.NewRecorder()
	var payload samplePayload
	if Decode(rec, req, &payload, "req-1") {
		t.Fatal("expected decode to fail validation")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "validation_error" || body.RequestID != "req-1" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if len(body.Error.Details.Fields) != 1 || body.Error.Details.Fields[0].Field != "employeeId" {
		t.Fatalf("unexpected issues: %+v", body.Error.Details.Fields)
	}

	bad := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{`))
	rec = httptest.NewRecorder()
	if Decode(rec, bad, &payload, "") || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected invalid payload rejection, got %d", rec.Code)
	}
}

func TestParseDateInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	got, err := ParseDateIn("2024-03-10", loc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.Location() != loc || got.Hour() != 0 || got.Day() != 10 {
		t.Fatalf("unexpected date: %v", got)
	}

	got, err = ParseDateIn("2024-03-10T20:00:00Z", loc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.Day() != 11 {
		t.Fatalf("expected instant shown in org zone, got %v", got)
	}
}

func TestPeriodDefaultsAndBounds(t *testing.T) {
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	v := NewValidator()
	year, month := v.Period("", "", now)
	if year != 2024 || month != 3 || v.HasIssues() {
		t.Fatalf("unexpected default period %d-%d", year, month)
	}
	v.Period("13", "abc", now)
	if len(v.Issues()) != 2 {
		t.Fatalf("expected two issues, got %+v", v.Issues())
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	if got := ClientIP(req); got != "192.0.2.1" {
		t.Fatalf("expected socket host, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Fatalf("expected forwarded host, got %q", got)
	}
}
