package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type recordedMetric struct {
	statuses []int
}

func (m *recordedMetric) Record(status int, _ time.Duration) {
	m.statuses = append(m.statuses, status)
}

func TestLoggerFeedsMetrics(t *testing.T) {
	metrics := &recordedMetric{}
	handler := Logger(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/leaves/x/approve", nil))
	if len(metrics.statuses) != 1 || metrics.statuses[0] != http.StatusConflict {
		t.Fatalf("expected first status recorded, got %v", metrics.statuses)
	}

	handler = Logger(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if metrics.statuses[1] != http.StatusOK {
		t.Fatalf("expected implicit 200, got %v", metrics.statuses)
	}
}

func TestRecovererReturnsEnvelope(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected json envelope, got %q", rec.Header().Get("Content-Type"))
	}
}

func TestBodyLimitRejectsDeclaredOversize(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("oversized body must not reach the handler")
	}))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.ContentLength = 64
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}
