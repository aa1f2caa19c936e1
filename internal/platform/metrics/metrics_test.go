package metrics

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(http.StatusOK, 10*time.Millisecond)
	c.Record(http.StatusConflict, 20*time.Millisecond)
	c.Record(http.StatusTooManyRequests, 0)
	c.Record(http.StatusInternalServerError, 30*time.Millisecond)
	c.RecordJob("contract_expiry", nil)
	c.RecordJob("contract_expiry", errors.New("db down"))

	snap := c.Snapshot()
	if snap["requestsTotal"] != uint64(4) {
		t.Fatalf("expected 4 requests, got %v", snap["requestsTotal"])
	}
	if snap["conflictsTotal"] != uint64(1) || snap["rateLimitedTotal"] != uint64(1) || snap["errorsTotal"] != uint64(1) {
		t.Fatalf("unexpected counters: %v", snap)
	}
	if snap["avgDurationMs"] != float64(15) {
		t.Fatalf("expected avg 15ms, got %v", snap["avgDurationMs"])
	}
	jobs := snap["jobs"].(map[string]map[string]uint64)
	if jobs["contract_expiry"]["runs"] != 2 || jobs["contract_expiry"]["failures"] != 1 {
		t.Fatalf("unexpected job counters: %v", jobs)
	}
}
