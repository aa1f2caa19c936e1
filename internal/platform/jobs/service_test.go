package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memRuns struct {
	mu       sync.Mutex
	started  []string
	finished map[string]string
}

func (m *memRuns) Start(_ context.Context, jobType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, jobType)
	return jobType + "-run", nil
}

func (m *memRuns) Finish(_ context.Context, runID, status string, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished == nil {
		m.finished = map[string]string{}
	}
	m.finished[runID] = status
	return nil
}

type countingObserver struct {
	mu     sync.Mutex
	failed int
	total  int
}

func (o *countingObserver) RecordJob(_ string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.total++
	if err != nil {
		o.failed++
	}
}

func TestRunNowRecordsStatus(t *testing.T) {
	runs := &memRuns{}
	obs := &countingObserver{}
	svc := New(runs, obs)

	details, err := svc.RunNow(context.Background(), JobContractExpiry, func(context.Context) (any, error) {
		return map[string]any{"expired": 2}, nil
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if details.(map[string]any)["expired"] != 2 {
		t.Fatalf("unexpected details: %v", details)
	}
	if runs.finished["contract_expiry-run"] != "completed" {
		t.Fatalf("expected completed run, got %v", runs.finished)
	}

	_, err = svc.RunNow(context.Background(), "broken", func(context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected job error")
	}
	if runs.finished["broken-run"] != "failed" {
		t.Fatalf("expected failed run, got %v", runs.finished)
	}
	if obs.total != 2 || obs.failed != 1 {
		t.Fatalf("unexpected observer counts: %+v", obs)
	}
}

func TestScheduleRunsThroughWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := New(&memRuns{}, nil)
	svc.Start(ctx)

	done := make(chan struct{}, 1)
	svc.Schedule(ctx, JobContractExpiry, 5*time.Millisecond, func(context.Context) (any, error) {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil, nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled job never ran")
	}
	cancel()
	svc.Wait()
}

func TestScheduleDisabled(t *testing.T) {
	svc := New(nil, nil)
	svc.Schedule(context.Background(), JobContractExpiry, 0, func(context.Context) (any, error) {
		t.Fatal("disabled job must not run")
		return nil, nil
	})
	svc.Wait()
}
